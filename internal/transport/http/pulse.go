package http

import (
	"encoding/xml"
	"net/http"
	"strconv"
)

// pulseDocument is the markup the call channel fetches on its callback:
// hold the line for the configured pulse, then hang up. It is a pure
// function of one configured integer; no grant data and no validation
// decisions live here.
type pulseDocument struct {
	XMLName xml.Name   `xml:"Response"`
	Pause   pulsePause `xml:"Pause"`
	Hangup  struct{}   `xml:"Hangup"`
}

type pulsePause struct {
	Length string `xml:"length,attr"`
}

// HandlePulse serves the webhook the actuation channel calls back on.
// The route it is mounted under carries the unguessable slug; the handler
// itself answers unconditionally.
func HandlePulse(pulseSeconds int) http.HandlerFunc {
	if pulseSeconds <= 0 {
		pulseSeconds = 1
	}
	doc, err := xml.Marshal(pulseDocument{
		Pause: pulsePause{Length: strconv.Itoa(pulseSeconds)},
	})
	body := []byte(xml.Header)
	body = append(body, doc...)

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

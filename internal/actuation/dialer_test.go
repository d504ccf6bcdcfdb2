package actuation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

func TestRestDialer_Dial(t *testing.T) {
	t.Parallel()

	t.Run("posts the call request with basic auth", func(t *testing.T) {
		var got *http.Request
		var form map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			form = map[string]string{
				"From": r.PostFormValue("From"),
				"To":   r.PostFormValue("To"),
				"Url":  r.PostFormValue("Url"),
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"sid":"CA123"}`))
		}))
		defer server.Close()

		dialer := NewRestDialer(Config{
			AccountSID:  "AC123",
			AuthToken:   "secret",
			FromNumber:  "+40700000000",
			APIBaseURL:  server.URL,
			CallbackURL: "https://gate.example.com/pulse/abc",
		}, nil)

		if err := dialer.Dial(context.Background(), "+40700000001"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got.URL.Path != "/Accounts/AC123/Calls.json" {
			t.Fatalf("unexpected path %s", got.URL.Path)
		}
		user, pass, ok := got.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Fatalf("expected basic auth with account credentials")
		}
		if form["From"] != "+40700000000" || form["To"] != "+40700000001" {
			t.Fatalf("unexpected form values %v", form)
		}
		if form["Url"] != "https://gate.example.com/pulse/abc" {
			t.Fatalf("expected callback url in form, got %q", form["Url"])
		}
	})

	t.Run("omits callback url when not configured", func(t *testing.T) {
		var hasURL bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			_, hasURL = r.PostForm["Url"]
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		dialer := NewRestDialer(Config{
			AccountSID: "AC123",
			AuthToken:  "secret",
			FromNumber: "+40700000000",
			APIBaseURL: server.URL,
		}, nil)

		if err := dialer.Dial(context.Background(), "+40700000001"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if hasURL {
			t.Fatalf("expected no Url field in form")
		}
	})

	t.Run("channel rejection maps to actuation failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"authentication failed"}`))
		}))
		defer server.Close()

		dialer := NewRestDialer(Config{
			AccountSID: "AC123",
			AuthToken:  "wrong",
			FromNumber: "+40700000000",
			APIBaseURL: server.URL,
		}, nil)

		err := dialer.Dial(context.Background(), "+40700000001")
		if !errors.Is(err, domain.ErrActuationFailed) {
			t.Fatalf("expected ErrActuationFailed, got %v", err)
		}
	})

	t.Run("unreachable channel maps to actuation failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		dialer := NewRestDialer(Config{
			AccountSID: "AC123",
			AuthToken:  "secret",
			FromNumber: "+40700000000",
			APIBaseURL: server.URL,
		}, nil)

		err := dialer.Dial(context.Background(), "+40700000001")
		if !errors.Is(err, domain.ErrActuationFailed) {
			t.Fatalf("expected ErrActuationFailed, got %v", err)
		}
	})

	t.Run("missing credentials fail before any request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		dialer := NewRestDialer(Config{APIBaseURL: server.URL}, nil)

		err := dialer.Dial(context.Background(), "+40700000001")
		if !errors.Is(err, domain.ErrGateConfigMissing) {
			t.Fatalf("expected ErrGateConfigMissing, got %v", err)
		}
		if requests != 0 {
			t.Fatalf("expected no request sent, got %d", requests)
		}
	})

	t.Run("missing destination number", func(t *testing.T) {
		dialer := NewRestDialer(Config{
			AccountSID: "AC123",
			AuthToken:  "secret",
			FromNumber: "+40700000000",
		}, nil)

		err := dialer.Dial(context.Background(), "")
		if !errors.Is(err, domain.ErrGateConfigMissing) {
			t.Fatalf("expected ErrGateConfigMissing, got %v", err)
		}
	})
}

func TestPhoneBook_GatePhone(t *testing.T) {
	t.Parallel()

	book := PhoneBook{"+40700000001", " +40700000002 ", ""}

	tests := []struct {
		name      string
		gate      int
		wantPhone string
		wantOK    bool
	}{
		{"first gate", 1, "+40700000001", true},
		{"second gate trimmed", 2, "+40700000002", true},
		{"blank slot", 3, "", false},
		{"gate zero", 0, "", false},
		{"out of range", 4, "", false},
		{"negative", -1, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			phone, ok := book.GatePhone(tt.gate)
			if phone != tt.wantPhone || ok != tt.wantOK {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.wantPhone, tt.wantOK, phone, ok)
			}
		})
	}
}

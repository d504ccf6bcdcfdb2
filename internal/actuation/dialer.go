// Package actuation talks to the external voice-call channel that
// physically triggers a gate. It is vendor-neutral beyond the REST
// contract: a form-encoded POST to {base}/Accounts/{sid}/Calls.json with
// basic auth, as the Twilio-compatible calls API expects.
package actuation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roby-rodriguez/parking-app/internal/domain"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	APIBaseURL string
	// CallbackURL is handed to the channel; it calls back on it to fetch
	// the pulse instruction. Optional.
	CallbackURL string
	Timeout     time.Duration
}

// RestDialer places calls over the channel's REST API with a bounded
// timeout. Credentials are checked per request, not at construction, so
// an unconfigured deployment degrades gracefully instead of crashing at
// startup.
type RestDialer struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func NewRestDialer(cfg Config, logger *slog.Logger) *RestDialer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RestDialer{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (d *RestDialer) Dial(ctx context.Context, toNumber string) error {
	if d.cfg.AccountSID == "" || d.cfg.AuthToken == "" || d.cfg.FromNumber == "" {
		return fmt.Errorf("%w: call channel credentials not set", domain.ErrGateConfigMissing)
	}
	if toNumber == "" {
		return fmt.Errorf("%w: no destination number", domain.ErrGateConfigMissing)
	}

	form := url.Values{}
	form.Set("From", d.cfg.FromNumber)
	form.Set("To", toNumber)
	if d.cfg.CallbackURL != "" {
		form.Set("Url", d.cfg.CallbackURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json",
		strings.TrimSuffix(d.cfg.APIBaseURL, "/"), d.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrActuationFailed, err)
	}
	req.SetBasicAuth(d.cfg.AccountSID, d.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrActuationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.logger.Error("call channel rejected the request",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return fmt.Errorf("%w: channel returned status %d", domain.ErrActuationFailed, resp.StatusCode)
	}
	return nil
}

// PhoneBook maps gate numbers (1-based) to destination numbers, straight
// from configuration.
type PhoneBook []string

func (p PhoneBook) GatePhone(gateNumber int) (string, bool) {
	if gateNumber < 1 || gateNumber > len(p) {
		return "", false
	}
	phone := strings.TrimSpace(p[gateNumber-1])
	return phone, phone != ""
}

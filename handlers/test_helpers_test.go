package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		StudioName:            "Test Studio",
		SiteURL:               "https://studio.test",
		AdminEmail:            "admin@studio.test",
		UnsubscribeSecret:     "test-unsubscribe-secret",
		NewsletterConcurrency: 2,
		QuoteValidDays:        30,
	}
}

// fakeSender records every message and fails for addresses in failFor.
type fakeSender struct {
	mu      sync.Mutex
	sent    []services.OutgoingEmail
	failFor map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg services.OutgoingEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.failFor[msg.To] {
		return errors.New("smtp: mailbox unavailable")
	}
	return nil
}

func (f *fakeSender) messages() []services.OutgoingEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]services.OutgoingEmail(nil), f.sent...)
}

func validAssessmentBody() map[string]any {
	return map[string]any{
		"name":               "Grace Hopper",
		"email":              "Grace@Example.com",
		"company":            "Compiler Co",
		"projectType":        "web_app",
		"description":        "Customer portal with billing, dashboards and reporting.",
		"platforms":          []string{"web", "ios"},
		"mustHaveFeatures":   []string{"user_auth", "admin_dashboard", "payments"},
		"niceToHaveFeatures": []string{"analytics"},
		"designStyle":        "custom",
		"integrations":       []string{"Stripe"},
		"dataStorage":        "basic",
		"authentication":     "social",
		"timeline":           "standard",
		"budgetRange":        "15k_50k",
	}
}

func bytesReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/collections"
	"devstudio/services"
	"devstudio/testhelpers"
)

func validContactBody() map[string]any {
	return map[string]any{
		"name":        "Linus Pauling",
		"email":       "Linus@Example.com",
		"company":     "Vitamin Labs",
		"subject":     "New website",
		"message":     "We need a new marketing site before spring.",
		"budgetRange": "5k_15k",
	}
}

func TestLeadStatusesMatchServices(t *testing.T) {
	if !slices.Equal(collections.LeadStatuses, services.LeadStatusOptions) {
		t.Errorf("collections.LeadStatuses = %v, services.LeadStatusOptions = %v",
			collections.LeadStatuses, services.LeadStatusOptions)
	}
}

func TestHandleContactCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sender := &fakeSender{}

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(t, http.MethodPost, "/api/contact", validContactBody()), rec)
	if err := HandleContactCreate(app, testConfig(), sender)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	if body["notified"] != true {
		t.Errorf("notified = %v, want true", body["notified"])
	}
	record, err := app.FindRecordById("contacts", body["id"].(string))
	if err != nil {
		t.Fatalf("contact not stored: %v", err)
	}
	if record.GetString("status") != "new" || record.GetString("source") != "contact_form" {
		t.Errorf("status/source = %q/%q", record.GetString("status"), record.GetString("source"))
	}
	if record.GetString("email") != "linus@example.com" {
		t.Errorf("email = %q", record.GetString("email"))
	}

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(msgs))
	}
	if msgs[0].To != "admin@studio.test" {
		t.Errorf("notification to %q", msgs[0].To)
	}
	if msgs[0].Headers["Reply-To"] != "linus@example.com" {
		t.Errorf("Reply-To = %q", msgs[0].Headers["Reply-To"])
	}
	if !strings.Contains(msgs[0].Text, "Vitamin Labs") {
		t.Errorf("notification text missing company: %q", msgs[0].Text)
	}
}

func TestHandleContactCreate_NotificationFailureIsNotFatal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sender := &fakeSender{failFor: map[string]bool{"admin@studio.test": true}}

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(t, http.MethodPost, "/api/contact", validContactBody()), rec)
	if err := HandleContactCreate(app, testConfig(), sender)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if decodeJSON(t, rec)["notified"] != false {
		t.Error("expected notified=false")
	}
	total, _ := app.CountRecords("contacts")
	if total != 1 {
		t.Errorf("expected 1 stored contact, got %d", total)
	}
}

func TestHandleContactCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	payload := validContactBody()
	payload["message"] = "short"
	payload["budgetRange"] = "lots"

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, newJSONRequest(t, http.MethodPost, "/api/contact", payload), rec)
	if err := HandleContactCreate(app, testConfig(), nil)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := decodeJSON(t, rec)["fields"].(map[string]any)
	for _, f := range []string{"message", "budgetRange"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected %s error, got %v", f, fields)
		}
	}
}

func TestHandleContactList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestContact(t, app, "Alice", "alice@example.com", "new")
	testhelpers.CreateTestContact(t, app, "Bob", "bob@example.com", "qualified")
	testhelpers.CreateTestContact(t, app, "Carol", "carol@acme.test", "new")

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantTotal int
	}{
		{"all", "", http.StatusOK, 3},
		{"by status", "?status=new", http.StatusOK, 2},
		{"search", "?q=acme", http.StatusOK, 1},
		{"status and search", "?status=new&q=alice", http.StatusOK, 1},
		{"unknown status", "?status=archived", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts"+tt.query, nil)
			rec := httptest.NewRecorder()
			if err := HandleContactList(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decodeJSON(t, rec)
			if body["total"] != float64(tt.wantTotal) {
				t.Errorf("total = %v, want %d", body["total"], tt.wantTotal)
			}
		})
	}
}

func TestContactQueries_StorageFailure(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestContact(t, app, "Alice", "alice@example.com", "new")
	contacts, err := app.FindCollectionByNameOrId("contacts")
	if err != nil {
		t.Fatalf("find contacts collection: %v", err)
	}
	if err := app.Delete(contacts); err != nil {
		t.Fatalf("delete contacts collection: %v", err)
	}

	tests := []struct {
		name    string
		target  string
		handler func(*pocketbase.PocketBase) func(*core.RequestEvent) error
	}{
		{"list", "/api/admin/contacts", HandleContactList},
		{"export", "/api/admin/contacts/export", HandleContactExport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			if err := tt.handler(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
			}
			if body := decodeJSON(t, rec); body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
		})
	}
}

func TestHandleContactUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	contact := testhelpers.CreateTestContact(t, app, "Alice", "alice@example.com", "new")

	patch := func(id string, body map[string]any) *httptest.ResponseRecorder {
		req := newJSONRequest(t, http.MethodPatch, "/api/admin/contacts/"+id, body)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		if err := HandleContactUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	rec := patch(contact.Id, map[string]any{"status": "contacted", "notes": "  Called on Monday  "})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	contact, _ = app.FindRecordById("contacts", contact.Id)
	if contact.GetString("status") != "contacted" || contact.GetString("notes") != "Called on Monday" {
		t.Errorf("status/notes = %q/%q", contact.GetString("status"), contact.GetString("notes"))
	}

	rec = patch(contact.Id, map[string]any{"notes": "Sent proposal"})
	if rec.Code != http.StatusOK {
		t.Fatalf("notes-only update: expected 200, got %d", rec.Code)
	}
	contact, _ = app.FindRecordById("contacts", contact.Id)
	if contact.GetString("status") != "contacted" {
		t.Errorf("status changed by a notes-only update: %q", contact.GetString("status"))
	}

	if rec := patch(contact.Id, map[string]any{"status": "archived"}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: expected 400, got %d", rec.Code)
	}
	if rec := patch("missing", map[string]any{"status": "won"}); rec.Code != http.StatusNotFound {
		t.Errorf("missing contact: expected 404, got %d", rec.Code)
	}
}

func TestHandleContactExport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestContact(t, app, "Alice", "alice@example.com", "new")
	testhelpers.CreateTestContact(t, app, "=HYPERLINK(\"x\")", "mallory@example.com", "lost")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts/export", nil)
	rec := httptest.NewRecorder()
	if err := HandleContactExport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Leads_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("export is not an xlsx (zip) file")
	}
}

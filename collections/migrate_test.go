package collections_test

import (
	"testing"
	"time"

	"devstudio/collections"
	"devstudio/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

func TestMigrateLeadStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	legacy := testhelpers.CreateTestContact(t, app, "Old Lead", "old@example.com", "")
	current := testhelpers.CreateTestContact(t, app, "Won Lead", "won@example.com", "won")

	if err := collections.MigrateLeadStatus(app); err != nil {
		t.Fatalf("MigrateLeadStatus() error: %v", err)
	}

	got, _ := app.FindRecordById("contacts", legacy.Id)
	if got.GetString("status") != "new" {
		t.Errorf("legacy status = %q, want new", got.GetString("status"))
	}
	got, _ = app.FindRecordById("contacts", current.Id)
	if got.GetString("status") != "won" {
		t.Errorf("existing status changed to %q", got.GetString("status"))
	}

	// Second run is a no-op
	if err := collections.MigrateLeadStatus(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}
}

func TestMigrateExpiredQuotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotes")
	now := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)

	mk := func(number, status string, validUntil time.Time) *core.Record {
		r := core.NewRecord(col)
		r.Set("quote_number", number)
		r.Set("status", status)
		r.Set("valid_until", validUntil)
		if err := app.Save(r); err != nil {
			t.Fatalf("save quote: %v", err)
		}
		return r
	}
	stale := mk("Q-2026-001", "sent", now.AddDate(0, 0, -1))
	fresh := mk("Q-2026-002", "draft", now.AddDate(0, 0, 10))
	accepted := mk("Q-2026-003", "accepted", now.AddDate(0, 0, -30))

	if err := collections.MigrateExpiredQuotes(app, now); err != nil {
		t.Fatalf("MigrateExpiredQuotes() error: %v", err)
	}

	want := map[string]string{stale.Id: "expired", fresh.Id: "draft", accepted.Id: "accepted"}
	for id, status := range want {
		r, _ := app.FindRecordById("quotes", id)
		if r.GetString("status") != status {
			t.Errorf("quote %s status = %q, want %q", r.GetString("quote_number"), r.GetString("status"), status)
		}
	}
}

package collections_test

import (
	"testing"

	"devstudio/collections"
	"devstudio/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"assessments",
	"quotes",
	"subscribers",
	"newsletters",
	"contacts",
	"posts",
	"showcase_projects",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_QuotesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotes")

	fields := []string{"quote_number", "assessment", "breakdown", "proposal", "final_total", "status", "valid_until", "created"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotes: missing field %q", f)
		}
	}

	assessmentField := col.Fields.GetByName("assessment")
	if rf, ok := assessmentField.(*core.RelationField); ok {
		if rf.MaxSelect != 1 || !rf.CascadeDelete {
			t.Errorf("quotes.assessment: MaxSelect=%d CascadeDelete=%v", rf.MaxSelect, rf.CascadeDelete)
		}
	} else {
		t.Error("quotes.assessment is not a RelationField")
	}

	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		if len(sf.Values) != len(collections.QuoteStatuses) {
			t.Errorf("quotes.status values = %v", sf.Values)
		}
	} else {
		t.Error("quotes.status is not a SelectField")
	}
}

func TestSetup_SubscriberEmailUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestSubscriber(t, app, "ada@example.com", "active")

	col, _ := app.FindCollectionByNameOrId("subscribers")
	dup := core.NewRecord(col)
	dup.Set("email", "ada@example.com")
	dup.Set("status", "active")
	if err := app.Save(dup); err == nil {
		t.Error("expected unique index violation for duplicate subscriber email")
	}
}

func TestSetup_PostSlugPattern(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("posts")

	r := core.NewRecord(col)
	r.Set("title", "Bad slug")
	r.Set("slug", "Bad Slug!")
	r.Set("body", "body")
	if err := app.Save(r); err == nil {
		t.Error("expected slug pattern validation error")
	}
}

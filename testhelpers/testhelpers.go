// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

func saveRecord(t *testing.T, app core.App, collection string, values map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range values {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}
	return record
}

// CreateTestSubscriber creates a subscriber with the given email and status.
func CreateTestSubscriber(t *testing.T, app core.App, email, status string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "subscribers", map[string]any{
		"email":  email,
		"name":   strings.Split(email, "@")[0],
		"status": status,
		"source": "test",
	})
}

// CreateTestNewsletter creates a draft newsletter issue.
func CreateTestNewsletter(t *testing.T, app core.App, subject, body string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "newsletters", map[string]any{
		"subject": subject,
		"body":    body,
		"status":  "draft",
	})
}

// CreateTestContact creates a CRM lead with the given status.
func CreateTestContact(t *testing.T, app core.App, name, email, status string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "contacts", map[string]any{
		"name":    name,
		"email":   email,
		"message": "Looking for a quote on a new website.",
		"source":  "test",
		"status":  status,
	})
}

// CreateTestPost creates a blog post.
func CreateTestPost(t *testing.T, app core.App, title, slug, body string, published bool) *core.Record {
	t.Helper()
	return saveRecord(t, app, "posts", map[string]any{
		"title":     title,
		"slug":      slug,
		"excerpt":   "Excerpt for " + title,
		"body":      body,
		"published": published,
	})
}

// CreateTestShowcaseProject creates a showcase project.
func CreateTestShowcaseProject(t *testing.T, app core.App, title, slug string, published bool, sortOrder int) *core.Record {
	t.Helper()
	return saveRecord(t, app, "showcase_projects", map[string]any{
		"title":      title,
		"slug":       slug,
		"summary":    "Summary of " + title,
		"body":       "Details about **" + title + "**.",
		"tech_stack": []string{"Go"},
		"published":  published,
		"sort_order": sortOrder,
	})
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s", frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

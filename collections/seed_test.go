package collections_test

import (
	"testing"

	"devstudio/collections"
	"devstudio/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	posts, err := app.FindAllRecords("posts")
	if err != nil {
		t.Fatalf("query posts error: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}

	published, _ := app.FindRecordsByFilter("posts", "published = true", "", 0, 0, nil)
	if len(published) != 2 {
		t.Errorf("expected 2 published posts, got %d", len(published))
	}

	showcase, _ := app.FindAllRecords("showcase_projects")
	if len(showcase) != 3 {
		t.Errorf("expected 3 showcase projects, got %d", len(showcase))
	}

	post, err := app.FindFirstRecordByData("posts", "slug", "how-we-price-a-project")
	if err != nil {
		t.Fatalf("seeded post not found: %v", err)
	}
	if post.GetDateTime("published_at").IsZero() {
		t.Error("published post should have published_at")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	posts, _ := app.FindAllRecords("posts")
	if len(posts) != 3 {
		t.Errorf("expected 3 posts after second seed, got %d", len(posts))
	}
}

func TestSeed_SkipsWhenContentExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestPost(t, app, "Mine", "mine", "hello", true)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	posts, _ := app.FindAllRecords("posts")
	if len(posts) != 1 {
		t.Errorf("expected existing posts to be left alone, got %d", len(posts))
	}
	showcase, _ := app.FindAllRecords("showcase_projects")
	if len(showcase) != 3 {
		t.Errorf("expected showcase to be seeded independently, got %d", len(showcase))
	}
}

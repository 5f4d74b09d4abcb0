package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type postDef struct {
	title       string
	slug        string
	excerpt     string
	body        string
	tags        []string
	published   bool
	publishedAt time.Time
}

type showcaseDef struct {
	title     string
	slug      string
	client    string
	summary   string
	body      string
	techStack []string
	url       string
	featured  bool
	published bool
	sortOrder int
}

// ── Seed data ────────────────────────────────────────────────────────────

var seedPosts = []postDef{
	{
		title:   "How we price a project",
		slug:    "how-we-price-a-project",
		excerpt: "A walk through the numbers behind every quote we send.",
		body: "## Start from the project type\n\n" +
			"Every quote starts from a base price for the kind of product you need. " +
			"A landing page and a SaaS platform are very different amounts of work.\n\n" +
			"## Add what you asked for\n\n" +
			"Each feature on your list has a price. Nice-to-have features are shown separately " +
			"so you can decide later.\n\n" +
			"| Adjustment | Typical effect |\n|---|---|\n" +
			"| Extra platforms | + per platform |\n| Custom design | + fixed surcharge |\n" +
			"| Rush timeline | x 1.25 |\n",
		tags:        []string{"pricing", "process"},
		published:   true,
		publishedAt: time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC),
	},
	{
		title:   "Five questions to answer before you build an app",
		slug:    "five-questions-before-you-build",
		excerpt: "The short checklist we go through with every new client.",
		body: "1. Who is it for?\n2. What is the one job it must do well?\n" +
			"3. Which platforms matter on day one?\n4. What does it connect to?\n" +
			"5. When does it need to be live?\n\nAnswer these and the rest of the plan follows.",
		tags:        []string{"planning"},
		published:   true,
		publishedAt: time.Date(2026, time.May, 12, 9, 0, 0, 0, time.UTC),
	},
	{
		title:     "Notes on our launch checklist",
		slug:      "launch-checklist",
		excerpt:   "Draft: the list we run through on launch day.",
		body:      "- Backups verified\n- DNS TTL lowered\n- Error tracking enabled\n",
		tags:      []string{"process"},
		published: false,
	},
}

var seedShowcase = []showcaseDef{
	{
		title:     "Harbour Bookings",
		slug:      "harbour-bookings",
		client:    "Harbour Boat Tours",
		summary:   "Online booking and payments for a family-run tour operator.",
		body:      "We replaced phone bookings with a web app that handles seat availability, deposits and reminders.\n\n**Result:** 70% of bookings now arrive online.",
		techStack: []string{"Go", "PocketBase", "Stripe", "HTMX"},
		url:       "https://example.com/harbour",
		featured:  true,
		published: true,
		sortOrder: 1,
	},
	{
		title:     "Greenline Field App",
		slug:      "greenline-field-app",
		client:    "Greenline Landscaping",
		summary:   "iOS and Android app for crews to log jobs, photos and hours.",
		body:      "Crews work offline all day and sync when they are back in range. The office sees jobs close in near real time.",
		techStack: []string{"Flutter", "Go", "SQLite"},
		featured:  false,
		published: true,
		sortOrder: 2,
	},
	{
		title:     "Internal Metrics Portal",
		slug:      "internal-metrics-portal",
		client:    "Confidential",
		summary:   "Not yet public.",
		techStack: []string{"Go"},
		published: false,
		sortOrder: 3,
	},
}

// Seed populates the blog and showcase with sample content. It is safe to
// call on every startup because each collection is skipped once it has
// any records.
func Seed(app core.App) error {
	if err := seedPostRecords(app); err != nil {
		return err
	}
	return seedShowcaseRecords(app)
}

func seedPostRecords(app core.App) error {
	col, err := app.FindCollectionByNameOrId("posts")
	if err != nil {
		return fmt.Errorf("seed: could not find posts collection: %w", err)
	}
	total, err := app.CountRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not count posts: %w", err)
	}
	if total > 0 {
		return nil // already seeded
	}

	log.Println("seed: posts collection is empty – inserting sample posts …")

	return app.RunInTransaction(func(txApp core.App) error {
		for _, d := range seedPosts {
			r := core.NewRecord(col)
			r.Set("title", d.title)
			r.Set("slug", d.slug)
			r.Set("excerpt", d.excerpt)
			r.Set("body", d.body)
			r.Set("tags", d.tags)
			r.Set("published", d.published)
			if !d.publishedAt.IsZero() {
				r.Set("published_at", d.publishedAt)
			}
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: post %q: %w", d.slug, err)
			}
		}
		return nil
	})
}

func seedShowcaseRecords(app core.App) error {
	col, err := app.FindCollectionByNameOrId("showcase_projects")
	if err != nil {
		return fmt.Errorf("seed: could not find showcase_projects collection: %w", err)
	}
	total, err := app.CountRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not count showcase projects: %w", err)
	}
	if total > 0 {
		return nil // already seeded
	}

	log.Println("seed: showcase_projects collection is empty – inserting sample projects …")

	return app.RunInTransaction(func(txApp core.App) error {
		for _, d := range seedShowcase {
			r := core.NewRecord(col)
			r.Set("title", d.title)
			r.Set("slug", d.slug)
			r.Set("client", d.client)
			r.Set("summary", d.summary)
			r.Set("body", d.body)
			r.Set("tech_stack", d.techStack)
			r.Set("url", d.url)
			r.Set("featured", d.featured)
			r.Set("published", d.published)
			r.Set("sort_order", d.sortOrder)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: showcase %q: %w", d.slug, err)
			}
		}
		return nil
	})
}

package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// Field limits for long-form text. TextField defaults to 5000 characters.
const (
	longTextMax    = 100000
	jsonMaxSize    = 2 << 20
	lowerSlugRegex = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
)

// QuoteStatuses are the lifecycle states of a quote.
var QuoteStatuses = []string{"draft", "sent", "accepted", "declined", "expired"}

// NewsletterStatuses are the lifecycle states of a newsletter issue.
var NewsletterStatuses = []string{"draft", "sending", "sent", "partial", "failed"}

// LeadStatuses are the CRM pipeline stages of a contact.
var LeadStatuses = []string{"new", "contacted", "qualified", "won", "lost"}

// Setup programmatically creates/ensures every collection the studio site
// needs exists.
func Setup(app core.App) {
	assessments := ensureCollection(app, "assessments", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 100})
		c.Fields.Add(&core.EmailField{Name: "email", Required: true})
		c.Fields.Add(&core.TextField{Name: "company", Max: 120})
		c.Fields.Add(&core.TextField{Name: "phone", Max: 40})
		c.Fields.Add(&core.TextField{Name: "project_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "timeline"})
		c.Fields.Add(&core.TextField{Name: "budget_range"})
		c.Fields.Add(&core.JSONField{Name: "data", Required: true, MaxSize: jsonMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_assessments_email", false, "email", "")
	})

	ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "assessment",
			Required:      false,
			CollectionId:  assessments.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "client_email"})
		c.Fields.Add(&core.TextField{Name: "title"})
		c.Fields.Add(&core.JSONField{Name: "breakdown", MaxSize: jsonMaxSize})
		c.Fields.Add(&core.JSONField{Name: "proposal", MaxSize: jsonMaxSize})
		c.Fields.Add(&core.NumberField{Name: "final_total"})
		c.Fields.Add(&core.TextField{Name: "currency"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    QuoteStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.BoolField{Name: "ai_summary"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_number", true, "quote_number", "")
	})

	ensureCollection(app, "subscribers", func(c *core.Collection) {
		c.Fields.Add(&core.EmailField{Name: "email", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Max: 100})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "unsubscribed"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "source", Max: 50})
		c.Fields.Add(&core.JSONField{Name: "tags"})
		c.Fields.Add(&core.DateField{Name: "unsubscribed_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_subscribers_email", true, "email", "")
	})

	ensureCollection(app, "newsletters", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "subject", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "preview", Max: 300})
		c.Fields.Add(&core.TextField{Name: "body", Required: true, Max: longTextMax})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    NewsletterStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "campaign_id"})
		c.Fields.Add(&core.DateField{Name: "sent_at"})
		c.Fields.Add(&core.NumberField{Name: "total_count"})
		c.Fields.Add(&core.NumberField{Name: "sent_count"})
		c.Fields.Add(&core.NumberField{Name: "failed_count"})
		c.Fields.Add(&core.JSONField{Name: "failures", MaxSize: jsonMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "contacts", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 100})
		c.Fields.Add(&core.EmailField{Name: "email", Required: true})
		c.Fields.Add(&core.TextField{Name: "company", Max: 120})
		c.Fields.Add(&core.TextField{Name: "phone", Max: 40})
		c.Fields.Add(&core.TextField{Name: "subject", Max: 200})
		c.Fields.Add(&core.TextField{Name: "message", Required: true})
		c.Fields.Add(&core.TextField{Name: "budget_range"})
		c.Fields.Add(&core.TextField{Name: "source", Max: 50})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    LeadStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "posts", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "slug", Required: true, Pattern: lowerSlugRegex})
		c.Fields.Add(&core.TextField{Name: "excerpt", Max: 500})
		c.Fields.Add(&core.TextField{Name: "body", Required: true, Max: longTextMax})
		c.Fields.Add(&core.JSONField{Name: "tags"})
		c.Fields.Add(&core.BoolField{Name: "published"})
		c.Fields.Add(&core.DateField{Name: "published_at"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_posts_slug", true, "slug", "")
	})

	ensureCollection(app, "showcase_projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "slug", Required: true, Pattern: lowerSlugRegex})
		c.Fields.Add(&core.TextField{Name: "client", Max: 120})
		c.Fields.Add(&core.TextField{Name: "summary", Max: 500})
		c.Fields.Add(&core.TextField{Name: "body", Max: longTextMax})
		c.Fields.Add(&core.JSONField{Name: "tech_stack"})
		c.Fields.Add(&core.URLField{Name: "url"})
		c.Fields.Add(&core.BoolField{Name: "featured"})
		c.Fields.Add(&core.BoolField{Name: "published"})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_showcase_slug", true, "slug", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

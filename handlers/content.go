package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
	"devstudio/templates"
)

const postDateLayout = "January 2, 2006"

func jsonStrings(rec *core.Record, field string) []string {
	var values []string
	if err := rec.UnmarshalJSONField(field, &values); err != nil {
		return nil
	}
	return values
}

func postDate(rec *core.Record) string {
	if d := rec.GetDateTime("published_at"); !d.IsZero() {
		return d.Time().Format(postDateLayout)
	}
	return ""
}

// HandleBlogList renders the published posts, newest first.
// Route: GET /blog
func HandleBlogList(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("posts", "published = true", "-published_at,-created", 0, 0)
		if err != nil {
			log.Printf("blog_list: could not query posts: %v", err)
			records = nil
		}

		items := make([]templates.PostListItem, 0, len(records))
		for _, rec := range records {
			items = append(items, templates.PostListItem{
				Title:       rec.GetString("title"),
				Slug:        rec.GetString("slug"),
				Excerpt:     rec.GetString("excerpt"),
				PublishedAt: postDate(rec),
				Tags:        jsonStrings(rec, "tags"),
			})
		}
		return renderPage(e, cfg, http.StatusOK, "Blog", templates.BlogList(items))
	}
}

// HandleBlogPost renders one published post. Drafts are reported as missing.
// Route: GET /blog/{slug}
func HandleBlogPost(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		slug := e.Request.PathValue("slug")
		rec, err := app.FindFirstRecordByFilter("posts", "slug = {:slug} && published = true",
			map[string]any{"slug": slug})
		if err != nil {
			return renderPage(e, cfg, http.StatusNotFound, "Not found",
				templates.NotFound("That post does not exist.", "/blog", "All posts"))
		}

		body, err := services.RenderMarkdown(rec.GetString("body"))
		if err != nil {
			log.Printf("blog_post: markdown render failed for %s: %v", slug, err)
			return renderPage(e, cfg, http.StatusInternalServerError, "Error",
				templates.NotFound("This post could not be displayed.", "/blog", "All posts"))
		}

		post := templates.PostView{
			Title:       rec.GetString("title"),
			PublishedAt: postDate(rec),
			Tags:        jsonStrings(rec, "tags"),
			BodyHTML:    body,
		}
		return renderPage(e, cfg, http.StatusOK, post.Title, templates.BlogPost(post))
	}
}

func publishedShowcase(app *pocketbase.PocketBase) []templates.ShowcaseItem {
	records, err := app.FindRecordsByFilter("showcase_projects", "published = true", "sort_order,-created", 0, 0)
	if err != nil {
		log.Printf("showcase: could not query projects: %v", err)
		return []templates.ShowcaseItem{}
	}
	items := make([]templates.ShowcaseItem, 0, len(records))
	for _, rec := range records {
		items = append(items, toShowcaseItem(rec))
	}
	return items
}

func toShowcaseItem(rec *core.Record) templates.ShowcaseItem {
	return templates.ShowcaseItem{
		Title:     rec.GetString("title"),
		Slug:      rec.GetString("slug"),
		Client:    rec.GetString("client"),
		Summary:   rec.GetString("summary"),
		TechStack: jsonStrings(rec, "tech_stack"),
		URL:       rec.GetString("url"),
		Featured:  rec.GetBool("featured"),
	}
}

// HandleShowcaseAPI returns the published portfolio projects as JSON.
// Route: GET /api/showcase
func HandleShowcaseAPI(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		items := publishedShowcase(app)
		return e.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"total":    len(items),
			"projects": items,
		})
	}
}

// HandleShowcaseList renders the portfolio index.
// Route: GET /projects
func HandleShowcaseList(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderPage(e, cfg, http.StatusOK, "Work", templates.ShowcaseList(publishedShowcase(app)))
	}
}

// HandleShowcaseDetail renders one published project.
// Route: GET /projects/{slug}
func HandleShowcaseDetail(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		slug := e.Request.PathValue("slug")
		rec, err := app.FindFirstRecordByFilter("showcase_projects", "slug = {:slug} && published = true",
			map[string]any{"slug": slug})
		if err != nil {
			return renderPage(e, cfg, http.StatusNotFound, "Not found",
				templates.NotFound("That project does not exist.", "/projects", "All projects"))
		}

		item := toShowcaseItem(rec)
		body, err := services.RenderMarkdown(rec.GetString("body"))
		if err != nil {
			log.Printf("showcase_detail: markdown render failed for %s: %v", slug, err)
		}
		item.BodyHTML = body
		return renderPage(e, cfg, http.StatusOK, item.Title, templates.ShowcaseDetail(item))
	}
}

package main

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/cli"
	"devstudio/collections"
	"devstudio/config"
	"devstudio/handlers"
	"devstudio/services"
)

func main() {
	cfg := config.Load()
	app := pocketbase.New()

	app.RootCmd.AddCommand(cli.NewQuoteCommand())

	// Create collections, seed content and run data migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateLeadStatus(app); err != nil {
			log.Printf("Warning: lead status migration failed: %v", err)
		}
		if err := collections.MigrateExpiredQuotes(app, time.Now()); err != nil {
			log.Printf("Warning: quote expiry migration failed: %v", err)
		}
		return se.Next()
	})

	mailer := services.NewPocketBaseMailer(app)

	var polisher services.SummaryPolisher
	if cfg.AIEnabled() {
		if s := services.NewAnthropicSummarizer(cfg.AnthropicAPIKey, cfg.AnthropicModel); s != nil {
			polisher = s
		}
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestIDMiddleware())

		// ── Quoting ──────────────────────────────────────────────
		se.Router.POST("/api/assessments", handlers.HandleAssessmentCreate(app, cfg, polisher))
		se.Router.POST("/api/pricing/estimate", handlers.HandlePricingEstimate(app))
		se.Router.GET("/api/quotes/{id}/export", handlers.HandleQuoteExport(app, cfg))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(app))

		// ── Newsletter ───────────────────────────────────────────
		se.Router.POST("/api/newsletter/subscribe", handlers.HandleSubscribe(app))
		se.Router.GET("/newsletter/unsubscribe", handlers.HandleUnsubscribe(app, cfg))

		// ── CRM ──────────────────────────────────────────────────
		se.Router.POST("/api/contact", handlers.HandleContactCreate(app, cfg, mailer))

		// ── Public content ───────────────────────────────────────
		se.Router.GET("/blog", handlers.HandleBlogList(app, cfg))
		se.Router.GET("/blog/{slug}", handlers.HandleBlogPost(app, cfg))
		se.Router.GET("/api/showcase", handlers.HandleShowcaseAPI(app))
		se.Router.GET("/projects", handlers.HandleShowcaseList(app, cfg))
		se.Router.GET("/projects/{slug}", handlers.HandleShowcaseDetail(app, cfg))

		// ── Admin (superusers only) ──────────────────────────────
		admin := se.Router.Group("/api/admin")
		admin.Bind(apis.RequireSuperuserAuth())
		admin.POST("/newsletters/{id}/send", handlers.HandleNewsletterSend(app, cfg, mailer))
		admin.POST("/subscribers/import", handlers.HandleSubscriberImport(app))
		admin.GET("/contacts/export", handlers.HandleContactExport(app))
		admin.GET("/contacts", handlers.HandleContactList(app))
		admin.PATCH("/contacts/{id}", handlers.HandleContactUpdate(app))

		// Redirect home to the portfolio
		se.Router.GET("/{$}", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

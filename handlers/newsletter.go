package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"devstudio/config"
	"devstudio/services"
	"devstudio/templates"
)

// HandleSubscribe signs an address up for the newsletter. Addresses that
// previously unsubscribed are reactivated.
func HandleSubscribe(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.SubscribeRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			return validationFailed(e, err)
		}

		col, err := app.FindCollectionByNameOrId("subscribers")
		if err != nil {
			log.Printf("subscribe: could not find subscribers collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to subscribe")
		}

		existing, _ := app.FindFirstRecordByData(col, "email", req.Email)
		if existing != nil {
			if existing.GetString("status") == "active" {
				return e.JSON(http.StatusOK, map[string]any{"success": true, "status": "already_subscribed"})
			}
			existing.Set("status", "active")
			existing.Set("unsubscribed_at", nil)
			if req.Name != "" {
				existing.Set("name", req.Name)
			}
			if err := app.Save(existing); err != nil {
				log.Printf("subscribe: failed to reactivate %s: %v", req.Email, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to subscribe")
			}
			return e.JSON(http.StatusOK, map[string]any{"success": true, "status": "resubscribed"})
		}

		record := core.NewRecord(col)
		record.Set("email", req.Email)
		record.Set("name", req.Name)
		record.Set("status", "active")
		record.Set("source", req.Source)
		if err := app.Save(record); err != nil {
			log.Printf("subscribe: failed to save %s: %v", req.Email, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to subscribe")
		}
		return e.JSON(http.StatusCreated, map[string]any{"success": true, "status": "subscribed"})
	}
}

// HandleUnsubscribe serves the page behind the unsubscribe link in every
// newsletter. Repeating the request is harmless.
func HandleUnsubscribe(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		fail := func(message string) error {
			return renderPage(e, cfg, http.StatusBadRequest, "Unsubscribe",
				templates.UnsubscribeResult(templates.UnsubscribeData{Message: message}))
		}

		token := e.Request.URL.Query().Get("token")
		if token == "" {
			return fail("This unsubscribe link is incomplete.")
		}
		claims, err := services.ParseUnsubscribeToken(cfg.UnsubscribeKey(), token)
		if err != nil {
			log.Printf("unsubscribe: rejected token: %v", err)
			return fail("This unsubscribe link is invalid.")
		}

		record, err := app.FindRecordById("subscribers", claims.SubscriberID)
		if err != nil || !strings.EqualFold(record.GetString("email"), claims.Subject) {
			return fail("This unsubscribe link is no longer valid.")
		}

		if record.GetString("status") != "unsubscribed" {
			record.Set("status", "unsubscribed")
			record.Set("unsubscribed_at", types.NowDateTime())
			if err := app.Save(record); err != nil {
				log.Printf("unsubscribe: failed to update %s: %v", record.Id, err)
				return renderPage(e, cfg, http.StatusInternalServerError, "Unsubscribe",
					templates.UnsubscribeResult(templates.UnsubscribeData{Message: "Something went wrong, please try again."}))
			}
		}

		return renderPage(e, cfg, http.StatusOK, "Unsubscribe",
			templates.UnsubscribeResult(templates.UnsubscribeData{Email: record.GetString("email"), Success: true}))
	}
}

// HandleNewsletterSend delivers a draft newsletter to every active subscriber.
// All sends settle before the response; failures are counted and stored on
// the newsletter record, never retried automatically. Sending a partial or
// failed newsletter again only targets the recorded failures.
func HandleNewsletterSend(app *pocketbase.PocketBase, cfg *config.Config, sender services.MailSender) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		newsletter, err := app.FindRecordById("newsletters", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Newsletter not found")
		}

		resend := false
		switch newsletter.GetString("status") {
		case "sending", "sent":
			return jsonError(e, http.StatusConflict, "Newsletter has already been sent")
		case "partial", "failed":
			resend = true
		}

		subscribers, err := app.FindRecordsByFilter("subscribers", "status = 'active'", "email", 0, 0)
		if err != nil {
			log.Printf("newsletter_send: failed to load subscribers: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load subscribers")
		}

		var pending map[string]bool
		if resend {
			var previous []services.SendFailure
			if err := newsletter.UnmarshalJSONField("failures", &previous); err != nil {
				log.Printf("newsletter_send: unreadable failures on %s: %v", id, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to read previous send")
			}
			pending = make(map[string]bool, len(previous))
			for _, f := range previous {
				pending[strings.ToLower(f.Email)] = true
			}
		}

		recipients := make([]services.Recipient, 0, len(subscribers))
		for _, s := range subscribers {
			email := s.GetString("email")
			if resend && !pending[strings.ToLower(email)] {
				continue
			}
			recipients = append(recipients, services.Recipient{
				ID:    s.Id,
				Email: email,
				Name:  s.GetString("name"),
			})
		}

		issue := services.Issue{
			ID:       newsletter.Id,
			Subject:  newsletter.GetString("subject"),
			Preview:  newsletter.GetString("preview"),
			Markdown: newsletter.GetString("body"),
		}
		compose, err := newsletterComposer(cfg, issue)
		if err != nil {
			log.Printf("newsletter_send: failed to render %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to render newsletter")
		}

		campaignID := newsletter.GetString("campaign_id")
		if !resend || campaignID == "" {
			campaignID = uuid.NewString()
		}
		previousSent := 0
		if resend {
			previousSent = newsletter.GetInt("sent_count")
		}
		newsletter.Set("status", "sending")
		newsletter.Set("campaign_id", campaignID)
		if err := app.Save(newsletter); err != nil {
			log.Printf("newsletter_send: failed to mark %s as sending: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to start send")
		}

		result := services.SendNewsletter(e.Request.Context(), sender, issue, recipients, services.SendOptions{
			Concurrency: cfg.NewsletterConcurrency,
			CampaignID:  campaignID,
			Compose:     compose,
		})

		delivered := previousSent + result.Sent
		newsletter.Set("status", sendStatus(delivered, result.Failed))
		newsletter.Set("sent_at", types.NowDateTime())
		if !resend {
			newsletter.Set("total_count", result.Total)
		}
		newsletter.Set("sent_count", delivered)
		newsletter.Set("failed_count", result.Failed)
		newsletter.Set("failures", result.Failures)
		if err := app.Save(newsletter); err != nil {
			log.Printf("newsletter_send: failed to store result for %s: %v", id, err)
		}

		app.Logger().Info("newsletter sent",
			"newsletterId", id,
			"campaignId", campaignID,
			"resend", resend,
			"total", result.Total,
			"sent", result.Sent,
			"failed", result.Failed,
		)

		if isHTMX(e) {
			if result.Failed > 0 {
				SetToast(e, "warning", fmt.Sprintf("Sent %d of %d, %d failed", result.Sent, result.Total, result.Failed))
			} else {
				SetToast(e, "success", fmt.Sprintf("Sent to %d subscribers", result.Sent))
			}
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":    result.Failed == 0,
			"campaignId": campaignID,
			"resend":     resend,
			"total":      result.Total,
			"sent":       result.Sent,
			"failed":     result.Failed,
			"failures":   result.Failures,
		})
	}
}

// sendStatus derives the newsletter status from everything delivered so far
// and the failures of the latest run.
func sendStatus(delivered, failed int) string {
	switch {
	case failed == 0:
		return "sent"
	case delivered == 0:
		return "failed"
	}
	return "partial"
}

// newsletterComposer renders the markdown body once and returns a composer
// that wraps it in the email layout with a per-recipient unsubscribe link.
func newsletterComposer(cfg *config.Config, issue services.Issue) (services.ComposeFunc, error) {
	bodyHTML, err := services.RenderMarkdown(issue.Markdown)
	if err != nil {
		return nil, err
	}

	return func(issue services.Issue, r services.Recipient) (services.OutgoingEmail, error) {
		unsubscribeURL, err := unsubscribeLink(cfg, r, time.Now())
		if err != nil {
			return services.OutgoingEmail{}, err
		}

		var sb strings.Builder
		err = templates.NewsletterEmail(templates.NewsletterEmailData{
			StudioName:     cfg.StudioName,
			Subject:        issue.Subject,
			Preview:        issue.Preview,
			BodyHTML:       bodyHTML,
			UnsubscribeURL: unsubscribeURL,
		}).Render(context.Background(), &sb)
		if err != nil {
			return services.OutgoingEmail{}, fmt.Errorf("render email: %w", err)
		}

		text := issue.Markdown
		headers := map[string]string{}
		if unsubscribeURL != "" {
			text += "\n\n--\nUnsubscribe: " + unsubscribeURL
			headers["List-Unsubscribe"] = "<" + unsubscribeURL + ">"
		}
		return services.OutgoingEmail{
			To:      r.Email,
			ToName:  r.Name,
			Subject: issue.Subject,
			HTML:    sb.String(),
			Text:    text,
			Headers: headers,
		}, nil
	}, nil
}

// unsubscribeLink returns "" when no signing secret is configured.
func unsubscribeLink(cfg *config.Config, r services.Recipient, now time.Time) (string, error) {
	if cfg.UnsubscribeSecret == "" {
		return "", nil
	}
	token, err := services.NewUnsubscribeToken(cfg.UnsubscribeKey(), r.ID, r.Email, now)
	if err != nil {
		return "", err
	}
	return cfg.SiteURL + "/newsletter/unsubscribe?token=" + url.QueryEscape(token), nil
}

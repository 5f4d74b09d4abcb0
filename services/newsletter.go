package services

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"sort"
	"strings"
	"sync"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/mailer"
	"golang.org/x/sync/errgroup"
)

// DefaultNewsletterConcurrency bounds in-flight sends when no limit is given.
const DefaultNewsletterConcurrency = 5

// OutgoingEmail is one fully rendered message for a single recipient.
type OutgoingEmail struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

// MailSender delivers a single email.
type MailSender interface {
	Send(ctx context.Context, msg OutgoingEmail) error
}

// Issue is one newsletter edition.
type Issue struct {
	ID       string
	Subject  string
	Preview  string
	Markdown string
}

// Recipient is an active subscriber at the time the send started.
type Recipient struct {
	ID    string
	Email string
	Name  string
}

// ComposeFunc renders the email for one recipient.
type ComposeFunc func(issue Issue, r Recipient) (OutgoingEmail, error)

// SendOptions controls a newsletter fan-out.
type SendOptions struct {
	Concurrency int
	CampaignID  string
	Compose     ComposeFunc
}

// SendFailure records why delivery to one recipient failed.
type SendFailure struct {
	RecipientID string `json:"recipientId"`
	Email       string `json:"email"`
	Error       string `json:"error"`
}

// SendResult summarises a fan-out. Sent + Failed always equals Total.
type SendResult struct {
	CampaignID string        `json:"campaignId"`
	Total      int           `json:"total"`
	Sent       int           `json:"sent"`
	Failed     int           `json:"failed"`
	Failures   []SendFailure `json:"failures"`
}

// SendNewsletter sends issue to every recipient and waits for all sends to
// settle. A failed send is recorded and never retried; it does not stop the
// others.
func SendNewsletter(ctx context.Context, sender MailSender, issue Issue, recipients []Recipient, opts SendOptions) SendResult {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultNewsletterConcurrency
	}
	compose := opts.Compose
	if compose == nil {
		compose = ComposePlainNewsletter
	}

	result := SendResult{
		CampaignID: opts.CampaignID,
		Total:      len(recipients),
		Failures:   []SendFailure{},
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(limit)

	for _, r := range recipients {
		g.Go(func() error {
			err := deliver(ctx, sender, compose, issue, r, opts.CampaignID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, SendFailure{
					RecipientID: r.ID,
					Email:       r.Email,
					Error:       err.Error(),
				})
				return nil
			}
			result.Sent++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Email < result.Failures[j].Email
	})
	return result
}

func deliver(ctx context.Context, sender MailSender, compose ComposeFunc, issue Issue, r Recipient, campaignID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := compose(issue, r)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	if msg.To == "" {
		msg.To = r.Email
	}
	if campaignID != "" {
		if msg.Headers == nil {
			msg.Headers = map[string]string{}
		}
		msg.Headers["X-Campaign-ID"] = campaignID
	}
	if err := sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// ComposePlainNewsletter renders the issue markdown without any layout.
func ComposePlainNewsletter(issue Issue, r Recipient) (OutgoingEmail, error) {
	html, err := RenderMarkdown(issue.Markdown)
	if err != nil {
		return OutgoingEmail{}, err
	}
	return OutgoingEmail{
		To:      r.Email,
		ToName:  r.Name,
		Subject: issue.Subject,
		HTML:    html,
		Text:    issue.Markdown,
	}, nil
}

// PocketBaseMailer sends through the app's configured mail client, using the
// sender address from the application settings.
type PocketBaseMailer struct {
	app core.App
}

func NewPocketBaseMailer(app core.App) *PocketBaseMailer {
	return &PocketBaseMailer{app: app}
}

func (m *PocketBaseMailer) Send(ctx context.Context, msg OutgoingEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("missing recipient address")
	}
	meta := m.app.Settings().Meta
	message := &mailer.Message{
		From:    mail.Address{Address: meta.SenderAddress, Name: meta.SenderName},
		To:      []mail.Address{{Address: msg.To, Name: msg.ToName}},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		Headers: msg.Headers,
	}
	if err := m.app.NewMailClient().Send(message); err != nil {
		log.Printf("mail: send to %s failed: %v", msg.To, err)
		return err
	}
	return nil
}

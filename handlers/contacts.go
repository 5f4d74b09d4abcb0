package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
)

const adminNotifyTimeout = 10 * time.Second

type contactItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	BudgetRange string `json:"budgetRange"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	Created     string `json:"created"`
	Age         string `json:"age"`
}

func toContactItem(rec *core.Record, now time.Time) contactItem {
	created := rec.GetDateTime("created").Time()
	item := contactItem{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Email:       rec.GetString("email"),
		Company:     rec.GetString("company"),
		Phone:       rec.GetString("phone"),
		Subject:     rec.GetString("subject"),
		Message:     rec.GetString("message"),
		BudgetRange: rec.GetString("budget_range"),
		Source:      rec.GetString("source"),
		Status:      rec.GetString("status"),
		Notes:       rec.GetString("notes"),
	}
	if !created.IsZero() {
		item.Created = created.Format(time.RFC3339)
		item.Age = humanize.RelTime(created, now, "ago", "from now")
	}
	return item
}

// HandleContactCreate stores a lead from the public contact form and emails
// the studio admin. A failed notification is logged and does not fail the
// request.
func HandleContactCreate(app *pocketbase.PocketBase, cfg *config.Config, sender services.MailSender) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.ContactRequest
		if err := e.BindBody(&req); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		req.Normalize()
		if err := req.Validate(); err != nil {
			return validationFailed(e, err)
		}

		col, err := app.FindCollectionByNameOrId("contacts")
		if err != nil {
			log.Printf("contact_create: could not find contacts collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to save message")
		}
		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("email", req.Email)
		record.Set("company", req.Company)
		record.Set("phone", req.Phone)
		record.Set("subject", req.Subject)
		record.Set("message", req.Message)
		record.Set("budget_range", req.BudgetRange)
		record.Set("source", req.Source)
		record.Set("status", "new")
		if err := app.Save(record); err != nil {
			log.Printf("contact_create: failed to save lead from %s: %v", req.Email, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to save message")
		}

		notified := notifyAdmin(e.Request.Context(), cfg, sender, req)

		return e.JSON(http.StatusCreated, map[string]any{
			"success":  true,
			"id":       record.Id,
			"notified": notified,
		})
	}
}

func notifyAdmin(ctx context.Context, cfg *config.Config, sender services.MailSender, req services.ContactRequest) bool {
	if sender == nil || cfg.AdminEmail == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, adminNotifyTimeout)
	defer cancel()

	subject := "New enquiry from " + req.Name
	if req.Subject != "" {
		subject += ": " + req.Subject
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nEmail: %s\n", req.Name, req.Email)
	if req.Company != "" {
		fmt.Fprintf(&sb, "Company: %s\n", req.Company)
	}
	if req.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", req.Phone)
	}
	if req.BudgetRange != "" {
		fmt.Fprintf(&sb, "Budget: %s\n", services.OptionLabel(services.BudgetRangeOptions, req.BudgetRange))
	}
	fmt.Fprintf(&sb, "Source: %s\n\n%s\n", req.Source, req.Message)

	err := sender.Send(ctx, services.OutgoingEmail{
		To:      cfg.AdminEmail,
		Subject: subject,
		Text:    sb.String(),
		Headers: map[string]string{"Reply-To": req.Email},
	})
	if err != nil {
		log.Printf("contact_create: admin notification failed: %v", err)
		return false
	}
	return true
}

// HandleContactList lists leads, newest first, optionally filtered by status
// and a search term.
// Route: GET /api/admin/contacts
func HandleContactList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := findContacts(app, e)
		if err != nil {
			return contactQueryError(e, err)
		}

		now := time.Now()
		items := make([]contactItem, 0, len(records))
		for _, rec := range records {
			items = append(items, toContactItem(rec, now))
		}
		return e.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"total":    len(items),
			"contacts": items,
		})
	}
}

var errUnknownLeadStatus = errors.New("unknown lead status")

// findContacts applies the ?status= and ?q= filters.
func findContacts(app *pocketbase.PocketBase, e *core.RequestEvent) ([]*core.Record, error) {
	status := strings.TrimSpace(e.Request.URL.Query().Get("status"))
	search := strings.TrimSpace(e.Request.URL.Query().Get("q"))

	if status != "" && !slices.Contains(services.LeadStatusOptions, status) {
		return nil, errUnknownLeadStatus
	}

	filters := []string{"1=1"}
	params := map[string]any{}
	if status != "" {
		filters = append(filters, "status = {:status}")
		params["status"] = status
	}
	if search != "" {
		filters = append(filters, "(name ~ {:q} || email ~ {:q} || company ~ {:q})")
		params["q"] = search
	}

	records, err := app.FindRecordsByFilter("contacts", strings.Join(filters, " && "), "-created", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	return records, nil
}

func contactQueryError(e *core.RequestEvent, err error) error {
	if errors.Is(err, errUnknownLeadStatus) {
		return jsonError(e, http.StatusBadRequest,
			"Unknown status; use one of "+strings.Join(services.LeadStatusOptions, ", "))
	}
	log.Printf("contacts: %v", err)
	return jsonError(e, http.StatusInternalServerError, "Failed to load contacts")
}

// HandleContactUpdate changes the status or notes of a lead.
// Route: PATCH /api/admin/contacts/{id}
func HandleContactUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("contacts", id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Contact not found")
		}

		var upd services.ContactUpdate
		if err := e.BindBody(&upd); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := upd.Validate(); err != nil {
			return validationFailed(e, err)
		}

		if upd.Status != nil {
			record.Set("status", *upd.Status)
		}
		if upd.Notes != nil {
			record.Set("notes", strings.TrimSpace(*upd.Notes))
		}
		if err := app.Save(record); err != nil {
			log.Printf("contact_update: failed to save %s: %v", id, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to update contact")
		}

		if isHTMX(e) {
			SetToast(e, "success", "Contact updated")
		}
		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"contact": toContactItem(record, time.Now()),
		})
	}
}

// HandleContactExport downloads the (optionally filtered) leads as xlsx.
// Route: GET /api/admin/contacts/export
func HandleContactExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := findContacts(app, e)
		if err != nil {
			return contactQueryError(e, err)
		}

		leads := make([]services.LeadRow, 0, len(records))
		for _, rec := range records {
			leads = append(leads, services.LeadRow{
				Name:      rec.GetString("name"),
				Email:     rec.GetString("email"),
				Company:   rec.GetString("company"),
				Status:    rec.GetString("status"),
				Source:    rec.GetString("source"),
				Budget:    services.OptionLabel(services.BudgetRangeOptions, rec.GetString("budget_range")),
				Message:   rec.GetString("message"),
				CreatedAt: rec.GetDateTime("created").Time().Format("2006-01-02 15:04"),
			})
		}

		data, err := services.GenerateLeadsExcel(leads)
		if err != nil {
			log.Printf("contact_export: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}
		filename := fmt.Sprintf("Leads_%s.xlsx", time.Now().Format("2006-01-02"))
		return sendAttachment(e, xlsxContentType, filename, data)
	}
}

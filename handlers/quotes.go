package handlers

import (
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
	"devstudio/templates"
)

const (
	textContentType = "text/plain; charset=utf-8"
	htmlContentType = "text/html; charset=utf-8"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const quoteDateLayout = "02 Jan 2006"

// storedQuote is a quote record with its JSON fields decoded.
type storedQuote struct {
	record    *core.Record
	proposal  services.Proposal
	breakdown services.PricingBreakdown
}

func loadQuote(app *pocketbase.PocketBase, id string) (*storedQuote, error) {
	record, err := app.FindRecordById("quotes", id)
	if err != nil {
		return nil, err
	}
	q := &storedQuote{record: record}
	if err := record.UnmarshalJSONField("proposal", &q.proposal); err != nil {
		return nil, err
	}
	if err := record.UnmarshalJSONField("breakdown", &q.breakdown); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *storedQuote) meta(studioName string) services.ExportMeta {
	m := services.ExportMeta{
		StudioName:  studioName,
		QuoteNumber: q.record.GetString("quote_number"),
	}
	if created := q.record.GetDateTime("created"); !created.IsZero() {
		m.IssuedDate = created.Time().Format(quoteDateLayout)
	}
	if valid := q.record.GetDateTime("valid_until"); !valid.IsZero() {
		m.ValidUntil = valid.Time().Format(quoteDateLayout)
	}
	return m
}

func (q *storedQuote) expired(now time.Time) bool {
	if q.record.GetString("status") == "expired" {
		return true
	}
	valid := q.record.GetDateTime("valid_until")
	return !valid.IsZero() && now.After(valid.Time())
}

// HandleQuoteView returns a stored quote with its breakdown and proposal.
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		q, err := loadQuote(app, id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"success":     true,
			"id":          q.record.Id,
			"quoteNumber": q.record.GetString("quote_number"),
			"status":      q.record.GetString("status"),
			"expired":     q.expired(time.Now()),
			"validUntil":  q.record.GetDateTime("valid_until").String(),
			"finalTotal":  q.record.GetFloat("final_total"),
			"currency":    q.record.GetString("currency"),
			"aiSummary":   q.record.GetBool("ai_summary"),
			"pricing":     q.breakdown,
			"proposal":    q.proposal,
		})
	}
}

// HandleQuoteExport downloads a quote as text, html, docx, pdf or xlsx.
// Without a format the text rendering is returned.
func HandleQuoteExport(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		format := strings.ToLower(strings.TrimSpace(e.Request.URL.Query().Get("format")))
		if format == "" {
			format = services.ExportFormatText
		}
		if !slices.Contains(services.ExportFormats, format) {
			return jsonError(e, http.StatusBadRequest,
				"Unsupported format; use one of "+strings.Join(services.ExportFormats, ", "))
		}

		q, err := loadQuote(app, id)
		if err != nil {
			return jsonError(e, http.StatusNotFound, "Quote not found")
		}
		meta := q.meta(cfg.StudioName)

		switch format {
		case services.ExportFormatHTML:
			var sb strings.Builder
			if err := templates.ProposalDocument(q.proposal, meta).Render(e.Request.Context(), &sb); err != nil {
				log.Printf("quote_export: html render failed for %s: %v", id, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to render proposal")
			}
			return sendAttachment(e, htmlContentType, services.ProposalFilename(q.proposal, meta, "html"), []byte(sb.String()))

		case services.ExportFormatDOCX:
			body := services.RenderProposalText(q.proposal, meta)
			return sendAttachment(e, docxContentType, services.ProposalFilename(q.proposal, meta, "docx"), []byte(body))

		case services.ExportFormatPDF:
			data, err := services.GenerateProposalPDF(q.proposal, meta)
			if err != nil {
				log.Printf("quote_export: pdf generation failed for %s: %v", id, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to generate PDF")
			}
			return sendAttachment(e, pdfContentType, services.ProposalFilename(q.proposal, meta, "pdf"), data)

		case services.ExportFormatXLSX:
			data, err := services.GenerateBreakdownExcel(q.proposal, q.breakdown, meta)
			if err != nil {
				log.Printf("quote_export: excel generation failed for %s: %v", id, err)
				return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
			}
			return sendAttachment(e, xlsxContentType, services.ProposalFilename(q.proposal, meta, "xlsx"), data)
		}

		body := services.RenderProposalText(q.proposal, meta)
		return sendAttachment(e, textContentType, services.ProposalFilename(q.proposal, meta, "txt"), []byte(body))
	}
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"devstudio/config"
	"devstudio/services"
)

// assessmentResponse is the body of a successful assessment submission.
type assessmentResponse struct {
	Success           bool                      `json:"success"`
	AssessmentID      string                    `json:"assessmentId"`
	QuoteID           string                    `json:"quoteId,omitempty"`
	QuoteNumber       string                    `json:"quoteNumber,omitempty"`
	Pricing           services.PricingBreakdown `json:"pricing"`
	ProposalGenerated bool                      `json:"proposalGenerated"`
}

// HandleAssessmentCreate validates and stores a project assessment, prices it
// and stores the generated proposal as a quote. A quote that cannot be stored
// does not fail the request; the client still gets the price.
func HandleAssessmentCreate(app *pocketbase.PocketBase, cfg *config.Config, polisher services.SummaryPolisher) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var a services.ProjectAssessment
		if err := e.BindBody(&a); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		a.Normalize()
		if err := a.Validate(); err != nil {
			return validationFailed(e, err)
		}

		assessmentsCol, err := app.FindCollectionByNameOrId("assessments")
		if err != nil {
			log.Printf("assessment: could not find assessments collection: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to save assessment")
		}
		assessment := core.NewRecord(assessmentsCol)
		assessment.Set("name", a.Name)
		assessment.Set("email", a.Email)
		assessment.Set("company", a.Company)
		assessment.Set("phone", a.Phone)
		assessment.Set("project_type", a.ProjectType)
		assessment.Set("timeline", a.Timeline)
		assessment.Set("budget_range", a.BudgetRange)
		assessment.Set("data", a)
		if err := app.Save(assessment); err != nil {
			log.Printf("assessment: failed to save assessment for %s: %v", a.Email, err)
			return jsonError(e, http.StatusInternalServerError, "Failed to save assessment")
		}

		breakdown := services.CalculatePricing(a)
		proposal := services.GenerateProposal(a, breakdown)
		polished := false
		if cfg.AIEnabled() {
			polished = services.PolishProposalSummary(e.Request.Context(), polisher, a, &proposal)
		}

		resp := assessmentResponse{
			Success:      true,
			AssessmentID: assessment.Id,
			Pricing:      breakdown,
		}

		quote, err := saveQuote(app, cfg, assessment.Id, a, breakdown, proposal, polished, time.Now())
		if err != nil {
			log.Printf("assessment: proposal for assessment %s not stored: %v", assessment.Id, err)
		} else {
			resp.QuoteID = quote.Id
			resp.QuoteNumber = quote.GetString("quote_number")
			resp.ProposalGenerated = true
		}

		app.Logger().Info("assessment received",
			"assessmentId", assessment.Id,
			"projectType", a.ProjectType,
			"finalTotal", breakdown.FinalTotal,
			"quote", resp.QuoteNumber,
		)

		return e.JSON(http.StatusCreated, resp)
	}
}

// quoteNumberAttempts bounds how often saveQuote allocates a fresh number
// after losing a race for one.
const quoteNumberAttempts = 3

// saveQuote stores the proposal as a draft quote. Two submissions can compute
// the same next number; the unique index rejects the later save, which then
// allocates again.
func saveQuote(
	app core.App,
	cfg *config.Config,
	assessmentID string,
	a services.ProjectAssessment,
	b services.PricingBreakdown,
	p services.Proposal,
	polished bool,
	now time.Time,
) (*core.Record, error) {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return nil, err
	}
	p.ValidDays = cfg.QuoteValidDays

	for attempt := 1; ; attempt++ {
		number, err := services.GenerateQuoteNumber(app, now)
		if err != nil {
			return nil, err
		}

		quote := core.NewRecord(quotesCol)
		quote.Set("quote_number", number)
		quote.Set("assessment", assessmentID)
		quote.Set("client_name", a.Name)
		quote.Set("client_email", a.Email)
		quote.Set("title", p.Title)
		quote.Set("breakdown", b)
		quote.Set("proposal", p)
		quote.Set("final_total", b.FinalTotal)
		quote.Set("currency", b.Currency)
		quote.Set("status", "draft")
		quote.Set("valid_until", now.AddDate(0, 0, p.ValidDays))
		quote.Set("ai_summary", polished)

		err = app.Save(quote)
		if err == nil {
			return quote, nil
		}
		if attempt == quoteNumberAttempts || !quoteNumberTaken(app, number) {
			return nil, err
		}
		log.Printf("assessment: quote number %s was taken, allocating another", number)
	}
}

func quoteNumberTaken(app core.App, number string) bool {
	_, err := app.FindFirstRecordByData("quotes", "quote_number", number)
	return err == nil
}

// HandlePricingEstimate prices an assessment without storing anything.
func HandlePricingEstimate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var a services.ProjectAssessment
		if err := e.BindBody(&a); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid request body")
		}
		a.Normalize()
		if err := a.Validate(); err != nil {
			return validationFailed(e, err)
		}

		b := services.CalculatePricing(a)
		return e.JSON(http.StatusOK, map[string]any{
			"success": true,
			"pricing": b,
			"display": map[string]string{
				"total": services.FormatUSDWhole(b.FinalTotal),
				"min":   services.FormatUSDWhole(b.EstimatedRange.Min),
				"max":   services.FormatUSDWhole(b.EstimatedRange.Max),
			},
		})
	}
}

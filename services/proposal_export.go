package services

import (
	"fmt"
	"strings"
)

// ExportMeta carries the record-level details printed alongside a proposal.
type ExportMeta struct {
	StudioName  string
	QuoteNumber string
	IssuedDate  string
	ValidUntil  string
}

// Export formats supported by the quote export endpoint.
const (
	ExportFormatText = "text"
	ExportFormatHTML = "html"
	ExportFormatDOCX = "docx"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
)

// ExportFormats lists the accepted ?format= values.
var ExportFormats = []string{ExportFormatText, ExportFormatHTML, ExportFormatDOCX, ExportFormatPDF, ExportFormatXLSX}

// RenderProposalText renders the proposal as plain text. The DOCX export
// reuses this body.
func RenderProposalText(p Proposal, meta ExportMeta) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 64)
	thin := strings.Repeat("-", 64)

	sb.WriteString(rule + "\n")
	sb.WriteString(strings.ToUpper(p.Title) + "\n")
	sb.WriteString(rule + "\n")
	if meta.StudioName != "" {
		fmt.Fprintf(&sb, "Prepared by: %s\n", meta.StudioName)
	}
	fmt.Fprintf(&sb, "Prepared for: %s\n", clientLine(p))
	if meta.QuoteNumber != "" {
		fmt.Fprintf(&sb, "Quote: %s\n", meta.QuoteNumber)
	}
	if meta.IssuedDate != "" {
		fmt.Fprintf(&sb, "Issued: %s\n", meta.IssuedDate)
	}
	if meta.ValidUntil != "" {
		fmt.Fprintf(&sb, "Valid until: %s\n", meta.ValidUntil)
	} else {
		fmt.Fprintf(&sb, "Valid for: %d days\n", p.ValidDays)
	}

	section(&sb, "PROJECT OVERVIEW", thin)
	sb.WriteString(p.Overview.Summary + "\n\n")
	sb.WriteString("Goals:\n")
	bullets(&sb, p.Overview.Goals)

	section(&sb, "SCOPE OF WORK", thin)
	fmt.Fprintf(&sb, "Platforms: %s\n", strings.Join(p.Scope.Platforms, ", "))
	fmt.Fprintf(&sb, "Design: %s\n", p.Scope.DesignLevel)
	if len(p.Scope.Integrations) > 0 {
		fmt.Fprintf(&sb, "Integrations: %s\n", strings.Join(p.Scope.Integrations, ", "))
	}
	if len(p.Scope.Included) > 0 {
		sb.WriteString("\nIncluded features:\n")
		for _, item := range p.Scope.Included {
			fmt.Fprintf(&sb, "  - %s (%s)\n", item.Name, item.Category)
		}
	}
	if len(p.Scope.Optional) > 0 {
		sb.WriteString("\nOptional features:\n")
		for _, item := range p.Scope.Optional {
			fmt.Fprintf(&sb, "  - %s (%s)\n", item.Name, item.Category)
		}
	}

	section(&sb, "TIMELINE", thin)
	fmt.Fprintf(&sb, "%s, estimated %d weeks\n\n", p.Timeline.Preference, p.Timeline.TotalWeeks)
	for i, ph := range p.Timeline.Phases {
		fmt.Fprintf(&sb, "Phase %d: %s (%s)\n", i+1, ph.Name, pluralWeeks(ph.Weeks))
		for _, d := range ph.Deliverables {
			fmt.Fprintf(&sb, "    * %s\n", d)
		}
	}

	section(&sb, "DELIVERABLES", thin)
	bullets(&sb, p.Deliverables)

	section(&sb, "INVESTMENT", thin)
	for _, li := range p.Investment.LineItems {
		fmt.Fprintf(&sb, "  %-44s %17s\n", li.Label, FormatUSD(li.Amount))
	}
	sb.WriteString("  " + strings.Repeat("-", 62) + "\n")
	fmt.Fprintf(&sb, "  %-44s %17s\n", "Total Investment", FormatUSD(p.Investment.Total))
	fmt.Fprintf(&sb, "  Estimated range: %s - %s\n",
		FormatUSD(p.Investment.Range.Min), FormatUSD(p.Investment.Range.Max))

	section(&sb, "PAYMENT SCHEDULE", thin)
	for _, m := range p.PaymentSchedule {
		fmt.Fprintf(&sb, "  %-20s %5s %17s   %s\n", m.Label, FormatPercent(m.Percent/100), FormatUSD(m.Amount), m.Due)
	}

	section(&sb, "EXPECTATIONS", thin)
	sb.WriteString("From you:\n")
	bullets(&sb, p.Expectations.Client)
	sb.WriteString("\nFrom us:\n")
	bullets(&sb, p.Expectations.Studio)
	if len(p.Expectations.Notes) > 0 {
		sb.WriteString("\nNotes:\n")
		bullets(&sb, p.Expectations.Notes)
	}

	sb.WriteString("\n" + rule + "\n")
	return sb.String()
}

// ProposalFilename builds the download name for an export.
func ProposalFilename(p Proposal, meta ExportMeta, ext string) string {
	base := meta.QuoteNumber
	if base == "" {
		base = "proposal"
	}
	client := SanitizeFilename(p.Company)
	if client == "" {
		client = SanitizeFilename(p.ClientName)
	}
	if client != "" {
		base += "_" + client
	}
	return base + "." + ext
}

// SanitizeFilename removes characters that are unsafe for filenames.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

func clientLine(p Proposal) string {
	if p.Company != "" && p.Company != p.ClientName {
		return fmt.Sprintf("%s, %s", p.ClientName, p.Company)
	}
	return p.ClientName
}

func section(sb *strings.Builder, title, rule string) {
	sb.WriteString("\n" + title + "\n" + rule + "\n")
}

func bullets(sb *strings.Builder, items []string) {
	for _, it := range items {
		sb.WriteString("  - " + it + "\n")
	}
}

func pluralWeeks(n int) string {
	if n == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", n)
}

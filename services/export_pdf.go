package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfMuted   = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfHeading = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfShade   = &props.Color{Red: 242, Green: 242, Blue: 242}
)

// GenerateProposalPDF renders a proposal as an A4 portrait PDF using maroto/v2.
func GenerateProposalPDF(p Proposal, meta ExportMeta) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, p, meta)

	addHeading(m, "Project Overview")
	addParagraph(m, p.Overview.Summary)
	addBullets(m, p.Overview.Goals)

	addHeading(m, "Scope of Work")
	addKeyValue(m, "Platforms", strings.Join(p.Scope.Platforms, ", "))
	addKeyValue(m, "Design", p.Scope.DesignLevel)
	if len(p.Scope.Integrations) > 0 {
		addKeyValue(m, "Integrations", strings.Join(p.Scope.Integrations, ", "))
	}
	for _, item := range p.Scope.Included {
		addBullets(m, []string{fmt.Sprintf("%s (%s)", item.Name, item.Category)})
	}
	for _, item := range p.Scope.Optional {
		addBullets(m, []string{fmt.Sprintf("%s (%s, optional)", item.Name, item.Category)})
	}

	addHeading(m, fmt.Sprintf("Timeline (%d weeks)", p.Timeline.TotalWeeks))
	for i, ph := range p.Timeline.Phases {
		addKeyValue(m, fmt.Sprintf("Phase %d: %s", i+1, ph.Name), pluralWeeks(ph.Weeks))
	}

	addHeading(m, "Deliverables")
	addBullets(m, p.Deliverables)

	addInvestmentTable(m, p)
	addPaymentSchedule(m, p)

	addHeading(m, "Expectations")
	addBullets(m, p.Expectations.Client)
	addBullets(m, p.Expectations.Studio)
	addBullets(m, p.Expectations.Notes)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addProposalHeader adds the title and quote details.
func addProposalHeader(m core.Maroto, p Proposal, meta ExportMeta) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(p.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: pdfHeading,
				}),
			),
		),
	)

	left := "Prepared for: " + clientLine(p)
	right := meta.QuoteNumber
	if meta.IssuedDate != "" {
		right = strings.TrimSpace(right + "  " + meta.IssuedDate)
	}
	m.AddRows(
		row.New(7).Add(
			col.New(7).Add(text.New(left, props.Text{Size: 9, Align: align.Left, Color: pdfMuted})),
			col.New(5).Add(text.New(right, props.Text{Size: 9, Align: align.Right, Color: pdfMuted})),
		),
	)
	if meta.StudioName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New("Prepared by: "+meta.StudioName, props.Text{Size: 9, Color: pdfMuted})),
			),
		)
	}
	m.AddRows(row.New(4))
}

func addHeading(m core.Maroto, title string) {
	m.AddRows(row.New(3))
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(
				text.New(title, props.Text{Size: 12, Style: fontstyle.Bold, Color: pdfHeading}),
			),
		),
	)
}

func addParagraph(m core.Maroto, body string) {
	if body == "" {
		return
	}
	m.AddAutoRow(
		col.New(12).Add(text.New(body, props.Text{Size: 9, Align: align.Left})),
	)
	m.AddRows(row.New(2))
}

func addBullets(m core.Maroto, items []string) {
	for _, it := range items {
		m.AddAutoRow(
			col.New(12).Add(text.New("-  "+it, props.Text{Size: 9, Left: 3})),
		)
	}
}

func addKeyValue(m core.Maroto, key, value string) {
	m.AddRows(
		row.New(6).Add(
			col.New(4).Add(text.New(key, props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(8).Add(text.New(value, props.Text{Size: 9})),
		),
	)
}

// addInvestmentTable adds the priced line items and the total.
func addInvestmentTable(m core.Maroto, p Proposal) {
	addHeading(m, "Investment")

	headerCell := &props.Cell{BackgroundColor: pdfHeading}
	headerText := props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headerRight := headerText
	headerRight.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New("Item", headerText)).WithStyle(headerCell),
			col.New(4).Add(text.New("Amount", headerRight)).WithStyle(headerCell),
		),
	)
	for _, li := range p.Investment.LineItems {
		m.AddRows(
			row.New(6).Add(
				col.New(8).Add(text.New(li.Label, props.Text{Size: 9})),
				col.New(4).Add(text.New(FormatUSD(li.Amount), props.Text{Size: 9, Align: align.Right})),
			),
		)
	}

	totalCell := &props.Cell{BackgroundColor: pdfShade}
	bold := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Total Investment", bold)).WithStyle(totalCell),
			col.New(4).Add(text.New(FormatUSD(p.Investment.Total), bold)).WithStyle(totalCell),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(
				fmt.Sprintf("Estimated range: %s - %s", FormatUSD(p.Investment.Range.Min), FormatUSD(p.Investment.Range.Max)),
				props.Text{Size: 8, Align: align.Right, Color: pdfMuted},
			)),
		),
	)
}

func addPaymentSchedule(m core.Maroto, p Proposal) {
	addHeading(m, "Payment Schedule")
	for _, ms := range p.PaymentSchedule {
		m.AddRows(
			row.New(6).Add(
				col.New(4).Add(text.New(ms.Label, props.Text{Size: 9, Style: fontstyle.Bold})),
				col.New(2).Add(text.New(FormatPercent(ms.Percent/100), props.Text{Size: 9, Align: align.Center})),
				col.New(3).Add(text.New(FormatUSD(ms.Amount), props.Text{Size: 9, Align: align.Right})),
				col.New(3).Add(text.New(ms.Due, props.Text{Size: 8, Align: align.Right, Color: pdfMuted})),
			),
		)
	}
}

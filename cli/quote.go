// Package cli holds the command line tools registered on the PocketBase root
// command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"devstudio/services"
)

// NewQuoteCommand returns `quote <assessment.json>`, which prices an
// assessment file offline and prints the breakdown. Use "-" to read stdin.
func NewQuoteCommand() *cobra.Command {
	var (
		asJSON       bool
		showProposal bool
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "quote <assessment.json>",
		Short: "Price a project assessment and print the breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			a, err := readAssessment(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			b := services.CalculatePricing(a)
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			printBreakdown(out, a, b)
			if showProposal {
				p := services.GenerateProposal(a, b)
				fmt.Fprintln(out)
				fmt.Fprint(out, services.RenderProposalText(p, services.ExportMeta{}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	cmd.Flags().BoolVar(&showProposal, "proposal", false, "also print the proposal text")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func readAssessment(stdin io.Reader, path string) (services.ProjectAssessment, error) {
	var a services.ProjectAssessment

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return a, fmt.Errorf("read assessment: %w", err)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("parse assessment: %w", err)
	}

	a.Normalize()
	if err := a.Validate(); err != nil {
		fields := services.FieldErrors(err)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg := "invalid assessment:"
		for _, k := range keys {
			msg += fmt.Sprintf("\n  %s: %s", k, fields[k])
		}
		return a, fmt.Errorf("%s", msg)
	}
	return a, nil
}

func printBreakdown(w io.Writer, a services.ProjectAssessment, b services.PricingBreakdown) {
	heading := color.New(color.Bold, color.FgCyan)
	label := color.New(color.FgHiBlack)
	total := color.New(color.Bold, color.FgGreen)

	heading.Fprintf(w, "%s - %s\n", a.ClientDisplayName(), services.OptionLabel(services.ProjectTypeOptions, a.ProjectType))

	line := func(name string, amount float64) {
		label.Fprintf(w, "  %-34s", name)
		fmt.Fprintf(w, " %14s\n", services.FormatUSD(amount))
	}
	line("Base build", b.BasePrice)
	for _, f := range b.Features {
		name := f.Name
		if f.Optional {
			name += " (optional)"
		}
		line(name, f.Price)
	}
	if b.PlatformCost > 0 {
		line("Additional platforms", b.PlatformCost)
	}
	if b.DesignCost > 0 {
		line("Design", b.DesignCost)
	}
	if b.IntegrationCost > 0 {
		line("Integrations", b.IntegrationCost)
	}
	line("Subtotal", b.Subtotal)

	fmt.Fprintf(w, "  Complexity x%.2f (%s), timeline x%.2f (%s)\n",
		b.Complexity.Factor, b.Complexity.Level, b.Timeline.Factor, b.Timeline.Label)
	total.Fprintf(w, "  %-34s %14s\n", "Total", services.FormatUSD(b.FinalTotal))
	fmt.Fprintf(w, "  Range %s - %s\n", services.FormatUSDWhole(b.EstimatedRange.Min), services.FormatUSDWhole(b.EstimatedRange.Max))

	fit := color.New(color.FgYellow)
	switch b.BudgetFit {
	case services.BudgetWithin:
		fit = color.New(color.FgGreen)
	case services.BudgetAbove:
		fit = color.New(color.FgRed)
	}
	fit.Fprintf(w, "  Budget fit: %s\n", b.BudgetFit)
}

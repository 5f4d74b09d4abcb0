package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"devstudio/services"
)

const assessmentJSON = `{
  "name": "Ada Lovelace",
  "email": "ada@example.com",
  "company": "Analytical Engines",
  "projectType": "landing_page",
  "description": "A single landing page for a product launch campaign.",
  "platforms": ["web"],
  "designStyle": "template",
  "dataStorage": "none",
  "authentication": "none",
  "timeline": "standard",
  "budgetRange": "under_5k"
}`

func runQuote(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewQuoteCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuoteCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assessment.json")
	if err := os.WriteFile(path, []byte(assessmentJSON), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := runQuote(t, "", path)
	if err != nil {
		t.Fatalf("quote failed: %v\n%s", err, out)
	}

	var a services.ProjectAssessment
	json.Unmarshal([]byte(assessmentJSON), &a)
	b := services.CalculatePricing(a)
	for _, want := range []string{"Analytical Engines", "Base build", "Total", services.FormatUSD(b.FinalTotal), "Budget fit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQuoteCommand_JSONFromStdin(t *testing.T) {
	out, err := runQuote(t, assessmentJSON, "-", "--json")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	var b services.PricingBreakdown
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("output is not a JSON breakdown: %v\n%s", err, out)
	}
	if b.FinalTotal <= 0 {
		t.Errorf("FinalTotal = %v", b.FinalTotal)
	}
}

func TestQuoteCommand_Proposal(t *testing.T) {
	out, err := runQuote(t, assessmentJSON, "-", "--proposal")
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !strings.Contains(out, "PAYMENT SCHEDULE") {
		t.Errorf("expected proposal text in output:\n%s", out)
	}
}

func TestQuoteCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"no args", "", nil, "accepts 1 arg"},
		{"missing file", "", []string{filepath.Join(t.TempDir(), "nope.json")}, "read assessment"},
		{"bad json", "{", []string{"-"}, "parse assessment"},
		{"invalid", `{"name":"A"}`, []string{"-"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runQuote(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// formatQuoteNumber constructs the quote number string from components.
func formatQuoteNumber(year, sequence int) string {
	return fmt.Sprintf("Q-%04d-%03d", year, sequence)
}

// GenerateQuoteNumber returns the next quote number for the calendar year of now.
// Format: Q-{year}-{sequence}, sequence zero-padded to 3 digits and restarting
// every January. The next number follows the highest one already issued, so
// deleting a quote never hands out a duplicate.
func GenerateQuoteNumber(app core.App, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("Q-%04d-", year)

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// No quotes collection or no records yet: start at 1
		existing = nil
	}

	highest := 0
	for _, r := range existing {
		if seq, ok := parseQuoteSequence(r.GetString("quote_number"), prefix); ok && seq > highest {
			highest = seq
		}
	}

	return formatQuoteNumber(year, highest+1), nil
}

func parseQuoteSequence(number, prefix string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil {
		return 0, false
	}
	return seq, true
}

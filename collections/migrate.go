package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// MigrateLeadStatus sets status "new" on contacts that were stored before
// the CRM pipeline existed. Safe to call on every startup -- returns early
// if nothing to migrate.
func MigrateLeadStatus(app core.App) error {
	contacts, err := app.FindRecordsByFilter("contacts", "status = ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query contacts without status: %w", err)
	}
	if len(contacts) == 0 {
		return nil
	}

	log.Printf("migrate: found %d contact(s) without a status -- marking as new...\n", len(contacts))
	for _, r := range contacts {
		r.Set("status", "new")
		if err := app.Save(r); err != nil {
			log.Printf("migrate: failed to update contact %s: %v\n", r.Id, err)
		}
	}
	return nil
}

// MigrateExpiredQuotes marks draft and sent quotes whose valid_until date has
// passed as expired.
func MigrateExpiredQuotes(app core.App, now time.Time) error {
	quotes, err := app.FindRecordsByFilter(
		"quotes",
		"(status = 'draft' || status = 'sent') && valid_until != '' && valid_until < {:now}",
		"",
		0,
		0,
		map[string]any{"now": now.UTC().Format("2006-01-02 15:04:05.000Z")},
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query stale quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil
	}

	for _, q := range quotes {
		q.Set("status", "expired")
		if err := app.Save(q); err != nil {
			log.Printf("migrate: failed to expire quote %s: %v\n", q.GetString("quote_number"), err)
			continue
		}
	}
	log.Printf("migrate: expired %d quote(s).\n", len(quotes))
	return nil
}

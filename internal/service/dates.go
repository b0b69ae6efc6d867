package service

import (
	"strings"
	"time"

	"github.com/frescosur/conversor/internal/engine"
	"github.com/frescosur/conversor/internal/layout"
	"github.com/frescosur/conversor/internal/store"
)

// dueAfterDelivery is how many days after the delivery date an order falls
// due when the source file carried an explicit delivery date.
const dueAfterDelivery = 5

const dateOut = "20060102"

var headDateLayouts = []string{
	"20060102",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
}

// headContext builds the value map for the head record of one order group:
// the client identity block plus the derived dates. Dates come from the
// first row that carries them, with today as the fallback.
func (s *Service) headContext(client *store.Client, group orderGroup) engine.RawRow {
	today := s.now()

	issue, issueFromFile := firstDate(group.rows, layout.ColOrderCreated)
	if !issueFromFile {
		issue = today.AddDate(0, 0, client.IssueOffsetDays)
	}
	delivery, deliveryFromFile := firstDate(group.rows, layout.ColOrderDue)
	if !deliveryFromFile {
		delivery = today.AddDate(0, 0, client.DeliveryOffsetDays)
	}

	var due time.Time
	if deliveryFromFile {
		due = delivery.AddDate(0, 0, dueAfterDelivery)
	} else {
		due = issue.AddDate(0, 0, client.DueOffsetDays)
	}

	order := group.order
	if order == noOrderGroup {
		order = ""
	}

	return engine.RawRow{
		layout.ColOrder:          order,
		layout.ColGLNClient:      client.GLNClient,
		layout.ColGLNDestination: client.GLNDestination,
		layout.ColGLNAlternate:   client.GLNAlternate,
		layout.ColClientName:     client.DisplayName,
		layout.ColAddress:        client.Address,
		layout.ColClientCode:     client.ClientCode,
		layout.ColExtraCode:      client.ExtraCode,
		layout.ColIssueDate:      issue.Format(dateOut),
		layout.ColDeliveryDate:   delivery.Format(dateOut),
		layout.ColDueDate:        due.Format(dateOut),
	}
}

// firstDate scans the group for the first parseable value in a column.
func firstDate(rows []engine.RawRow, column string) (time.Time, bool) {
	for _, row := range rows {
		raw := strings.TrimSpace(row[column])
		if raw == "" {
			continue
		}
		for _, l := range headDateLayouts {
			if t, err := time.Parse(l, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

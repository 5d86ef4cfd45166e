package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"
)

// Exports are pure read-only projections of the client list.

// ExportJSON writes the client tree as indented JSON.
func ExportJSON(clients []models.Client, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(clients)
}

var exportHeader = []string{
	"client_name", "business_reg_no", "requester_name", "requester_email",
	"quote_number", "project_number", "test_item", "quote_date",
	"quoted_amount", "contracted_amount", "current_stage", "status",
}

// ExportCSV writes one row per project with flattened client/requester and
// current-stage columns.
func ExportCSV(clients []models.Client, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, c := range clients {
		for _, r := range c.Requesters {
			for _, p := range r.Projects {
				record := []string{
					c.Name,
					c.BusinessRegistrationNo,
					r.Name,
					r.Email,
					p.ID,
					p.ProjectNumber,
					p.TestItem,
					p.QuoteDate,
					fmt.Sprintf("%.2f", p.QuotedAmount),
					fmt.Sprintf("%.2f", p.ContractedAmount),
					p.CurrentStageName(),
					p.StatusText,
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

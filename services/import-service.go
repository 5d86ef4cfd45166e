package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/google/uuid"
)

// ImportReport summarizes a bulk import: valid rows are applied even when
// others are malformed.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Expected column order. A header row with the first column named
// "client_name" is tolerated and skipped.
const (
	colClientName = iota
	colBusinessRegNo
	colRequesterName
	colRequesterEmail
	colRequesterPhone
	colQuoteNumber
	colTestItem
	colQuoteDate
	colQuotedAmount
	colContractedAmount
	colStatus
	importColumnCount
)

// ImportCSV merges CSV rows into the given client list. Clients and
// requesters are matched by name; projects get the standard stage template
// with statuses inferred from the free-text status column. The input list
// is not mutated.
func ImportCSV(clients []models.Client, r io.Reader) ([]models.Client, ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	out := make([]models.Client, len(clients))
	copy(out, clients)

	var report ImportReport
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(record[colClientName]), "client_name") {
				continue
			}
		}

		row, ok := parseImportRow(record)
		if !ok {
			report.Skipped++
			continue
		}
		if _, _, _, dup := FindProject(out, row.quoteNumber); dup {
			logging.Logger.Warnf("Event ID: IMPORT_DUPLICATE_QUOTE, Description: Skipped row with duplicate quote number %s", row.quoteNumber)
			report.Skipped++
			continue
		}

		out = applyImportRow(out, row)
		report.Imported++
	}

	return out, report, nil
}

type importRow struct {
	clientName       string
	businessRegNo    string
	requesterName    string
	requesterEmail   string
	requesterPhone   string
	quoteNumber      string
	testItem         string
	quoteDate        string
	quotedAmount     float64
	contractedAmount float64
	status           string
}

func parseImportRow(record []string) (importRow, bool) {
	if len(record) < importColumnCount {
		return importRow{}, false
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	row := importRow{
		clientName:     record[colClientName],
		businessRegNo:  record[colBusinessRegNo],
		requesterName:  record[colRequesterName],
		requesterEmail: record[colRequesterEmail],
		requesterPhone: record[colRequesterPhone],
		quoteNumber:    record[colQuoteNumber],
		testItem:       record[colTestItem],
		quoteDate:      record[colQuoteDate],
		status:         record[colStatus],
	}
	if row.clientName == "" || row.requesterName == "" || row.quoteNumber == "" {
		return importRow{}, false
	}

	var err error
	if record[colQuotedAmount] != "" {
		row.quotedAmount, err = strconv.ParseFloat(record[colQuotedAmount], 64)
		if err != nil {
			return importRow{}, false
		}
	}
	if record[colContractedAmount] != "" {
		row.contractedAmount, err = strconv.ParseFloat(record[colContractedAmount], 64)
		if err != nil {
			return importRow{}, false
		}
	}
	return row, true
}

func applyImportRow(clients []models.Client, row importRow) []models.Client {
	project := models.Project{
		ID:               row.quoteNumber,
		TestItem:         row.testItem,
		QuoteDate:        row.quoteDate,
		QuotedAmount:     row.quotedAmount,
		ContractedAmount: row.contractedAmount,
		StatusText:       row.status,
		Stages:           inferStages(row.status),
		Tests:            []models.Test{},
		FollowUps:        []models.FollowUpRecord{},
	}

	for i, c := range clients {
		if !strings.EqualFold(c.Name, row.clientName) {
			continue
		}
		for j, r := range c.Requesters {
			if strings.EqualFold(r.Name, row.requesterName) {
				out, _ := updateRequesterProjects(clients, i, j, project)
				return out
			}
		}
		// known client, new requester
		requester := models.Requester{
			ID:       uuid.NewString(),
			Name:     row.requesterName,
			Email:    row.requesterEmail,
			Phone:    row.requesterPhone,
			Projects: []models.Project{project},
		}
		out := make([]models.Client, len(clients))
		copy(out, clients)
		requesters := make([]models.Requester, len(c.Requesters), len(c.Requesters)+1)
		copy(requesters, c.Requesters)
		out[i].Requesters = append(requesters, requester)
		return out
	}

	// new client
	client := models.Client{
		ID:                     uuid.NewString(),
		Name:                   row.clientName,
		BusinessRegistrationNo: row.businessRegNo,
		Requesters: []models.Requester{{
			ID:       uuid.NewString(),
			Name:     row.requesterName,
			Email:    row.requesterEmail,
			Phone:    row.requesterPhone,
			Projects: []models.Project{project},
		}},
	}
	out := make([]models.Client, len(clients), len(clients)+1)
	copy(out, clients)
	return append(out, client)
}

func updateRequesterProjects(clients []models.Client, clientIdx, requesterIdx int, project models.Project) ([]models.Client, error) {
	out := make([]models.Client, len(clients))
	copy(out, clients)
	c := out[clientIdx]
	requesters := make([]models.Requester, len(c.Requesters))
	copy(requesters, c.Requesters)
	r := requesters[requesterIdx]
	projects := make([]models.Project, len(r.Projects), len(r.Projects)+1)
	copy(projects, r.Projects)
	requesters[requesterIdx].Projects = append(projects, project)
	out[clientIdx].Requesters = requesters
	return out, nil
}

// inferStages builds the template stages with progress guessed from the
// free-text status column: the stage whose name keyword appears becomes
// in-progress (or completed/on-hold when the text says so) and everything
// before it is completed.
func inferStages(status string) []models.ProjectStage {
	stages := newStagesFromTemplate()
	lower := strings.ToLower(status)
	if lower == "" {
		return stages
	}

	keywords := [][]string{
		{"inquiry", "new"},
		{"quote", "quotation"},
		{"contract", "signed"},
		{"sample"},
		{"testing", "in test", "test"},
		{"report"},
		{"payment", "paid", "invoice"},
	}

	matched := -1
	for i := len(keywords) - 1; i >= 0; i-- {
		for _, kw := range keywords[i] {
			if strings.Contains(lower, kw) {
				matched = i
				break
			}
		}
		if matched >= 0 {
			break
		}
	}
	if matched < 0 {
		return stages
	}

	for i := 0; i < matched; i++ {
		stages[i].Status = models.StageCompleted
	}
	switch {
	case strings.Contains(lower, "hold") || strings.Contains(lower, "pause"):
		stages[matched].Status = models.StageOnHold
	case strings.Contains(lower, "complete") || strings.Contains(lower, "done") || strings.Contains(lower, "finished"):
		stages[matched].Status = models.StageCompleted
	default:
		stages[matched].Status = models.StageInProgress
	}
	return stages
}

package services

import (
	"strings"
	"testing"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importHeader = "client_name,business_reg_no,requester_name,requester_email,requester_phone,quote_number,test_item,quote_date,quoted_amount,contracted_amount,status\n"

func TestImportCSVBuildsTree(t *testing.T) {
	csvData := importHeader +
		"Acme,123-45-67890,Jane,j@acme.com,010-1111,Q-1,Assay A,2024-01-01,1000,0,new\n" +
		"Acme,123-45-67890,Jane,j@acme.com,010-1111,Q-2,Assay B,2024-01-05,2000,1800,contract signed\n" +
		"Globex,,Hank,h@globex.com,,Q-3,Tox Panel,2024-02-01,5000,0,testing\n"

	clients, report, err := ImportCSV(nil, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 0, report.Skipped)

	require.Len(t, clients, 2)
	require.Len(t, clients[0].Requesters, 1, "rows for the same requester merge")
	assert.Len(t, clients[0].Requesters[0].Projects, 2)
	assert.Equal(t, "Acme", clients[0].Name)

	// every imported project carries the full stage template
	for _, c := range clients {
		for _, r := range c.Requesters {
			for _, p := range r.Projects {
				require.Len(t, p.Stages, len(models.StageTemplate))
				for i, s := range p.Stages {
					assert.Equal(t, models.StageTemplate[i], s.Name)
				}
			}
		}
	}
}

func TestImportCSVStatusHeuristics(t *testing.T) {
	csvData := importHeader +
		"Acme,,Jane,,,Q-1,Assay A,2024-01-01,1000,0,testing\n" +
		"Acme,,Jane,,,Q-2,Assay B,2024-01-01,1000,0,report done\n" +
		"Acme,,Jane,,,Q-3,Assay C,2024-01-01,1000,0,contract on hold\n" +
		"Acme,,Jane,,,Q-4,Assay D,2024-01-01,1000,0,\n"

	clients, report, err := ImportCSV(nil, strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 4, report.Imported)

	_, _, testing, ok := FindProject(clients, "Q-1")
	require.True(t, ok)
	assert.Equal(t, models.StageInProgress, testing.Stages[4].Status)
	for i := 0; i < 4; i++ {
		assert.Equal(t, models.StageCompleted, testing.Stages[i].Status)
	}

	_, _, reported, ok := FindProject(clients, "Q-2")
	require.True(t, ok)
	assert.Equal(t, models.StageCompleted, reported.Stages[5].Status)

	_, _, held, ok := FindProject(clients, "Q-3")
	require.True(t, ok)
	assert.Equal(t, models.StageOnHold, held.Stages[2].Status)

	_, _, fresh, ok := FindProject(clients, "Q-4")
	require.True(t, ok)
	for _, s := range fresh.Stages {
		assert.Equal(t, models.StagePending, s.Status)
	}
}

func TestImportCSVPartialSuccess(t *testing.T) {
	csvData := importHeader +
		"Acme,,Jane,,,Q-1,Assay A,2024-01-01,1000,0,new\n" +
		",,NoClient,,,Q-2,Assay B,2024-01-01,1000,0,new\n" + // missing client name
		"Acme,,Jane,,,Q-3,Assay C,2024-01-01,not-a-number,0,new\n" + // bad amount
		"Acme,,Jane,,,Q-1,Assay D,2024-01-01,1000,0,new\n" + // duplicate quote number
		"Acme,,Jane\n" // truncated row

	clients, report, err := ImportCSV(nil, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 4, report.Skipped)

	require.Len(t, clients, 1)
	require.Len(t, clients[0].Requesters, 1)
	assert.Len(t, clients[0].Requesters[0].Projects, 1)
}

func TestImportCSVMergesIntoExistingClients(t *testing.T) {
	existing, _, _, _ := buildWorkspace(t)

	csvData := "Acme,,Jane,,,Q-10,Assay Z,2024-05-01,3000,0,quote sent\n"
	clients, report, err := ImportCSV(existing, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	require.Len(t, clients, 1, "existing client is reused, matched by name")
	require.Len(t, clients[0].Requesters, 1)
	assert.Len(t, clients[0].Requesters[0].Projects, 2)

	// the input list stays untouched
	assert.Len(t, existing[0].Requesters[0].Projects, 1)
}

func TestImportCSVRejectsDuplicateAgainstExisting(t *testing.T) {
	existing, _, _, _ := buildWorkspace(t)

	csvData := "Globex,,Hank,,,Q-1,Assay X,2024-05-01,3000,0,new\n"
	clients, report, err := ImportCSV(existing, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, clients, 1)
}

package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJSONRoundTrips(t *testing.T) {
	clients, _, _, _ := buildWorkspace(t)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(clients, &buf))

	var decoded []models.Client
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, clients[0].ID, decoded[0].ID)
	assert.Len(t, decoded[0].Requesters[0].Projects[0].Stages, 7)
}

func TestExportCSVFlattensProjects(t *testing.T) {
	clients, acme, jane, _ := buildWorkspace(t)
	clients, _, err := AddProject(clients, acme.ID, jane.ID, models.Project{ID: "Q-2", TestItem: "Assay B", QuotedAmount: 250.5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(clients, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per project")
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, "Acme", records[1][0])
	assert.Equal(t, "Q-1", records[1][4])
	assert.Equal(t, "250.50", records[2][8])
	assert.Equal(t, "Inquiry", records[1][10])
}

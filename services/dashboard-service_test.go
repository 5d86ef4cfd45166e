package services

import (
	"testing"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	clients, acme, _, project := buildWorkspace(t)

	now, err := time.Parse("2006-01-02", "2024-03-10")
	require.NoError(t, err)

	clients, err = AddFollowUp(clients, project.ID, models.FollowUpRecord{
		Date: "2024-03-01", Method: models.ContactEmail, Content: "recent", Result: models.ResultPositive,
	})
	require.NoError(t, err)
	clients, err = AddFollowUp(clients, project.ID, models.FollowUpRecord{
		Date: "2023-01-01", Method: models.ContactPhone, Content: "old", Result: models.ResultNeutral,
	})
	require.NoError(t, err)

	clients, bob, err := AddRequester(clients, acme.ID, models.Requester{Name: "Bob"})
	require.NoError(t, err)
	clients, _, err = AddProject(clients, acme.ID, bob.ID, models.Project{
		ID: "Q-2", QuotedAmount: 500, ContractedAmount: 400,
	})
	require.NoError(t, err)
	clients, err = AdvanceStage(clients, project.ID, project.Stages[0].ID)
	require.NoError(t, err)

	summary := BuildDashboard(clients, now)

	assert.Equal(t, 1, summary.TotalClients)
	assert.Equal(t, 2, summary.TotalRequesters)
	assert.Equal(t, 2, summary.TotalProjects)
	assert.Equal(t, 1500.0, summary.TotalQuotedAmount)
	assert.Equal(t, 400.0, summary.TotalContractedAmt)
	assert.Equal(t, 1, summary.RecentFollowUps, "only follow-ups within 30 days count")

	// Q-1 has its first stage in progress, Q-2 is untouched: both sit at Inquiry
	assert.Equal(t, 2, summary.ProjectsByStage["Inquiry"])
	assert.Equal(t, 1, summary.StageStatusCounts[models.StageInProgress])
	assert.Equal(t, 13, summary.StageStatusCounts[models.StagePending])

	require.Len(t, summary.ClientSummaries, 1)
	assert.Equal(t, 2, summary.ClientSummaries[0].ProjectCount)
	assert.Equal(t, 1500.0, summary.ClientSummaries[0].QuotedAmount)
}

func TestBuildDashboardEmpty(t *testing.T) {
	summary := BuildDashboard(nil, time.Now())
	assert.Equal(t, 0, summary.TotalClients)
	assert.Equal(t, 0, summary.TotalProjects)
	assert.Empty(t, summary.ClientSummaries)
}

package services

import (
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"
)

// DashboardSummary is the sales-pipeline overview computed from the
// in-memory tree.
type DashboardSummary struct {
	TotalClients       int                        `json:"totalClients"`
	TotalRequesters    int                        `json:"totalRequesters"`
	TotalProjects      int                        `json:"totalProjects"`
	TotalQuotedAmount  float64                    `json:"totalQuotedAmount"`
	TotalContractedAmt float64                    `json:"totalContractedAmount"`
	ProjectsByStage    map[string]int             `json:"projectsByStage"`
	StageStatusCounts  map[models.StageStatus]int `json:"stageStatusCounts"`
	RecentFollowUps    int                        `json:"recentFollowUps"`
	ClientSummaries    []ClientSummary            `json:"clientSummaries"`
}

// ClientSummary is one dashboard row per client.
type ClientSummary struct {
	ClientID         string  `json:"clientId"`
	ClientName       string  `json:"clientName"`
	ProjectCount     int     `json:"projectCount"`
	QuotedAmount     float64 `json:"quotedAmount"`
	ContractedAmount float64 `json:"contractedAmount"`
}

// BuildDashboard aggregates the pipeline state. Follow-ups count as recent
// when dated within the last 30 days of now.
func BuildDashboard(clients []models.Client, now time.Time) DashboardSummary {
	summary := DashboardSummary{
		TotalClients:      len(clients),
		ProjectsByStage:   make(map[string]int),
		StageStatusCounts: make(map[models.StageStatus]int),
	}
	cutoff := now.AddDate(0, 0, -30)

	for _, c := range clients {
		clientSummary := ClientSummary{ClientID: c.ID, ClientName: c.Name}
		summary.TotalRequesters += len(c.Requesters)

		for _, r := range c.Requesters {
			for _, p := range r.Projects {
				summary.TotalProjects++
				summary.TotalQuotedAmount += p.QuotedAmount
				summary.TotalContractedAmt += p.ContractedAmount
				summary.ProjectsByStage[p.CurrentStageName()]++

				clientSummary.ProjectCount++
				clientSummary.QuotedAmount += p.QuotedAmount
				clientSummary.ContractedAmount += p.ContractedAmount

				for _, s := range p.Stages {
					summary.StageStatusCounts[s.Status]++
				}
				for _, f := range p.FollowUps {
					if d, err := time.Parse("2006-01-02", f.Date); err == nil && !d.Before(cutoff) {
						summary.RecentFollowUps++
					}
				}
			}
		}

		summary.ClientSummaries = append(summary.ClientSummaries, clientSummary)
	}

	return summary
}

package models

import "time"

type ActivityType string

const (
	ActivityAddClient       ActivityType = "AddClient"
	ActivityDeleteClient    ActivityType = "DeleteClient"
	ActivityAddRequester    ActivityType = "AddRequester"
	ActivityDeleteRequester ActivityType = "DeleteRequester"
	ActivityAddProject      ActivityType = "AddProject"
	ActivityEditProject     ActivityType = "EditProject"
	ActivityDeleteProject   ActivityType = "DeleteProject"
	ActivityAdvanceStage    ActivityType = "AdvanceStage"
	ActivityEditStage       ActivityType = "EditStage"
	ActivityAddTest         ActivityType = "AddTest"
	ActivityEditTest        ActivityType = "EditTest"
	ActivityDeleteTest      ActivityType = "DeleteTest"
	ActivityAddFollowUp     ActivityType = "AddFollowUp"
	ActivityEditFollowUp    ActivityType = "EditFollowUp"
	ActivityDeleteFollowUp  ActivityType = "DeleteFollowUp"
	ActivityImportClients   ActivityType = "ImportClients"
)

// Activity is one entry of the external activity log.
type Activity struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	ActorEmail string       `json:"actorEmail"`
	ClientID   string       `json:"clientId,omitempty"`
	ProjectID  string       `json:"projectId,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
	Details    string       `json:"details"`
}

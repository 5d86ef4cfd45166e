package models

// StageStatus is the workflow state of a single project stage.
type StageStatus string

const (
	StagePending    StageStatus = "Pending"
	StageInProgress StageStatus = "InProgress"
	StageCompleted  StageStatus = "Completed"
	StageOnHold     StageStatus = "OnHold"
)

// NextStatus returns the successor in the click-to-advance cycle
// Pending -> InProgress -> Completed -> Pending. OnHold is only reachable
// through the stage edit form and advances back to Pending.
func (s StageStatus) NextStatus() StageStatus {
	switch s {
	case StagePending:
		return StageInProgress
	case StageInProgress:
		return StageCompleted
	default:
		return StagePending
	}
}

// ContactMethod describes how a follow-up contact was made.
type ContactMethod string

const (
	ContactPhone   ContactMethod = "phone"
	ContactEmail   ContactMethod = "email"
	ContactVisit   ContactMethod = "visit"
	ContactMeeting ContactMethod = "meeting"
	ContactOther   ContactMethod = "other"
)

// FollowUpResult is the recorded outcome of a follow-up contact.
type FollowUpResult string

const (
	ResultPositive FollowUpResult = "positive"
	ResultNeutral  FollowUpResult = "neutral"
	ResultNegative FollowUpResult = "negative"
	ResultPending  FollowUpResult = "pending"
)

// Project is a unit of quoted/contracted work. The ID is the user-supplied
// quote number and is unique across the whole workspace.
type Project struct {
	ID               string           `bson:"id" json:"id"`
	ProjectNumber    string           `bson:"projectNumber,omitempty" json:"projectNumber,omitempty"`
	TestItem         string           `bson:"testItem" json:"testItem"`
	QuoteDate        string           `bson:"quoteDate,omitempty" json:"quoteDate,omitempty"`
	QuotedAmount     float64          `bson:"quotedAmount" json:"quotedAmount"`
	ContractedAmount float64          `bson:"contractedAmount" json:"contractedAmount"`
	StatusText       string           `bson:"statusText,omitempty" json:"statusText,omitempty"`
	Stages           []ProjectStage   `bson:"stages" json:"stages"`
	Tests            []Test           `bson:"tests" json:"tests"`
	FollowUps        []FollowUpRecord `bson:"followUps" json:"followUps"`
}

// ProjectStage is one step of the fixed workflow template. Stages are
// created once, at project creation, and are never added or removed
// afterwards; only status, date and notes change.
type ProjectStage struct {
	ID     string      `bson:"id" json:"id"`
	Name   string      `bson:"name" json:"name"`
	Status StageStatus `bson:"status" json:"status"`
	Date   string      `bson:"date,omitempty" json:"date,omitempty"`
	Notes  string      `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Test is a scheduled laboratory test belonging to a project. ProjectNumber
// is a denormalized copy of the owning project's quote number, not a
// foreign key.
type Test struct {
	ID            string `bson:"id" json:"id"`
	ProjectNumber string `bson:"projectNumber" json:"projectNumber"`
	TestNumber    string `bson:"testNumber" json:"testNumber"`
	Name          string `bson:"name" json:"name"`
	Manager       string `bson:"manager,omitempty" json:"manager,omitempty"`
	StartDate     string `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate       string `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

// FollowUpRecord is a logged contact-history entry for sales tracking.
type FollowUpRecord struct {
	ID             string         `bson:"id" json:"id"`
	Date           string         `bson:"date" json:"date"`
	Method         ContactMethod  `bson:"method" json:"method"`
	ContactPerson  string         `bson:"contactPerson,omitempty" json:"contactPerson,omitempty"`
	Content        string         `bson:"content" json:"content"`
	Result         FollowUpResult `bson:"result" json:"result"`
	NextAction     string         `bson:"nextAction,omitempty" json:"nextAction,omitempty"`
	NextActionDate string         `bson:"nextActionDate,omitempty" json:"nextActionDate,omitempty"`
}

// StageTemplate is the fixed workflow every project is created with. The
// order matters: stage i of any project always carries the name at index i.
var StageTemplate = []string{
	"Inquiry",
	"Quote Sent",
	"Contract",
	"Sample Received",
	"Testing",
	"Report Issued",
	"Payment",
}

// CurrentStageName returns the name of the first stage that is not yet
// completed, or the last stage name when everything is done.
func (p Project) CurrentStageName() string {
	for _, s := range p.Stages {
		if s.Status != StageCompleted {
			return s.Name
		}
	}
	if len(p.Stages) == 0 {
		return ""
	}
	return p.Stages[len(p.Stages)-1].Name
}

package services

import (
	"errors"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/google/uuid"
)

// Sentinel errors returned by the mutation functions. A lookup miss is an
// explicit error here; callers decide whether to surface it or treat it as
// a no-op.
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrRequesterNotFound  = errors.New("requester not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrStageNotFound      = errors.New("stage not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrFollowUpNotFound   = errors.New("follow-up record not found")
	ErrNoRequesters       = errors.New("client has no requesters, add a requester first")
	ErrDuplicateProjectID = errors.New("a project with this quote number already exists")
	ErrNameRequired       = errors.New("name is required")
	ErrProjectIDRequired  = errors.New("quote number is required")
)

// The functions in this file are pure: they take the full client list and a
// targeted change and return a new list with exactly that change applied.
// Untouched entities are shared between input and output; nothing reachable
// from the input is ever mutated in place.

func newStagesFromTemplate() []models.ProjectStage {
	stages := make([]models.ProjectStage, len(models.StageTemplate))
	for i, name := range models.StageTemplate {
		stages[i] = models.ProjectStage{
			ID:     uuid.NewString(),
			Name:   name,
			Status: models.StagePending,
		}
	}
	return stages
}

// mapClient rebuilds the list with fn applied to the client matching
// clientID. The copy happens only along the mutated path.
func mapClient(clients []models.Client, clientID string, fn func(models.Client) (models.Client, error)) ([]models.Client, error) {
	for i, c := range clients {
		if c.ID != clientID {
			continue
		}
		updated, err := fn(c)
		if err != nil {
			return clients, err
		}
		out := make([]models.Client, len(clients))
		copy(out, clients)
		out[i] = updated
		return out, nil
	}
	return clients, ErrClientNotFound
}

// AddClient appends a new client with a generated id and an empty requester
// list. Returns the new list and the created client.
func AddClient(clients []models.Client, data models.Client) ([]models.Client, models.Client, error) {
	if data.Name == "" {
		return clients, models.Client{}, ErrNameRequired
	}
	created := models.Client{
		ID:                     uuid.NewString(),
		Name:                   data.Name,
		BusinessRegistrationNo: data.BusinessRegistrationNo,
		Address:                data.Address,
		Requesters:             []models.Requester{},
	}
	out := make([]models.Client, len(clients), len(clients)+1)
	copy(out, clients)
	return append(out, created), created, nil
}

// AddRequester appends a requester with a generated id and an empty project
// list under the matching client.
func AddRequester(clients []models.Client, clientID string, data models.Requester) ([]models.Client, models.Requester, error) {
	if data.Name == "" {
		return clients, models.Requester{}, ErrNameRequired
	}
	created := models.Requester{
		ID:         uuid.NewString(),
		Name:       data.Name,
		Email:      data.Email,
		Phone:      data.Phone,
		Department: data.Department,
		Projects:   []models.Project{},
	}
	out, err := mapClient(clients, clientID, func(c models.Client) (models.Client, error) {
		requesters := make([]models.Requester, len(c.Requesters), len(c.Requesters)+1)
		copy(requesters, c.Requesters)
		c.Requesters = append(requesters, created)
		return c, nil
	})
	if err != nil {
		return clients, models.Requester{}, err
	}
	return out, created, nil
}

// AddProject inserts a project under the given requester. Stages are
// instantiated from the fixed template with fresh ids; tests and follow-ups
// start empty. The quote number must be unique across the whole workspace.
func AddProject(clients []models.Client, clientID, requesterID string, data models.Project) ([]models.Client, models.Project, error) {
	if data.ID == "" {
		return clients, models.Project{}, ErrProjectIDRequired
	}
	if _, _, _, ok := FindProject(clients, data.ID); ok {
		return clients, models.Project{}, ErrDuplicateProjectID
	}
	created := models.Project{
		ID:               data.ID,
		ProjectNumber:    data.ProjectNumber,
		TestItem:         data.TestItem,
		QuoteDate:        data.QuoteDate,
		QuotedAmount:     data.QuotedAmount,
		ContractedAmount: data.ContractedAmount,
		StatusText:       data.StatusText,
		Stages:           newStagesFromTemplate(),
		Tests:            []models.Test{},
		FollowUps:        []models.FollowUpRecord{},
	}
	out, err := mapClient(clients, clientID, func(c models.Client) (models.Client, error) {
		if len(c.Requesters) == 0 {
			return c, ErrNoRequesters
		}
		for i, r := range c.Requesters {
			if r.ID != requesterID {
				continue
			}
			requesters := make([]models.Requester, len(c.Requesters))
			copy(requesters, c.Requesters)
			projects := make([]models.Project, len(r.Projects), len(r.Projects)+1)
			copy(projects, r.Projects)
			requesters[i].Projects = append(projects, created)
			c.Requesters = requesters
			return c, nil
		}
		return c, ErrRequesterNotFound
	})
	if err != nil {
		return clients, models.Project{}, err
	}
	return out, created, nil
}

// EditProject replaces only the editable header fields of the matching
// project, wherever it lives. Stages, tests and follow-ups are preserved
// unchanged. Changing the quote number re-checks global uniqueness.
func EditProject(clients []models.Client, projectID string, data models.Project) ([]models.Client, error) {
	clientID, requesterID, existing, ok := FindProject(clients, projectID)
	if !ok {
		return clients, ErrProjectNotFound
	}
	newID := data.ID
	if newID == "" {
		newID = existing.ID
	}
	if newID != existing.ID {
		if _, _, _, dup := FindProject(clients, newID); dup {
			return clients, ErrDuplicateProjectID
		}
	}
	updated := existing
	updated.ID = newID
	updated.ProjectNumber = data.ProjectNumber
	updated.TestItem = data.TestItem
	updated.QuoteDate = data.QuoteDate
	updated.QuotedAmount = data.QuotedAmount
	updated.ContractedAmount = data.ContractedAmount
	updated.StatusText = data.StatusText
	return updateProjectUnder(clients, clientID, requesterID, existing.ID, updated)
}

// UpdateProject wholesale-replaces the project matching updated.ID under the
// given requester. Used after any stage/test/follow-up sub-mutation.
func UpdateProject(clients []models.Client, requesterID string, updated models.Project) ([]models.Client, error) {
	for _, c := range clients {
		for _, r := range c.Requesters {
			if r.ID == requesterID {
				return updateProjectUnder(clients, c.ID, requesterID, updated.ID, updated)
			}
		}
	}
	return clients, ErrRequesterNotFound
}

func updateProjectUnder(clients []models.Client, clientID, requesterID, projectID string, updated models.Project) ([]models.Client, error) {
	return mapClient(clients, clientID, func(c models.Client) (models.Client, error) {
		for i, r := range c.Requesters {
			if r.ID != requesterID {
				continue
			}
			for j, p := range r.Projects {
				if p.ID != projectID {
					continue
				}
				requesters := make([]models.Requester, len(c.Requesters))
				copy(requesters, c.Requesters)
				projects := make([]models.Project, len(r.Projects))
				copy(projects, r.Projects)
				projects[j] = updated
				requesters[i].Projects = projects
				c.Requesters = requesters
				return c, nil
			}
			return c, ErrProjectNotFound
		}
		return c, ErrRequesterNotFound
	})
}

// DeleteProject removes the project from every requester under the client.
// It filters rather than finds, so a project sitting under an unexpected
// requester is still removed.
func DeleteProject(clients []models.Client, clientID, projectID string) ([]models.Client, error) {
	removed := false
	out, err := mapClient(clients, clientID, func(c models.Client) (models.Client, error) {
		requesters := make([]models.Requester, len(c.Requesters))
		copy(requesters, c.Requesters)
		for i, r := range requesters {
			kept := make([]models.Project, 0, len(r.Projects))
			for _, p := range r.Projects {
				if p.ID == projectID {
					removed = true
					continue
				}
				kept = append(kept, p)
			}
			requesters[i].Projects = kept
		}
		c.Requesters = requesters
		return c, nil
	})
	if err != nil {
		return clients, err
	}
	if !removed {
		return clients, ErrProjectNotFound
	}
	return out, nil
}

// DeleteRequester removes the requester and all its projects.
func DeleteRequester(clients []models.Client, clientID, requesterID string) ([]models.Client, error) {
	found := false
	out, err := mapClient(clients, clientID, func(c models.Client) (models.Client, error) {
		kept := make([]models.Requester, 0, len(c.Requesters))
		for _, r := range c.Requesters {
			if r.ID == requesterID {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		c.Requesters = kept
		return c, nil
	})
	if err != nil {
		return clients, err
	}
	if !found {
		return clients, ErrRequesterNotFound
	}
	return out, nil
}

// DeleteClient removes the client and, with it, every requester and project
// underneath.
func DeleteClient(clients []models.Client, clientID string) ([]models.Client, error) {
	kept := make([]models.Client, 0, len(clients))
	found := false
	for _, c := range clients {
		if c.ID == clientID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return clients, ErrClientNotFound
	}
	return kept, nil
}

// mapProject derives the owning requester of the project, applies fn to a
// copy of the project and replaces it via updateProjectUnder.
func mapProject(clients []models.Client, projectID string, fn func(models.Project) (models.Project, error)) ([]models.Client, error) {
	clientID, requesterID, project, ok := FindProject(clients, projectID)
	if !ok {
		return clients, ErrProjectNotFound
	}
	updated, err := fn(project)
	if err != nil {
		return clients, err
	}
	return updateProjectUnder(clients, clientID, requesterID, projectID, updated)
}

// AdvanceStage moves the stage to the next status in the cyclic
// Pending -> InProgress -> Completed -> Pending order.
func AdvanceStage(clients []models.Client, projectID, stageID string) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		for i, s := range p.Stages {
			if s.ID != stageID {
				continue
			}
			stages := make([]models.ProjectStage, len(p.Stages))
			copy(stages, p.Stages)
			stages[i].Status = s.Status.NextStatus()
			p.Stages = stages
			return p, nil
		}
		return p, ErrStageNotFound
	})
}

// EditStage sets status, date and notes of a stage. This is the only path
// that can put a stage on hold. Name and position never change.
func EditStage(clients []models.Client, projectID, stageID string, status models.StageStatus, date, notes string) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		for i, s := range p.Stages {
			if s.ID != stageID {
				continue
			}
			stages := make([]models.ProjectStage, len(p.Stages))
			copy(stages, p.Stages)
			stages[i].Status = status
			stages[i].Date = date
			stages[i].Notes = notes
			p.Stages = stages
			return p, nil
		}
		return p, ErrStageNotFound
	})
}

// AddTest appends a test with a generated id. The project number on the
// test is always the owning project's quote number, regardless of input.
func AddTest(clients []models.Client, projectID string, data models.Test) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		data.ID = uuid.NewString()
		data.ProjectNumber = p.ID
		tests := make([]models.Test, len(p.Tests), len(p.Tests)+1)
		copy(tests, p.Tests)
		p.Tests = append(tests, data)
		return p, nil
	})
}

// EditTest replaces the fields of the matching test, keeping its id and
// denormalized project number.
func EditTest(clients []models.Client, projectID, testID string, data models.Test) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		for i, t := range p.Tests {
			if t.ID != testID {
				continue
			}
			tests := make([]models.Test, len(p.Tests))
			copy(tests, p.Tests)
			data.ID = t.ID
			data.ProjectNumber = t.ProjectNumber
			tests[i] = data
			p.Tests = tests
			return p, nil
		}
		return p, ErrTestNotFound
	})
}

func DeleteTest(clients []models.Client, projectID, testID string) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		kept := make([]models.Test, 0, len(p.Tests))
		found := false
		for _, t := range p.Tests {
			if t.ID == testID {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		if !found {
			return p, ErrTestNotFound
		}
		p.Tests = kept
		return p, nil
	})
}

// AddFollowUp appends a follow-up record with a generated id.
func AddFollowUp(clients []models.Client, projectID string, data models.FollowUpRecord) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		data.ID = uuid.NewString()
		followUps := make([]models.FollowUpRecord, len(p.FollowUps), len(p.FollowUps)+1)
		copy(followUps, p.FollowUps)
		p.FollowUps = append(followUps, data)
		return p, nil
	})
}

func EditFollowUp(clients []models.Client, projectID, followUpID string, data models.FollowUpRecord) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		for i, f := range p.FollowUps {
			if f.ID != followUpID {
				continue
			}
			followUps := make([]models.FollowUpRecord, len(p.FollowUps))
			copy(followUps, p.FollowUps)
			data.ID = f.ID
			followUps[i] = data
			p.FollowUps = followUps
			return p, nil
		}
		return p, ErrFollowUpNotFound
	})
}

func DeleteFollowUp(clients []models.Client, projectID, followUpID string) ([]models.Client, error) {
	return mapProject(clients, projectID, func(p models.Project) (models.Project, error) {
		kept := make([]models.FollowUpRecord, 0, len(p.FollowUps))
		found := false
		for _, f := range p.FollowUps {
			if f.ID == followUpID {
				found = true
				continue
			}
			kept = append(kept, f)
		}
		if !found {
			return p, ErrFollowUpNotFound
		}
		p.FollowUps = kept
		return p, nil
	})
}

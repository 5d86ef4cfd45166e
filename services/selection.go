package services

import "github.com/ddongsuya/cro-project-tracker-sub000/models"

// Selection is always derived by scanning the authoritative client list, so
// a selection pointing at a deleted entity resolves to absent rather than a
// stale object.

// FindProject scans the whole tree for a project by quote number and
// returns the owning client id, requester id and the project itself.
func FindProject(clients []models.Client, projectID string) (clientID, requesterID string, project models.Project, ok bool) {
	if projectID == "" {
		return "", "", models.Project{}, false
	}
	for _, c := range clients {
		for _, r := range c.Requesters {
			for _, p := range r.Projects {
				if p.ID == projectID {
					return c.ID, r.ID, p, true
				}
			}
		}
	}
	return "", "", models.Project{}, false
}

// SelectedClient returns the client matching the selected id.
func SelectedClient(clients []models.Client, clientID string) (models.Client, bool) {
	if clientID == "" {
		return models.Client{}, false
	}
	for _, c := range clients {
		if c.ID == clientID {
			return c, true
		}
	}
	return models.Client{}, false
}

// SelectedProject flattens the projects of the selected client's requesters
// and returns the one matching the selected project id.
func SelectedProject(clients []models.Client, clientID, projectID string) (models.Project, bool) {
	client, ok := SelectedClient(clients, clientID)
	if !ok || projectID == "" {
		return models.Project{}, false
	}
	for _, r := range client.Requesters {
		for _, p := range r.Projects {
			if p.ID == projectID {
				return p, true
			}
		}
	}
	return models.Project{}, false
}

// SelectedRequester returns the requester under the selected client whose
// projects contain the selected project id.
func SelectedRequester(clients []models.Client, clientID, projectID string) (models.Requester, bool) {
	client, ok := SelectedClient(clients, clientID)
	if !ok || projectID == "" {
		return models.Requester{}, false
	}
	for _, r := range client.Requesters {
		for _, p := range r.Projects {
			if p.ID == projectID {
				return r, true
			}
		}
	}
	return models.Requester{}, false
}

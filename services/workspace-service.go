package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"
)

// SyncStore is the remote document store the workspace syncs with. The
// concrete implementation lives in repositories; tests substitute an
// in-memory fake.
type SyncStore interface {
	Load(ctx context.Context) (*models.Workspace, error)
	Save(ctx context.Context, clients []models.Client, modifiedBy string) error
	Subscribe(ctx context.Context, onChange func([]models.Client)) error
}

// ActivityRecorder receives fire-and-forget activity events. May be nil.
type ActivityRecorder interface {
	Record(activity models.Activity)
}

// SelectionView is the derived "currently displayed" state.
type SelectionView struct {
	Client    *models.Client    `json:"client,omitempty"`
	Requester *models.Requester `json:"requester,omitempty"`
	Project   *models.Project   `json:"project,omitempty"`
}

// WorkspaceService owns the authoritative in-memory client list and the
// selection ids. All writes go through the pure mutation functions; the
// whole list is replaced atomically under the mutex, so readers never see a
// half-applied change. Saves are fire-and-forget: a failed save is logged
// and the in-memory state stays authoritative for the session.
type WorkspaceService struct {
	store    SyncStore
	activity ActivityRecorder

	mu                sync.Mutex
	clients           []models.Client
	selectedClientID  string
	selectedProjectID string
}

func NewWorkspaceService(store SyncStore, activity ActivityRecorder) *WorkspaceService {
	return &WorkspaceService{store: store, activity: activity}
}

// Start loads the remote document once and subscribes to remote changes.
// Every remote event replaces local state wholesale; the last callback to
// run wins, with no merge and no version comparison.
func (s *WorkspaceService) Start(ctx context.Context) error {
	ws, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if ws != nil {
		s.clients = ws.Clients
	}
	s.mu.Unlock()

	return s.store.Subscribe(ctx, func(clients []models.Client) {
		s.mu.Lock()
		s.clients = clients
		s.normalizeSelectionLocked()
		s.mu.Unlock()
		logging.Logger.Infof("Event ID: WORKSPACE_REMOTE_UPDATE, Description: Replaced local state from remote change, clients=%d", len(clients))
	})
}

// Reset drops all local data. Used on sign-out: the remote document is the
// only source of truth, there is no offline copy.
func (s *WorkspaceService) Reset() {
	s.mu.Lock()
	s.clients = nil
	s.selectedClientID = ""
	s.selectedProjectID = ""
	s.mu.Unlock()
}

// Clients returns the current list. The returned slice is treated as
// immutable by all callers.
func (s *WorkspaceService) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// Select records the active client/project ids. The ids are not validated
// here; derivation on read self-heals when they point at deleted entities.
func (s *WorkspaceService) Select(clientID, projectID string) {
	s.mu.Lock()
	s.selectedClientID = clientID
	s.selectedProjectID = projectID
	s.mu.Unlock()
}

// Selection derives the currently displayed client, requester and project
// from the selected ids and the authoritative list.
func (s *WorkspaceService) Selection() SelectionView {
	s.mu.Lock()
	clients := s.clients
	clientID := s.selectedClientID
	projectID := s.selectedProjectID
	s.mu.Unlock()

	var view SelectionView
	if c, ok := SelectedClient(clients, clientID); ok {
		view.Client = &c
	}
	if r, ok := SelectedRequester(clients, clientID, projectID); ok {
		view.Requester = &r
	}
	if p, ok := SelectedProject(clients, clientID, projectID); ok {
		view.Project = &p
	}
	return view
}

// normalizeSelectionLocked clears selection ids whose backing entity no
// longer exists. Caller holds the mutex.
func (s *WorkspaceService) normalizeSelectionLocked() {
	if _, ok := SelectedClient(s.clients, s.selectedClientID); !ok {
		s.selectedClientID = ""
		s.selectedProjectID = ""
		return
	}
	if s.selectedProjectID == "" {
		return
	}
	if _, ok := SelectedProject(s.clients, s.selectedClientID, s.selectedProjectID); !ok {
		s.selectedProjectID = ""
	}
}

// persist pushes the current list to the remote store without blocking the
// caller. Empty lists are never saved, so a fresh or reset workspace cannot
// clobber the shared document.
func (s *WorkspaceService) persist(user models.AuthenticatedUser) {
	s.mu.Lock()
	clients := s.clients
	s.mu.Unlock()
	if len(clients) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.Save(ctx, clients, user.Email); err != nil {
			logging.Logger.Errorf("Event ID: WORKSPACE_SAVE_FAILED, Description: Remote save failed, local state stays authoritative: %v", err)
		}
	}()
}

func (s *WorkspaceService) record(user models.AuthenticatedUser, typ models.ActivityType, clientID, projectID, details string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(models.Activity{
		Type:       typ,
		ActorEmail: user.Email,
		ClientID:   clientID,
		ProjectID:  projectID,
		Timestamp:  time.Now(),
		Details:    details,
	})
}

func (s *WorkspaceService) AddClient(user models.AuthenticatedUser, data models.Client) (models.Client, error) {
	s.mu.Lock()
	clients, created, err := AddClient(s.clients, data)
	if err != nil {
		s.mu.Unlock()
		return models.Client{}, err
	}
	s.clients = clients
	s.selectedClientID = created.ID
	s.selectedProjectID = ""
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityAddClient, created.ID, "", "client "+created.Name+" created")
	return created, nil
}

func (s *WorkspaceService) DeleteClient(user models.AuthenticatedUser, clientID string) error {
	s.mu.Lock()
	clients, err := DeleteClient(s.clients, clientID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = clients
	s.normalizeSelectionLocked()
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityDeleteClient, clientID, "", "client deleted")
	return nil
}

func (s *WorkspaceService) AddRequester(user models.AuthenticatedUser, clientID string, data models.Requester) (models.Requester, error) {
	s.mu.Lock()
	clients, created, err := AddRequester(s.clients, clientID, data)
	if err != nil {
		s.mu.Unlock()
		return models.Requester{}, err
	}
	s.clients = clients
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityAddRequester, clientID, "", "requester "+created.Name+" added")
	return created, nil
}

func (s *WorkspaceService) DeleteRequester(user models.AuthenticatedUser, clientID, requesterID string) error {
	s.mu.Lock()
	clients, err := DeleteRequester(s.clients, clientID, requesterID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = clients
	s.normalizeSelectionLocked()
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityDeleteRequester, clientID, "", "requester deleted")
	return nil
}

func (s *WorkspaceService) AddProject(user models.AuthenticatedUser, clientID, requesterID string, data models.Project) (models.Project, error) {
	s.mu.Lock()
	clients, created, err := AddProject(s.clients, clientID, requesterID, data)
	if err != nil {
		s.mu.Unlock()
		return models.Project{}, err
	}
	s.clients = clients
	s.selectedClientID = clientID
	s.selectedProjectID = created.ID
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityAddProject, clientID, created.ID, "project "+created.ID+" created")
	return created, nil
}

func (s *WorkspaceService) EditProject(user models.AuthenticatedUser, projectID string, data models.Project) error {
	s.mu.Lock()
	clients, err := EditProject(s.clients, projectID, data)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = clients
	if s.selectedProjectID == projectID && data.ID != "" {
		s.selectedProjectID = data.ID
	}
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityEditProject, "", projectID, "project edited")
	return nil
}

func (s *WorkspaceService) DeleteProject(user models.AuthenticatedUser, clientID, projectID string) error {
	s.mu.Lock()
	clients, err := DeleteProject(s.clients, clientID, projectID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = clients
	s.normalizeSelectionLocked()
	s.mu.Unlock()

	s.persist(user)
	s.record(user, models.ActivityDeleteProject, clientID, projectID, "project deleted")
	return nil
}

func (s *WorkspaceService) AdvanceStage(user models.AuthenticatedUser, projectID, stageID string) error {
	return s.applyProjectMutation(user, models.ActivityAdvanceStage, projectID, "stage advanced", func(clients []models.Client) ([]models.Client, error) {
		return AdvanceStage(clients, projectID, stageID)
	})
}

func (s *WorkspaceService) EditStage(user models.AuthenticatedUser, projectID, stageID string, status models.StageStatus, date, notes string) error {
	return s.applyProjectMutation(user, models.ActivityEditStage, projectID, "stage edited", func(clients []models.Client) ([]models.Client, error) {
		return EditStage(clients, projectID, stageID, status, date, notes)
	})
}

func (s *WorkspaceService) AddTest(user models.AuthenticatedUser, projectID string, data models.Test) error {
	return s.applyProjectMutation(user, models.ActivityAddTest, projectID, "test added", func(clients []models.Client) ([]models.Client, error) {
		return AddTest(clients, projectID, data)
	})
}

func (s *WorkspaceService) EditTest(user models.AuthenticatedUser, projectID, testID string, data models.Test) error {
	return s.applyProjectMutation(user, models.ActivityEditTest, projectID, "test edited", func(clients []models.Client) ([]models.Client, error) {
		return EditTest(clients, projectID, testID, data)
	})
}

func (s *WorkspaceService) DeleteTest(user models.AuthenticatedUser, projectID, testID string) error {
	return s.applyProjectMutation(user, models.ActivityDeleteTest, projectID, "test deleted", func(clients []models.Client) ([]models.Client, error) {
		return DeleteTest(clients, projectID, testID)
	})
}

func (s *WorkspaceService) AddFollowUp(user models.AuthenticatedUser, projectID string, data models.FollowUpRecord) error {
	return s.applyProjectMutation(user, models.ActivityAddFollowUp, projectID, "follow-up added", func(clients []models.Client) ([]models.Client, error) {
		return AddFollowUp(clients, projectID, data)
	})
}

func (s *WorkspaceService) EditFollowUp(user models.AuthenticatedUser, projectID, followUpID string, data models.FollowUpRecord) error {
	return s.applyProjectMutation(user, models.ActivityEditFollowUp, projectID, "follow-up edited", func(clients []models.Client) ([]models.Client, error) {
		return EditFollowUp(clients, projectID, followUpID, data)
	})
}

func (s *WorkspaceService) DeleteFollowUp(user models.AuthenticatedUser, projectID, followUpID string) error {
	return s.applyProjectMutation(user, models.ActivityDeleteFollowUp, projectID, "follow-up deleted", func(clients []models.Client) ([]models.Client, error) {
		return DeleteFollowUp(clients, projectID, followUpID)
	})
}

func (s *WorkspaceService) applyProjectMutation(user models.AuthenticatedUser, typ models.ActivityType, projectID, details string, fn func([]models.Client) ([]models.Client, error)) error {
	s.mu.Lock()
	clients, err := fn(s.clients)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clients = clients
	s.mu.Unlock()

	s.persist(user)
	s.record(user, typ, "", projectID, details)
	return nil
}

// ImportCSV merges a CSV payload into the client list. The read, merge and
// swap all happen under the mutex, so a mutation landing mid-import is not
// lost to a stale snapshot.
func (s *WorkspaceService) ImportCSV(user models.AuthenticatedUser, r io.Reader) (ImportReport, error) {
	s.mu.Lock()
	clients, report, err := ImportCSV(s.clients, r)
	if err != nil {
		s.mu.Unlock()
		return ImportReport{}, err
	}
	if report.Imported > 0 {
		s.clients = clients
		s.normalizeSelectionLocked()
	}
	s.mu.Unlock()

	if report.Imported > 0 {
		s.persist(user)
		s.record(user, models.ActivityImportClients, "", "", fmt.Sprintf("imported %d rows, skipped %d", report.Imported, report.Skipped))
	}
	return report, nil
}

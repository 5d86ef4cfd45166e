package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyncStore is an in-memory stand-in for the remote document store.
type fakeSyncStore struct {
	mu       sync.Mutex
	saves    []models.Workspace
	saveCh   chan struct{}
	onChange func([]models.Client)
	initial  *models.Workspace
	loadErr  error
}

func newFakeSyncStore() *fakeSyncStore {
	return &fakeSyncStore{saveCh: make(chan struct{}, 16)}
}

func (f *fakeSyncStore) Load(ctx context.Context) (*models.Workspace, error) {
	return f.initial, f.loadErr
}

func (f *fakeSyncStore) Save(ctx context.Context, clients []models.Client, modifiedBy string) error {
	f.mu.Lock()
	f.saves = append(f.saves, models.Workspace{
		Clients:    clients,
		ModifiedBy: modifiedBy,
		Version:    int64(len(f.saves) + 1),
	})
	f.mu.Unlock()
	f.saveCh <- struct{}{}
	return nil
}

func (f *fakeSyncStore) Subscribe(ctx context.Context, onChange func([]models.Client)) error {
	f.mu.Lock()
	f.onChange = onChange
	f.mu.Unlock()
	return nil
}

func (f *fakeSyncStore) pushRemote(clients []models.Client) {
	f.mu.Lock()
	onChange := f.onChange
	f.mu.Unlock()
	onChange(clients)
}

func (f *fakeSyncStore) waitForSave(t *testing.T) models.Workspace {
	t.Helper()
	select {
	case <-f.saveCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for remote save")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

var testUser = models.AuthenticatedUser{ID: "u-1", Email: "jane@cro.example"}

func startWorkspace(t *testing.T, store *fakeSyncStore) *WorkspaceService {
	t.Helper()
	svc := NewWorkspaceService(store, nil)
	require.NoError(t, svc.Start(context.Background()))
	return svc
}

func TestStartLoadsRemoteDocument(t *testing.T) {
	store := newFakeSyncStore()
	store.initial = &models.Workspace{
		Clients: []models.Client{{ID: "c-1", Name: "Acme"}},
		Version: 7,
	}

	svc := startWorkspace(t, store)
	clients := svc.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme", clients[0].Name)
}

func TestMutationTriggersSaveWithUser(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	created, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)

	saved := store.waitForSave(t)
	require.Len(t, saved.Clients, 1)
	assert.Equal(t, created.ID, saved.Clients[0].ID)
	assert.Equal(t, testUser.Email, saved.ModifiedBy)
}

func TestEmptyListIsNeverSaved(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	_, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	store.waitForSave(t)

	clients := svc.Clients()
	require.NoError(t, svc.DeleteClient(testUser, clients[0].ID))

	select {
	case <-store.saveCh:
		t.Fatal("an empty client list must not be pushed to the remote store")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRemoteOverwriteWins(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	// local mutation produces L1
	_, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)

	// before L1's save settles, another user's L2 arrives via subscription
	l2 := []models.Client{{ID: "remote-1", Name: "Globex", Requesters: []models.Requester{}}}
	store.pushRemote(l2)

	clients := svc.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Globex", clients[0].Name, "the last callback to run wins, no merge")
}

func TestRemoteUpdateHealsSelection(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	created, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	svc.Select(created.ID, "")
	require.NotNil(t, svc.Selection().Client)

	store.pushRemote([]models.Client{{ID: "other", Name: "Globex"}})

	view := svc.Selection()
	assert.Nil(t, view.Client, "selection of an entity gone from the remote copy must clear")
}

func TestSelectionSideEffects(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	created, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, svc.Selection().Client.ID, "a new client becomes selected")

	requester, err := svc.AddRequester(testUser, created.ID, models.Requester{Name: "Jane"})
	require.NoError(t, err)

	project, err := svc.AddProject(testUser, created.ID, requester.ID, models.Project{ID: "Q-1", TestItem: "Assay A"})
	require.NoError(t, err)

	view := svc.Selection()
	require.NotNil(t, view.Project)
	assert.Equal(t, project.ID, view.Project.ID, "a new project becomes selected")
	require.NotNil(t, view.Requester)
	assert.Equal(t, requester.ID, view.Requester.ID)

	require.NoError(t, svc.DeleteProject(testUser, created.ID, project.ID))
	view = svc.Selection()
	assert.Nil(t, view.Project, "deleting the selected project clears the selection")
	assert.NotNil(t, view.Client)
}

func TestResetClearsLocalState(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	_, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)

	svc.Reset()
	assert.Empty(t, svc.Clients())
	assert.Nil(t, svc.Selection().Client)
}

func TestImportCSVMergesUnderServiceLock(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	// a client added before the import must survive the merge
	created, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	store.waitForSave(t)

	csvData := importHeader +
		"Globex,,Gail,g@globex.example,,Q-9,Tox Panel,2024-01-05,1000,0,new\n"
	report, err := svc.ImportCSV(testUser, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	clients := svc.Clients()
	require.Len(t, clients, 2)
	assert.Equal(t, created.ID, clients[0].ID)

	saved := store.waitForSave(t)
	assert.Len(t, saved.Clients, 2, "the merged list is what gets persisted")
}

func TestImportCSVWithNothingImportedLeavesStateAlone(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	_, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	store.waitForSave(t)

	report, err := svc.ImportCSV(testUser, strings.NewReader(importHeader))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)

	select {
	case <-store.saveCh:
		t.Fatal("an import with zero applied rows must not trigger a save")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Len(t, svc.Clients(), 1)
}

func TestStageWorkflowThroughService(t *testing.T) {
	store := newFakeSyncStore()
	svc := startWorkspace(t, store)

	client, err := svc.AddClient(testUser, models.Client{Name: "Acme"})
	require.NoError(t, err)
	requester, err := svc.AddRequester(testUser, client.ID, models.Requester{Name: "Jane"})
	require.NoError(t, err)
	project, err := svc.AddProject(testUser, client.ID, requester.ID, models.Project{ID: "Q-1"})
	require.NoError(t, err)

	require.NoError(t, svc.AdvanceStage(testUser, project.ID, project.Stages[0].ID))

	_, _, got, ok := FindProject(svc.Clients(), project.ID)
	require.True(t, ok)
	assert.Equal(t, models.StageInProgress, got.Stages[0].Status)

	err = svc.AdvanceStage(testUser, "no-such-project", project.Stages[0].ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

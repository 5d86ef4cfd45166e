package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/middleware"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"
	"github.com/ddongsuya/cro-project-tracker-sub000/services"

	"github.com/gorilla/mux"
)

type ClientHandler struct {
	Workspace *services.WorkspaceService
	Activity  *services.ActivityService
}

func NewClientHandler(workspace *services.WorkspaceService, activity *services.ActivityService) *ClientHandler {
	return &ClientHandler{Workspace: workspace, Activity: activity}
}

// ListClientsHandler returns the full client tree.
func (h *ClientHandler) ListClientsHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, h.Workspace.Clients())
}

func (h *ClientHandler) AddClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Workspace.AddClient(user, client)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ClientHandler) DeleteClientHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	clientID := mux.Vars(r)["clientId"]

	if err := h.Workspace.DeleteClient(user, clientID); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Client deleted successfully"}`))
}

func (h *ClientHandler) AddRequesterHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	clientID := mux.Vars(r)["clientId"]

	var requester models.Requester
	if err := json.NewDecoder(r.Body).Decode(&requester); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Workspace.AddRequester(user, clientID, requester)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ClientHandler) DeleteRequesterHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.Workspace.DeleteRequester(user, vars["clientId"], vars["requesterId"]); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Requester deleted successfully"}`))
}

// ClientActivityHandler returns the external activity log for one client.
// Returns 503 when the activity log backend is not configured.
func (h *ClientHandler) ClientActivityHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if h.Activity == nil {
		http.Error(w, "Activity log is not enabled", http.StatusServiceUnavailable)
		return
	}

	clientID := mux.Vars(r)["clientId"]
	activities, err := h.Activity.History(clientID)
	if err != nil {
		logging.Logger.Errorf("Event ID: ACTIVITY_READ_FAILED, Description: Failed to read activities for client %s: %v", clientID, err)
		http.Error(w, "Failed to retrieve activities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

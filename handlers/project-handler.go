package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ddongsuya/cro-project-tracker-sub000/middleware"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"
	"github.com/ddongsuya/cro-project-tracker-sub000/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	Workspace *services.WorkspaceService
}

func NewProjectHandler(workspace *services.WorkspaceService) *ProjectHandler {
	return &ProjectHandler{Workspace: workspace}
}

func (h *ProjectHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Workspace.AddProject(user, vars["clientId"], vars["requesterId"], project)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) EditProjectHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.EditProject(user, projectID, project); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Project updated successfully"}`))
}

func (h *ProjectHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.Workspace.DeleteProject(user, vars["clientId"], vars["projectId"]); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Project deleted successfully"}`))
}

// AdvanceStageHandler is the click-to-advance action: Pending -> InProgress
// -> Completed -> Pending.
func (h *ProjectHandler) AdvanceStageHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.Workspace.AdvanceStage(user, vars["projectId"], vars["stageId"]); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Stage advanced"}`))
}

// EditStageHandler is the explicit stage edit form; the only way to set a
// stage on hold.
func (h *ProjectHandler) EditStageHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	var body struct {
		Status models.StageStatus `json:"status"`
		Date   string             `json:"date"`
		Notes  string             `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	switch body.Status {
	case models.StagePending, models.StageInProgress, models.StageCompleted, models.StageOnHold:
	default:
		http.Error(w, "Invalid stage status", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.EditStage(user, vars["projectId"], vars["stageId"], body.Status, body.Date, body.Notes); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Stage updated"}`))
}

func (h *ProjectHandler) AddTestHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var test models.Test
	if err := json.NewDecoder(r.Body).Decode(&test); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.AddTest(user, projectID, test); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Test added"})
}

func (h *ProjectHandler) EditTestHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	var test models.Test
	if err := json.NewDecoder(r.Body).Decode(&test); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.EditTest(user, vars["projectId"], vars["testId"], test); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Test updated"}`))
}

func (h *ProjectHandler) DeleteTestHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.Workspace.DeleteTest(user, vars["projectId"], vars["testId"]); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Test deleted"}`))
}

func (h *ProjectHandler) AddFollowUpHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	projectID := mux.Vars(r)["projectId"]

	var followUp models.FollowUpRecord
	if err := json.NewDecoder(r.Body).Decode(&followUp); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.AddFollowUp(user, projectID, followUp); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Follow-up added"})
}

func (h *ProjectHandler) EditFollowUpHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	var followUp models.FollowUpRecord
	if err := json.NewDecoder(r.Body).Decode(&followUp); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Workspace.EditFollowUp(user, vars["projectId"], vars["followUpId"], followUp); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Follow-up updated"}`))
}

func (h *ProjectHandler) DeleteFollowUpHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.Workspace.DeleteFollowUp(user, vars["projectId"], vars["followUpId"]); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Follow-up deleted"}`))
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/middleware"
	"github.com/ddongsuya/cro-project-tracker-sub000/services"
)

type WorkspaceHandler struct {
	Workspace *services.WorkspaceService
}

func NewWorkspaceHandler(workspace *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{Workspace: workspace}
}

// GetSelectionHandler returns the derived selection view.
func (h *WorkspaceHandler) GetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, h.Workspace.Selection())
}

// SetSelectionHandler records the active client/project ids.
func (h *WorkspaceHandler) SetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	var body struct {
		ClientID  string `json:"clientId"`
		ProjectID string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	h.Workspace.Select(body.ClientID, body.ProjectID)
	writeJSON(w, http.StatusOK, h.Workspace.Selection())
}

func (h *WorkspaceHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	summary := services.BuildDashboard(h.Workspace.Clients(), time.Now())
	writeJSON(w, http.StatusOK, summary)
}

// ImportCSVHandler merges an uploaded CSV into the workspace. Valid rows
// apply even when others are malformed; the report carries both counts.
func (h *WorkspaceHandler) ImportCSVHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	user, _ := middleware.UserFromContext(r.Context())

	report, err := h.Workspace.ImportCSV(user, r.Body)
	if err != nil {
		http.Error(w, "Failed to read CSV data", http.StatusBadRequest)
		return
	}

	logging.Logger.Infof("Event ID: CSV_IMPORT_DONE, Description: Imported %d rows, skipped %d, by %s", report.Imported, report.Skipped, user.Email)
	writeJSON(w, http.StatusOK, report)
}

func (h *WorkspaceHandler) ExportJSONHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="clients.json"`)
	if err := services.ExportJSON(h.Workspace.Clients(), w); err != nil {
		logging.Logger.Errorf("Event ID: EXPORT_JSON_FAILED, Description: %v", err)
	}
}

func (h *WorkspaceHandler) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, []string{"manager", "member"}); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="projects.csv"`)
	if err := services.ExportCSV(h.Workspace.Clients(), w); err != nil {
		logging.Logger.Errorf("Event ID: EXPORT_CSV_FAILED, Description: %v", err)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ddongsuya/cro-project-tracker-sub000/middleware"
	"github.com/ddongsuya/cro-project-tracker-sub000/services"
)

func checkRole(r *http.Request, allowedRoles []string) error {
	userRole := middleware.RoleFromContext(r.Context())
	if userRole == "" {
		return fmt.Errorf("role is missing in request context")
	}

	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusForError maps the mutation core's sentinel errors to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrRequesterNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrStageNotFound),
		errors.Is(err, services.ErrTestNotFound),
		errors.Is(err, services.ErrFollowUpNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateProjectID):
		return http.StatusConflict
	case errors.Is(err, services.ErrNoRequesters),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrProjectIDRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

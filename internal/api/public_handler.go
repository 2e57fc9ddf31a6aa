package api

import (
	"errors"
	"net/http"

	"traqcheck/internal/storage"
)

// PublicCandidateNameHandler exposes only the candidate's name so the
// public upload page can greet the candidate without leaking contact
// details.
// @Summary Public candidate name lookup
// @Tags public
// @Produce json
// @Param id path string true "Candidate UUID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/candidates/{id}/public [get]
func (a *API) PublicCandidateNameHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	name, err := a.store.GetCandidateName(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Candidate not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

// HealthHandler reports liveness.
// @Summary Health check
// @Tags public
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"traqcheck/internal/resume"
	"traqcheck/internal/storage"
)

// UploadHandler accepts a resume, runs the extraction pipeline and
// returns the persisted candidate with its validation details.
// @Summary Upload and parse a resume
// @Description Upload a resume (PDF, DOCX or TXT), extract candidate data via LLM, validate and persist it
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "Resume file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]interface{}
// @Router /candidates/upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No resume file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	path, _, err := a.saveUpload(file, header.Filename, "resumes")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save resume: "+err.Error())
		return
	}

	outcome, err := a.pipeline.Process(r.Context(), path, path)
	if err != nil {
		log.Printf("api: upload pipeline failed: %v", err)
		payload := map[string]any{"success": false, "error": err.Error()}
		var stageErr *resume.StageError
		if errors.As(err, &stageErr) {
			payload["stage"] = string(stageErr.Stage)
			if stageErr.Validation != nil {
				payload["validation_details"] = validationDetails(*stageErr.Validation)
				if missing := stageErr.Validation.MissingFields(); len(missing) > 0 {
					payload["missing_fields"] = missing
				}
			}
		}
		writeJSON(w, http.StatusInternalServerError, payload)
		return
	}

	c := outcome.Candidate
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"candidate_id":       c.ID,
			"name":               c.Name,
			"email":              c.Email,
			"phone":              c.Phone,
			"company":            c.Company,
			"designation":        c.Designation,
			"skills":             c.Skills,
			"experience_years":   c.ExperienceYears,
			"confidence_scores":  c.ConfidenceScores,
			"validation_status":  outcome.ValidationStatus,
			"validation_details": validationDetails(outcome.Validation),
			"is_update":          outcome.IsUpdate,
			"db_status":          outcome.DBStatus,
		},
	})
}

func validationDetails(v resume.ValidationResult) map[string]any {
	return map[string]any{
		"mandatory_fields":      v.MandatoryFields,
		"format_validation":     v.FormatValidation,
		"calculated_confidence": v.OverallConfidence,
	}
}

// ListCandidatesHandler returns the list view of all candidates.
// @Summary List candidates
// @Tags candidates
// @Produce json
// @Success 200 {array} storage.CandidateSummary
// @Failure 500 {object} map[string]string
// @Router /candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	candidates, err := a.store.ListCandidates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The dashboard renders empty companies as a dash.
	out := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		company := c.Company
		if company == "" {
			company = "-"
		}
		out = append(out, map[string]any{
			"id":              c.ID,
			"name":            c.Name,
			"email":           c.Email,
			"company":         company,
			"status":          c.Status,
			"document_status": c.DocumentStatus,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCandidateHandler returns one full candidate with its documents.
// @Summary Get candidate by id
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c, err := a.store.GetCandidate(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Candidate not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	documents, err := a.store.ListDocumentsByCandidate(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	docList := make([]map[string]any, 0, len(documents))
	for _, d := range documents {
		docList = append(docList, map[string]any{
			"id":                  d.ID,
			"type":                d.DocumentType,
			"file_name":           d.FileName,
			"file_size":           d.FileSize,
			"uploaded_at":         d.UploadedAt,
			"verification_status": d.VerificationStatus,
			"download_url":        "/api/documents/" + d.ID + "/download",
		})
	}

	payload := map[string]any{
		"id":                c.ID,
		"name":              c.Name,
		"email":             c.Email,
		"phone":             c.Phone,
		"company":           c.Company,
		"designation":       c.Designation,
		"skills":            c.Skills,
		"experience_years":  c.ExperienceYears,
		"resume_path":       c.ResumePath,
		"confidence_scores": c.ConfidenceScores,
		"status":            c.Status,
		"document_status":   c.DocumentStatus,
		"created_at":        c.CreatedAt,
		"documents":         docList,
	}
	writeJSON(w, http.StatusOK, payload)
}

// RequestDocumentsHandler generates and sends a document-request email,
// then moves the candidate to REQUESTED.
// @Summary Request verification documents from a candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /candidates/{id}/request-documents [post]
func (a *API) RequestDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	candidate, err := a.store.GetCandidate(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Candidate not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	uploadLink := a.baseURL + "/upload/" + id
	deadline := time.Now().AddDate(0, 0, 7).Format("January 2, 2006")

	email, err := a.emails.GenerateDocumentRequestEmail(r.Context(), candidate.Name, uploadLink, deadline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "email generation failed: "+err.Error())
		return
	}

	if err := a.sender.Send(candidate.Email, email.Subject, email.Body); err != nil {
		writeError(w, http.StatusInternalServerError, "email send failed: "+err.Error())
		return
	}

	if err := a.store.UpdateDocumentStatus(r.Context(), id, storage.DocStatusRequested); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	input, _ := json.Marshal(map[string]string{
		"to_email":    candidate.Email,
		"subject":     email.Subject,
		"upload_link": uploadLink,
	})
	logEntry := &storage.AgentLog{
		CandidateID: id,
		Action:      "DOCUMENT_REQUEST_SENT",
		ToolUsed:    "send_email_smtp",
		Input:       string(input),
		Output:      `{"success": true}`,
	}
	if err := a.store.InsertAgentLog(r.Context(), logEntry); err != nil {
		log.Printf("api: agent log write failed: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"candidate_id":    id,
		"candidate_name":  candidate.Name,
		"candidate_email": candidate.Email,
		"email":           email,
		"deadline":        deadline,
		"upload_link":     uploadLink,
	})
}

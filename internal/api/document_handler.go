package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"traqcheck/internal/storage"
)

var allowedDocumentExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// SubmitDocumentsHandler receives PAN and Aadhaar uploads from a
// candidate's public upload link and marks the candidate SUBMITTED.
// @Summary Submit verification documents
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Candidate UUID"
// @Param pan_card formData file true "PAN card (jpg, png or pdf)"
// @Param aadhaar_card formData file true "Aadhaar card (jpg, png or pdf)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /candidates/{id}/submit-documents [post]
func (a *API) SubmitDocumentsHandler(w http.ResponseWriter, r *http.Request) {
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

	if candidate.DocumentStatus == storage.DocStatusSubmitted {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Documents have already been submitted for this candidate",
		})
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "file too large or invalid (max 10MB)"})
		return
	}

	fields := []struct {
		form    string
		docType string
		label   string
	}{
		{"pan_card", "PAN", "PAN card"},
		{"aadhaar_card", "AADHAAR", "Aadhaar card"},
	}

	// Validate both uploads before persisting either.
	type pending struct {
		docType string
		ext     string
		idx     int
	}
	var uploads []pending
	for i, f := range fields {
		_, header, err := r.FormFile(f.form)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   fmt.Sprintf("%s is required", f.label),
			})
			return
		}
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedDocumentExts[ext] {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   fmt.Sprintf("%s: only jpg, jpeg, png and pdf files are accepted", f.label),
			})
			return
		}
		uploads = append(uploads, pending{docType: f.docType, ext: ext, idx: i})
	}

	now := time.Now().UTC()
	stamp := now.Format("20060102_150405")
	saved := make([]map[string]any, 0, len(uploads))
	for _, up := range uploads {
		file, header, err := r.FormFile(fields[up.idx].form)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		name := fmt.Sprintf("%s_%s_%s%s", id, up.docType, stamp, up.ext)
		path, size, err := a.saveUploadAs(file, name, "documents")
		file.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save document: "+err.Error())
			return
		}

		doc := &storage.Document{
			CandidateID:        id,
			DocumentType:       up.docType,
			FilePath:           path,
			FileName:           header.Filename,
			FileSize:           size,
			VerificationStatus: storage.VerificationPending,
		}
		if err := a.store.InsertDocument(r.Context(), doc); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		saved = append(saved, map[string]any{
			"id":        doc.ID,
			"type":      doc.DocumentType,
			"file_name": doc.FileName,
			"file_size": doc.FileSize,
		})
	}

	if err := a.store.UpdateDocumentStatus(r.Context(), id, storage.DocStatusSubmitted); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	input, _ := marshalLog(map[string]any{"candidate_id": id, "documents": len(saved)})
	output, _ := marshalLog(map[string]any{"success": true, "submitted_at": now.Format("2006-01-02 15:04:05")})
	logEntry := &storage.AgentLog{
		CandidateID: id,
		Action:      "DOCUMENTS_SUBMITTED",
		ToolUsed:    "document_upload",
		Input:       input,
		Output:      output,
	}
	_ = a.store.InsertAgentLog(r.Context(), logEntry)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Documents submitted successfully",
		"documents": saved,
	})
}

// DownloadDocumentHandler serves a stored document as an attachment,
// redirecting when the file lives behind a remote URL.
// @Summary Download a document
// @Tags documents
// @Param id path string true "Document UUID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /api/documents/{id}/download [get]
func (a *API) DownloadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	a.serveDocument(w, r, "attachment")
}

// ViewDocumentHandler serves a stored document inline for browser preview.
// @Summary View a document inline
// @Tags documents
// @Param id path string true "Document UUID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /api/documents/{id}/view [get]
func (a *API) ViewDocumentHandler(w http.ResponseWriter, r *http.Request) {
	a.serveDocument(w, r, "inline")
}

func (a *API) serveDocument(w http.ResponseWriter, r *http.Request, disposition string) {
	id := r.PathValue("id")

	doc, err := a.store.GetDocument(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Document not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if isRemoteRef(doc.FilePath) {
		http.Redirect(w, r, doc.FilePath, http.StatusFound)
		return
	}

	if _, err := os.Stat(doc.FilePath); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Document file is missing from storage"})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	http.ServeFile(w, r, doc.FilePath)
}

// DownloadResumeHandler serves the original resume for a candidate.
// @Summary Download a candidate's resume
// @Tags candidates
// @Param id path string true "Candidate UUID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /api/resume/{id}/download [get]
func (a *API) DownloadResumeHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	candidate, err := a.store.GetCandidate(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Candidate not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if candidate.ResumePath == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No resume on file for this candidate"})
		return
	}

	if isRemoteRef(candidate.ResumePath) {
		http.Redirect(w, r, candidate.ResumePath, http.StatusFound)
		return
	}

	if _, err := os.Stat(candidate.ResumePath); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Resume file is missing from storage"})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(candidate.ResumePath)))
	http.ServeFile(w, r, candidate.ResumePath)
}

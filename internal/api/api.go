package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"traqcheck/internal/llm"
	"traqcheck/internal/resume"
	"traqcheck/internal/storage"
)

// EmailGenerator drafts document-request emails (the LLM collaborator).
type EmailGenerator interface {
	GenerateDocumentRequestEmail(ctx context.Context, candidateName, uploadLink, deadline string) (llm.Email, error)
}

// EmailSender delivers generated emails.
type EmailSender interface {
	Send(to, subject, body string) error
}

// API is the HTTP boundary. Components below it return errors; this layer
// is the single place translating them into status codes and envelopes.
type API struct {
	store     *storage.Store
	pipeline  *resume.Pipeline
	emails    EmailGenerator
	sender    EmailSender
	uploadDir string
	baseURL   string
}

func NewAPI(store *storage.Store, pipeline *resume.Pipeline, emails EmailGenerator, sender EmailSender, uploadDir, baseURL string) *API {
	return &API{
		store:     store,
		pipeline:  pipeline,
		emails:    emails,
		sender:    sender,
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

// saveUpload stores a multipart file under uploadDir/subdir using a
// sanitized version of the client's filename.
func (a *API) saveUpload(file multipart.File, filename, subdir string) (string, int64, error) {
	return a.saveUploadAs(file, sanitizeFilename(filename), subdir)
}

// saveUploadAs stores a multipart file under uploadDir/subdir with the
// exact name given.
func (a *API) saveUploadAs(file multipart.File, name, subdir string) (string, int64, error) {
	dir := filepath.Join(a.uploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		return "", 0, fmt.Errorf("save file: %w", err)
	}
	return path, size, nil
}

// sanitizeFilename strips path components and characters that do not
// belong in a stored filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." {
		out = "upload"
	}
	return out
}

// isRemoteRef reports whether a stored file reference points at blob
// storage rather than local disk.
func isRemoteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func marshalLog(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

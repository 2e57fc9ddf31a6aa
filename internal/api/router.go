package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	mux.HandleFunc("GET /health", a.HealthHandler)

	// Candidate endpoints
	mux.HandleFunc("POST /candidates/upload", a.UploadHandler)
	mux.HandleFunc("GET /candidates", a.ListCandidatesHandler)
	mux.HandleFunc("GET /candidates/{id}", a.GetCandidateHandler)
	mux.HandleFunc("POST /candidates/{id}/request-documents", a.RequestDocumentsHandler)
	mux.HandleFunc("POST /candidates/{id}/submit-documents", a.SubmitDocumentsHandler)

	// Document retrieval
	mux.HandleFunc("GET /api/documents/{id}/download", a.DownloadDocumentHandler)
	mux.HandleFunc("GET /api/documents/{id}/view", a.ViewDocumentHandler)

	// Public endpoints used by the candidate upload page
	mux.HandleFunc("GET /api/candidates/{id}/public", a.PublicCandidateNameHandler)
	mux.HandleFunc("GET /api/resume/{id}/download", a.DownloadResumeHandler)

	return mux
}

package storage

// Candidate lifecycle states. A candidate is created as PARSED and never
// deleted; the document workflow only moves DocumentStatus forward.
const (
	StatusParsed = "PARSED"

	DocStatusNotRequested = "NOT_REQUESTED"
	DocStatusRequested    = "REQUESTED"
	DocStatusSubmitted    = "SUBMITTED"
)

// Document verification states. Verification itself happens out of band;
// rows are created PENDING and left alone here.
const (
	VerificationPending = "PENDING"
)

// Candidate is one natural person, keyed by email.
type Candidate struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Email                string             `json:"email"`
	Phone                string             `json:"phone"`
	Company              string             `json:"company"`
	Designation          string             `json:"designation"`
	Skills               []string           `json:"skills"`
	ExperienceYears      int                `json:"experience_years"`
	ResumePath           string             `json:"resume_path"`
	ConfidenceScores     map[string]float64 `json:"confidence_scores"`
	Status               string             `json:"status"`
	DocumentStatus       string             `json:"document_status"`
	DocumentRequestedAt  string             `json:"document_requested_at,omitempty"`
	DocumentsSubmittedAt string             `json:"documents_submitted_at,omitempty"`
	CreatedAt            string             `json:"created_at"`
	UpdatedAt            string             `json:"updated_at,omitempty"`
}

// CandidateSummary is the list-view projection.
type CandidateSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	Status         string `json:"status"`
	DocumentStatus string `json:"document_status"`
}

// Document is one uploaded supporting document owned by a candidate.
type Document struct {
	ID                 string `json:"id"`
	CandidateID        string `json:"candidate_id"`
	DocumentType       string `json:"type"`
	FilePath           string `json:"-"`
	FileName           string `json:"file_name"`
	FileSize           int64  `json:"file_size"`
	VerificationStatus string `json:"verification_status"`
	UploadedAt         string `json:"uploaded_at"`
}

// AgentLog is an append-only audit entry. The core only ever writes these.
type AgentLog struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	Action      string `json:"action"`
	ToolUsed    string `json:"tool_used,omitempty"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	CreatedAt   string `json:"created_at"`
}

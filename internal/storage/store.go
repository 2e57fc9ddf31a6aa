package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"traqcheck/internal/dbx"
)

// ErrNotFound is returned when a candidate or document id matches no row.
var ErrNotFound = errors.New("storage: not found")

const timeLayout = "2006-01-02 15:04:05"

// emailLockStripes is the size of the fixed mutex array guarding
// SaveCandidate. Distinct emails may share a stripe; that only costs a
// little extra contention, never correctness.
const emailLockStripes = 64

// Store owns candidate, document and agent-log persistence. Every method
// opens one connection for its full lifetime and releases it on all paths.
type Store struct {
	db *dbx.DB

	// emailLocks serializes insert-or-update per email. The lookup-then-write
	// below is not one atomic statement; the unique index on lower(email)
	// is the backstop for writers outside this process.
	emailLocks [emailLockStripes]sync.Mutex
}

func NewStore(db *dbx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) emailLock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.emailLocks[h.Sum32()%emailLockStripes]
}

func nowStamp() string {
	return time.Now().UTC().Format(timeLayout)
}

// SaveCandidate inserts a new candidate or updates the existing row that
// shares the email (matched case-insensitively). The identifier survives
// updates. Returns the row id and whether an existing row was updated.
func (s *Store) SaveCandidate(ctx context.Context, c *Candidate) (string, bool, error) {
	key := strings.ToLower(strings.TrimSpace(c.Email))
	if key == "" {
		return "", false, errors.New("storage: candidate email required")
	}

	mu := s.emailLock(key)
	mu.Lock()
	defer mu.Unlock()

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", false, err
	}
	defer conn.Close()

	skills, err := json.Marshal(c.Skills)
	if err != nil {
		return "", false, fmt.Errorf("storage: encode skills: %w", err)
	}
	scores, err := json.Marshal(c.ConfidenceScores)
	if err != nil {
		return "", false, fmt.Errorf("storage: encode confidence scores: %w", err)
	}

	rs, err := conn.Execute(ctx, `SELECT id FROM candidates WHERE lower(email) = ?`, key)
	if err != nil {
		return "", false, err
	}
	existing, found, err := rs.FetchOne()
	if err != nil {
		return "", false, err
	}

	now := nowStamp()
	if found {
		id := existing.String("id")
		_, err = conn.Execute(ctx, `
			UPDATE candidates
			SET name = ?, email = ?, phone = ?, company = ?, designation = ?,
			    skills = ?, experience_years = ?, resume_path = ?,
			    confidence_scores = ?, status = ?, updated_at = ?
			WHERE id = ?`,
			c.Name, c.Email, c.Phone, c.Company, c.Designation,
			string(skills), c.ExperienceYears, c.ResumePath,
			string(scores), StatusParsed, now, id)
		if err != nil {
			return "", false, err
		}
		if err := conn.Commit(); err != nil {
			return "", false, err
		}
		return id, true, nil
	}

	id := uuid.NewString()
	_, err = conn.Execute(ctx, `
		INSERT INTO candidates
			(id, name, email, phone, company, designation, skills,
			 experience_years, resume_path, confidence_scores,
			 status, document_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, c.Phone, c.Company, c.Designation, string(skills),
		c.ExperienceYears, c.ResumePath, string(scores),
		StatusParsed, DocStatusNotRequested, now, now)
	if err != nil {
		return "", false, err
	}
	if err := conn.Commit(); err != nil {
		return "", false, err
	}
	return id, false, nil
}

// ListCandidates returns the list-view projection of every candidate.
func (s *Store) ListCandidates(ctx context.Context) ([]CandidateSummary, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx, `SELECT id, name, email, company, status, document_status FROM candidates`)
	if err != nil {
		return nil, err
	}
	rows, err := rs.FetchAll()
	if err != nil {
		return nil, err
	}

	out := make([]CandidateSummary, 0, len(rows))
	for _, row := range rows {
		summary := CandidateSummary{
			ID:             row.String("id"),
			Name:           row.String("name"),
			Email:          row.String("email"),
			Company:        row.String("company"),
			Status:         row.String("status"),
			DocumentStatus: row.String("document_status"),
		}
		if summary.DocumentStatus == "" {
			summary.DocumentStatus = DocStatusNotRequested
		}
		out = append(out, summary)
	}
	return out, nil
}

const candidateColumns = `id, name, email, phone, company, designation,
	skills, experience_years, resume_path, confidence_scores,
	status, document_status, document_requested_at, documents_submitted_at,
	created_at, updated_at`

// GetCandidate returns the full record for one candidate id.
func (s *Store) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	row, found, err := rs.FetchOne()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return scanCandidate(row), nil
}

// GetCandidateByEmail looks a candidate up by its merge key.
func (s *Store) GetCandidateByEmail(ctx context.Context, email string) (*Candidate, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE lower(email) = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	row, found, err := rs.FetchOne()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return scanCandidate(row), nil
}

// GetCandidateName returns just the display name, for the public
// candidate-facing page. Nothing else leaks through this path.
func (s *Store) GetCandidateName(ctx context.Context, id string) (string, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx, `SELECT name FROM candidates WHERE id = ?`, id)
	if err != nil {
		return "", err
	}
	row, found, err := rs.FetchOne()
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return row.String("name"), nil
}

// CountByEmail reports how many rows share an email (case-insensitive).
func (s *Store) CountByEmail(ctx context.Context, email string) (int, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx,
		`SELECT count(id) AS n FROM candidates WHERE lower(email) = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return 0, err
	}
	row, found, err := rs.FetchOne()
	if err != nil || !found {
		return 0, err
	}
	return row.Int("n"), nil
}

func scanCandidate(row dbx.Row) *Candidate {
	c := &Candidate{
		ID:                   row.String("id"),
		Name:                 row.String("name"),
		Email:                row.String("email"),
		Phone:                row.String("phone"),
		Company:              row.String("company"),
		Designation:          row.String("designation"),
		ExperienceYears:      row.Int("experience_years"),
		ResumePath:           row.String("resume_path"),
		Status:               row.String("status"),
		DocumentStatus:       row.String("document_status"),
		DocumentRequestedAt:  row.String("document_requested_at"),
		DocumentsSubmittedAt: row.String("documents_submitted_at"),
		CreatedAt:            row.String("created_at"),
		UpdatedAt:            row.String("updated_at"),
	}
	c.Skills = []string{}
	if raw := row.String("skills"); raw != "" {
		json.Unmarshal([]byte(raw), &c.Skills)
	}
	c.ConfidenceScores = map[string]float64{}
	if raw := row.String("confidence_scores"); raw != "" {
		json.Unmarshal([]byte(raw), &c.ConfidenceScores)
	}
	if c.DocumentStatus == "" {
		c.DocumentStatus = DocStatusNotRequested
	}
	return c
}

// UpdateDocumentStatus moves the document workflow forward and stamps the
// matching timestamp column.
func (s *Store) UpdateDocumentStatus(ctx context.Context, candidateID, status string) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	now := nowStamp()
	var rs *dbx.ResultSet
	switch status {
	case DocStatusRequested:
		rs, err = conn.Execute(ctx, `
			UPDATE candidates SET document_status = ?, document_requested_at = ?, updated_at = ?
			WHERE id = ?`, status, now, now, candidateID)
	case DocStatusSubmitted:
		rs, err = conn.Execute(ctx, `
			UPDATE candidates SET document_status = ?, documents_submitted_at = ?, updated_at = ?
			WHERE id = ?`, status, now, now, candidateID)
	default:
		rs, err = conn.Execute(ctx, `
			UPDATE candidates SET document_status = ?, updated_at = ?
			WHERE id = ?`, status, now, candidateID)
	}
	if err != nil {
		return err
	}
	if rs.RowCount() == 0 {
		return ErrNotFound
	}
	return conn.Commit()
}

// InsertDocument records one uploaded supporting document.
func (s *Store) InsertDocument(ctx context.Context, d *Document) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.VerificationStatus == "" {
		d.VerificationStatus = VerificationPending
	}
	d.UploadedAt = nowStamp()

	_, err = conn.Execute(ctx, `
		INSERT INTO documents
			(id, candidate_id, document_type, file_path, file_name, file_size, verification_status, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CandidateID, d.DocumentType, d.FilePath, d.FileName, d.FileSize,
		d.VerificationStatus, d.UploadedAt)
	if err != nil {
		return err
	}
	return conn.Commit()
}

// GetDocument returns one document row by id.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx, `
		SELECT id, candidate_id, document_type, file_path, file_name, file_size, verification_status, uploaded_at
		FROM documents WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	row, found, err := rs.FetchOne()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return scanDocument(row), nil
}

// ListDocumentsByCandidate returns a candidate's documents, newest first.
func (s *Store) ListDocumentsByCandidate(ctx context.Context, candidateID string) ([]Document, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rs, err := conn.Execute(ctx, `
		SELECT id, candidate_id, document_type, file_path, file_name, file_size, verification_status, uploaded_at
		FROM documents WHERE candidate_id = ?
		ORDER BY uploaded_at DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	rows, err := rs.FetchAll()
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, *scanDocument(row))
	}
	return out, nil
}

func scanDocument(row dbx.Row) *Document {
	return &Document{
		ID:                 row.String("id"),
		CandidateID:        row.String("candidate_id"),
		DocumentType:       row.String("document_type"),
		FilePath:           row.String("file_path"),
		FileName:           row.String("file_name"),
		FileSize:           row.Int64("file_size"),
		VerificationStatus: row.String("verification_status"),
		UploadedAt:         row.String("uploaded_at"),
	}
}

// InsertAgentLog appends one audit entry. Write-only from the core.
func (s *Store) InsertAgentLog(ctx context.Context, l *AgentLog) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = nowStamp()

	_, err = conn.Execute(ctx, `
		INSERT INTO agent_logs (id, candidate_id, action, tool_used, input, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CandidateID, l.Action, l.ToolUsed, l.Input, l.Output, l.CreatedAt)
	if err != nil {
		return err
	}
	return conn.Commit()
}

package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traqcheck/internal/dbx"
	"traqcheck/internal/storage"
)

// fakeExtractor returns a canned record or error and captures the text it
// was handed.
type fakeExtractor struct {
	record string
	err    error
	text   string
}

func (f *fakeExtractor) ExtractCandidate(_ context.Context, resumeText string) (string, error) {
	f.text = resumeText
	return f.record, f.err
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := dbx.Open(dbx.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, storage.InitSchema(context.Background(), db))
	return storage.NewStore(db)
}

func writeResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_HappyPath(t *testing.T) {
	store := newTestStore(t)
	extractor := &fakeExtractor{record: `{
		"name": "Priya Sharma",
		"email": "priya@example.com",
		"phone": "+919876543210",
		"company": "Acme Corp",
		"designation": "Backend Engineer",
		"skills": ["Go", "SQL"],
		"experience_years": 6,
		"confidence_scores": {"name": 0.97, "email": 0.99}
	}`}
	p := NewPipeline(store, extractor, time.Minute)

	path := writeResume(t, "Priya Sharma resume text")
	outcome, err := p.Process(context.Background(), path, path)
	require.NoError(t, err)

	assert.Equal(t, "Priya Sharma resume text", extractor.text)
	assert.Equal(t, "valid", outcome.ValidationStatus)
	assert.True(t, outcome.Validation.IsValid)
	assert.False(t, outcome.IsUpdate)
	assert.Equal(t, "New candidate saved successfully", outcome.DBStatus)
	assert.NotEmpty(t, outcome.Candidate.ID)
	assert.Equal(t, []string{"Go", "SQL"}, outcome.Candidate.Skills)
	assert.Equal(t, 6, outcome.Candidate.ExperienceYears)

	saved, err := store.GetCandidate(context.Background(), outcome.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", saved.Email)
	assert.Equal(t, path, saved.ResumePath)
	assert.InDelta(t, 0.97, saved.ConfidenceScores["name"], 1e-9)
}

func TestPipeline_InvalidRecordStillPersisted(t *testing.T) {
	store := newTestStore(t)
	extractor := &fakeExtractor{record: `{
		"name": "No Phone",
		"email": "nophone@example.com"
	}`}
	p := NewPipeline(store, extractor, time.Minute)

	path := writeResume(t, "resume")
	outcome, err := p.Process(context.Background(), path, path)
	require.NoError(t, err)

	assert.Equal(t, "invalid", outcome.ValidationStatus)
	assert.False(t, outcome.Validation.IsValid)
	assert.Equal(t, []string{"phone"}, outcome.Validation.MissingFields())

	saved, err := store.GetCandidateByEmail(context.Background(), "nophone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "No Phone", saved.Name)
}

func TestPipeline_ReuploadMergesByEmailCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	extractor := &fakeExtractor{record: `{
		"name": "Priya Sharma",
		"email": "Priya@Example.com",
		"phone": "+919876543210"
	}`}
	p := NewPipeline(store, extractor, time.Minute)

	path := writeResume(t, "v1")
	first, err := p.Process(context.Background(), path, path)
	require.NoError(t, err)
	require.False(t, first.IsUpdate)

	extractor.record = `{
		"name": "Priya S. Sharma",
		"email": "priya@example.com",
		"phone": "+919876543210",
		"company": "New Corp"
	}`
	second, err := p.Process(context.Background(), path, path)
	require.NoError(t, err)

	assert.True(t, second.IsUpdate)
	assert.Equal(t, "Candidate already existed - data updated", second.DBStatus)
	assert.Equal(t, first.Candidate.ID, second.Candidate.ID)

	saved, err := store.GetCandidate(context.Background(), first.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya S. Sharma", saved.Name)
	assert.Equal(t, "New Corp", saved.Company)
}

func TestPipeline_ExtractionFailure(t *testing.T) {
	store := newTestStore(t)
	extractor := &fakeExtractor{err: errors.New("model unavailable")}
	p := NewPipeline(store, extractor, time.Minute)

	path := writeResume(t, "resume")
	_, err := p.Process(context.Background(), path, path)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageRecordExtracted, stageErr.Stage)
	assert.Nil(t, stageErr.Validation)
}

func TestPipeline_MissingFileFailsAtTextExtraction(t *testing.T) {
	store := newTestStore(t)
	p := NewPipeline(store, &fakeExtractor{}, time.Minute)

	_, err := p.Process(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), "ref")
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageTextExtracted, stageErr.Stage)
}

func TestPipeline_UnmergableRecordFailsWithDiagnostics(t *testing.T) {
	store := newTestStore(t)
	extractor := &fakeExtractor{record: `{"name": "No Email", "phone": "+919876543210"}`}
	p := NewPipeline(store, extractor, time.Minute)

	path := writeResume(t, "resume")
	_, err := p.Process(context.Background(), path, path)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StagePersisted, stageErr.Stage)
	require.NotNil(t, stageErr.Validation)
	assert.Equal(t, []string{"email"}, stageErr.Validation.MissingFields())
}

func TestRecordFromJSON_Defensive(t *testing.T) {
	c := recordFromJSON(`{
		"name": {"value": "Wrapped Name", "confidence": 0.9},
		"email": "e@x.io",
		"skills": [{"value": "Go"}, "SQL", ""],
		"experience_years": {"value": "12"},
		"confidence_scores": {"name": 0.9, "email": "0.8"}
	}`)

	assert.Equal(t, "Wrapped Name", c.Name)
	assert.Equal(t, "e@x.io", c.Email)
	assert.Equal(t, []string{"Go", "SQL"}, c.Skills)
	assert.Equal(t, 12, c.ExperienceYears)
	assert.InDelta(t, 0.9, c.ConfidenceScores["name"], 1e-9)
	assert.InDelta(t, 0.8, c.ConfidenceScores["email"], 1e-9)

	empty := recordFromJSON(`garbage`)
	assert.Empty(t, empty.Name)
	assert.Empty(t, empty.Skills)
}

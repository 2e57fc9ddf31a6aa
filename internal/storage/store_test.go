package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traqcheck/internal/dbx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := dbx.Open(dbx.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, InitSchema(context.Background(), db))
	return NewStore(db)
}

func sampleCandidate(email string) *Candidate {
	return &Candidate{
		Name:             "Priya Sharma",
		Email:            email,
		Phone:            "+919876543210",
		Company:          "Acme Corp",
		Designation:      "Backend Engineer",
		Skills:           []string{"Go", "SQL"},
		ExperienceYears:  6,
		ResumePath:       "uploads/resumes/priya.pdf",
		ConfidenceScores: map[string]float64{"name": 0.95},
	}
}

func TestSaveCandidate_InsertThenGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, isUpdate, err := store.SaveCandidate(ctx, sampleCandidate("priya@example.com"))
	require.NoError(t, err)
	assert.False(t, isUpdate)
	assert.NotEmpty(t, id)

	got, err := store.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", got.Name)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, 6, got.ExperienceYears)
	assert.Equal(t, StatusParsed, got.Status)
	assert.Equal(t, DocStatusNotRequested, got.DocumentStatus)
	assert.InDelta(t, 0.95, got.ConfidenceScores["name"], 1e-9)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestSaveCandidate_UpdateKeepsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _, err := store.SaveCandidate(ctx, sampleCandidate("priya@example.com"))
	require.NoError(t, err)

	updated := sampleCandidate("priya@example.com")
	updated.Company = "New Corp"
	id2, isUpdate, err := store.SaveCandidate(ctx, updated)
	require.NoError(t, err)
	assert.True(t, isUpdate)
	assert.Equal(t, id, id2)

	n, err := store.CountByEmail(ctx, "priya@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New Corp", got.Company)
}

func TestSaveCandidate_EmailMatchIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _, err := store.SaveCandidate(ctx, sampleCandidate("Priya@Example.com"))
	require.NoError(t, err)

	id2, isUpdate, err := store.SaveCandidate(ctx, sampleCandidate("priya@example.COM"))
	require.NoError(t, err)
	assert.True(t, isUpdate)
	assert.Equal(t, id, id2)

	n, err := store.CountByEmail(ctx, "PRIYA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveCandidate_EmailRequired(t *testing.T) {
	store := newTestStore(t)
	c := sampleCandidate("")
	_, _, err := store.SaveCandidate(context.Background(), c)
	assert.Error(t, err)
}

func TestSaveCandidate_ConcurrentSameEmailYieldsOneRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := sampleCandidate("race@example.com")
			c.Name = fmt.Sprintf("Writer %d", i)
			_, _, errs[i] = store.SaveCandidate(ctx, c)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	n, err := store.CountByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveCandidate_ManyDistinctEmailsShareBoundedLocks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// More distinct emails than lock stripes; every save must land in
	// its own row even when stripes are shared.
	const candidates = emailLockStripes + 16
	var wg sync.WaitGroup
	errs := make([]error, candidates)
	for i := 0; i < candidates; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := sampleCandidate(fmt.Sprintf("person%d@example.com", i))
			c.Name = fmt.Sprintf("Person %d", i)
			_, _, errs[i] = store.SaveCandidate(ctx, c)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "candidate %d", i)
	}

	list, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, list, candidates)
}

func TestGetCandidate_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetCandidate(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCandidates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.SaveCandidate(ctx, sampleCandidate("a@example.com"))
	require.NoError(t, err)
	b := sampleCandidate("b@example.com")
	b.Name = "Ravi Kumar"
	_, _, err = store.SaveCandidate(ctx, b)
	require.NoError(t, err)

	list, err := store.ListCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, StatusParsed, s.Status)
		assert.Equal(t, DocStatusNotRequested, s.DocumentStatus)
	}
}

func TestUpdateDocumentStatus_StampsTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _, err := store.SaveCandidate(ctx, sampleCandidate("doc@example.com"))
	require.NoError(t, err)

	require.NoError(t, store.UpdateDocumentStatus(ctx, id, DocStatusRequested))
	got, err := store.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, DocStatusRequested, got.DocumentStatus)
	assert.NotEmpty(t, got.DocumentRequestedAt)
	assert.Empty(t, got.DocumentsSubmittedAt)

	require.NoError(t, store.UpdateDocumentStatus(ctx, id, DocStatusSubmitted))
	got, err = store.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, DocStatusSubmitted, got.DocumentStatus)
	assert.NotEmpty(t, got.DocumentsSubmittedAt)
}

func TestUpdateDocumentStatus_UnknownCandidate(t *testing.T) {
	store := newTestStore(t)
	err := store.UpdateDocumentStatus(context.Background(), "missing", DocStatusRequested)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocuments_InsertGetList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	candID, _, err := store.SaveCandidate(ctx, sampleCandidate("docs@example.com"))
	require.NoError(t, err)

	pan := &Document{
		CandidateID:  candID,
		DocumentType: "PAN",
		FilePath:     "uploads/documents/x_PAN.pdf",
		FileName:     "pan.pdf",
		FileSize:     1234,
	}
	require.NoError(t, store.InsertDocument(ctx, pan))
	require.NotEmpty(t, pan.ID)
	assert.Equal(t, VerificationPending, pan.VerificationStatus)

	aadhaar := &Document{
		CandidateID:  candID,
		DocumentType: "AADHAAR",
		FilePath:     "uploads/documents/x_AADHAAR.pdf",
		FileName:     "aadhaar.pdf",
		FileSize:     2345,
	}
	require.NoError(t, store.InsertDocument(ctx, aadhaar))

	got, err := store.GetDocument(ctx, pan.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAN", got.DocumentType)
	assert.Equal(t, int64(1234), got.FileSize)

	list, err := store.ListDocumentsByCandidate(ctx, candID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsertAgentLog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	candID, _, err := store.SaveCandidate(ctx, sampleCandidate("log@example.com"))
	require.NoError(t, err)

	entry := &AgentLog{
		CandidateID: candID,
		Action:      "DOCUMENT_REQUEST_SENT",
		ToolUsed:    "send_email_smtp",
		Input:       `{"to_email": "log@example.com"}`,
		Output:      `{"success": true}`,
	}
	require.NoError(t, store.InsertAgentLog(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.CreatedAt)
}

package resume

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tidwall/gjson"

	"traqcheck/internal/storage"
)

// Stage names the steps of one upload's linear state machine.
type Stage string

const (
	StageReceived        Stage = "RECEIVED"
	StageTextExtracted   Stage = "TEXT_EXTRACTED"
	StageRecordExtracted Stage = "RECORD_EXTRACTED"
	StageValidated       Stage = "VALIDATED"
	StagePersisted       Stage = "PERSISTED"
)

// Extractor is the external LLM collaborator. Its output is untrusted:
// the pipeline never assumes fields are present or well-typed.
type Extractor interface {
	ExtractCandidate(ctx context.Context, resumeText string) (string, error)
}

// StageError reports which step failed and carries whatever validation
// diagnostics were computed before the failure.
type StageError struct {
	Stage      Stage
	Err        error
	Validation *ValidationResult
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Outcome is the unified result handed back to the HTTP boundary after a
// successful run.
type Outcome struct {
	Candidate        *storage.Candidate
	Validation       ValidationResult
	ValidationStatus string
	IsUpdate         bool
	DBStatus         string
}

// Pipeline drives one upload from file to persisted candidate:
// RECEIVED -> TEXT_EXTRACTED -> RECORD_EXTRACTED -> VALIDATED -> PERSISTED.
type Pipeline struct {
	store      *storage.Store
	extractor  Extractor
	llmTimeout time.Duration
}

func NewPipeline(store *storage.Store, extractor Extractor, llmTimeout time.Duration) *Pipeline {
	return &Pipeline{store: store, extractor: extractor, llmTimeout: llmTimeout}
}

// Process runs the full pipeline for one uploaded resume. resumeRef is
// the stored reference persisted with the candidate (local path or URL).
// An invalid-but-parsable record is still persisted, with its validation
// verdict folded in; errors carry the failing stage and any diagnostics.
func (p *Pipeline) Process(ctx context.Context, filePath, resumeRef string) (*Outcome, error) {
	text, err := ExtractText(filePath)
	if err != nil {
		return nil, &StageError{Stage: StageTextExtracted, Err: err}
	}
	log.Printf("pipeline: extracted %d characters from %s", len(text), filePath)

	llmCtx, cancel := context.WithTimeout(ctx, p.llmTimeout)
	defer cancel()
	rawRecord, err := p.extractor.ExtractCandidate(llmCtx, text)
	if err != nil {
		return nil, &StageError{Stage: StageRecordExtracted, Err: err}
	}

	validation := Validate(rawRecord)
	status := "invalid"
	if validation.IsValid {
		status = "valid"
	}
	log.Printf("pipeline: validation %s (confidence %.2f)", status, validation.OverallConfidence)

	candidate := recordFromJSON(rawRecord)
	candidate.ResumePath = resumeRef

	id, isUpdate, err := p.store.SaveCandidate(ctx, candidate)
	if err != nil {
		return nil, &StageError{Stage: StagePersisted, Err: err, Validation: &validation}
	}
	candidate.ID = id

	dbStatus := "New candidate saved successfully"
	if isUpdate {
		dbStatus = "Candidate already existed - data updated"
	}

	return &Outcome{
		Candidate:        candidate,
		Validation:       validation,
		ValidationStatus: status,
		IsUpdate:         isUpdate,
		DBStatus:         dbStatus,
	}, nil
}

// recordFromJSON builds a candidate from the raw extraction document,
// tolerating missing keys, nested {value: ...} wrappers and loosely typed
// numbers.
func recordFromJSON(rawRecord string) *storage.Candidate {
	doc := gjson.Parse(rawRecord)

	c := &storage.Candidate{
		Name:        FieldValue(doc, "name"),
		Email:       FieldValue(doc, "email"),
		Phone:       FieldValue(doc, "phone"),
		Company:     FieldValue(doc, "company"),
		Designation: FieldValue(doc, "designation"),
		Skills:      []string{},
	}

	years := doc.Get("experience_years")
	if years.IsObject() {
		years = years.Get("value")
	}
	if n := int(years.Int()); n > 0 {
		c.ExperienceYears = n
	}

	doc.Get("skills").ForEach(func(_, v gjson.Result) bool {
		skill := v
		if skill.IsObject() {
			skill = skill.Get("value")
		}
		if s := skill.String(); s != "" {
			c.Skills = append(c.Skills, s)
		}
		return true
	})

	c.ConfidenceScores = map[string]float64{}
	doc.Get("confidence_scores").ForEach(func(k, v gjson.Result) bool {
		c.ConfidenceScores[k.String()] = v.Float()
		return true
	})

	return c
}

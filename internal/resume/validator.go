package resume

import (
	"math"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

	phoneSeparators = strings.NewReplacer(" ", "", "\t", "", "-", "", "(", "", ")", "")
)

// mandatoryFields are the three fields a candidate record must carry.
var mandatoryFields = []string{"name", "email", "phone"}

// FieldCheck records presence and the raw value of one mandatory field.
type FieldCheck struct {
	Present bool   `json:"present"`
	Value   string `json:"value"`
}

// FormatValidation carries the contact-field format checks.
type FormatValidation struct {
	EmailValid bool `json:"email_format"`
	PhoneValid bool `json:"phone_format"`
}

// ValidationResult is computed fresh on every call and never persisted;
// only the confidence and validity verdict are folded into the candidate.
type ValidationResult struct {
	IsValid           bool                  `json:"is_valid"`
	MandatoryFields   map[string]FieldCheck `json:"mandatory_fields"`
	FormatValidation  FormatValidation      `json:"format_validation"`
	OverallConfidence float64               `json:"overall_confidence"`
	Error             string                `json:"error,omitempty"`
}

// MissingFields lists the mandatory fields that were absent, for failure
// diagnostics.
func (r ValidationResult) MissingFields() []string {
	var missing []string
	for _, f := range mandatoryFields {
		if !r.MandatoryFields[f].Present {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks a candidate JSON document produced by the extraction
// step. The input is untrusted: fields may be absent, wrapped in a nested
// {value: ...} object, or of the wrong type. Unparsable input yields an
// invalid result, never a panic.
//
// Scoring: presence of the three mandatory fields carries 60% of the
// confidence, field formats the remaining 40% (20% email, 20% phone).
// A record is valid only when every mandatory field is present and at
// least one contact field has a valid format.
func Validate(candidateJSON string) ValidationResult {
	result := ValidationResult{MandatoryFields: map[string]FieldCheck{}}

	if !gjson.Valid(candidateJSON) {
		result.Error = "candidate data is not valid JSON"
		return result
	}
	doc := gjson.Parse(candidateJSON)
	if !doc.IsObject() {
		result.Error = "candidate data is not a JSON object"
		return result
	}

	present := 0
	for _, field := range mandatoryFields {
		value := FieldValue(doc, field)
		check := FieldCheck{Present: value != "", Value: value}
		result.MandatoryFields[field] = check
		if check.Present {
			present++
		}
	}

	email := result.MandatoryFields["email"].Value
	result.FormatValidation.EmailValid = email != "" && emailRe.MatchString(email)

	phone := phoneSeparators.Replace(result.MandatoryFields["phone"].Value)
	result.FormatValidation.PhoneValid = phone != "" && phoneRe.MatchString(phone)

	score := 0.6 * float64(present) / float64(len(mandatoryFields))
	if result.FormatValidation.EmailValid {
		score += 0.2
	}
	if result.FormatValidation.PhoneValid {
		score += 0.2
	}
	result.OverallConfidence = math.Round(score*100) / 100

	result.IsValid = present == len(mandatoryFields) &&
		(result.FormatValidation.EmailValid || result.FormatValidation.PhoneValid)

	return result
}

// FieldValue pulls a field out of an extraction document, unwrapping the
// nested {value: ...} shape some model responses use, and trimming space.
func FieldValue(doc gjson.Result, field string) string {
	r := doc.Get(field)
	if r.IsObject() {
		r = r.Get("value")
	}
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(r.String())
}

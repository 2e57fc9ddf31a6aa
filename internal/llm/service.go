package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderNone   Provider = "none"
)

// Service calls the configured LLM provider. Its output is always treated
// as untrusted input by callers; nothing here guarantees field presence.
type Service struct {
	provider Provider
	apiKey   string
	model    string
	http     *resty.Client
}

func NewService(provider, apiKey, model string, timeout time.Duration) *Service {
	return &Service{
		provider: Provider(provider),
		apiKey:   apiKey,
		model:    model,
		http:     resty.New().SetTimeout(timeout),
	}
}

// ExtractCandidate asks the LLM to turn resume text into a candidate JSON
// document. The returned string is raw model output (cleaned of markdown
// fences) and may be malformed or incomplete.
func (s *Service) ExtractCandidate(ctx context.Context, resumeText string) (string, error) {
	if s.provider == ProviderNone {
		return "", fmt.Errorf("llm: provider not configured")
	}

	response, err := s.generate(ctx, buildExtractionPrompt(resumeText))
	if err != nil {
		return "", err
	}
	return cleanJSON(response), nil
}

// Email is a generated document-request email.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// GenerateDocumentRequestEmail drafts a personalized document-request
// email. Without a provider a deterministic template is used, so the
// workflow keeps working in unconfigured environments.
func (s *Service) GenerateDocumentRequestEmail(ctx context.Context, candidateName, uploadLink, deadline string) (Email, error) {
	if s.provider == ProviderNone {
		return templateEmail(candidateName, uploadLink, deadline), nil
	}

	response, err := s.generate(ctx, buildEmailPrompt(candidateName, uploadLink, deadline))
	if err != nil {
		log.Printf("llm: email generation failed, falling back to template: %v", err)
		return templateEmail(candidateName, uploadLink, deadline), nil
	}

	doc := gjson.Parse(cleanJSON(response))
	subject := strings.TrimSpace(doc.Get("subject").String())
	body := strings.TrimSpace(doc.Get("body").String())
	if subject == "" || body == "" {
		log.Println("llm: email response missing subject or body, using template")
		return templateEmail(candidateName, uploadLink, deadline), nil
	}
	return Email{Subject: subject, Body: body}, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	switch s.provider {
	case ProviderGemini:
		return s.callGemini(ctx, prompt)
	case ProviderOpenAI:
		return s.callOpenAI(ctx, prompt)
	default:
		return "", fmt.Errorf("llm: unknown provider: %s", s.provider)
	}
}

func (s *Service) callGemini(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", s.model)

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":      0.3,
			"responseMimeType": "application/json",
		},
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", s.apiKey).
		SetBody(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("llm: gemini request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("llm: gemini status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.GetBytes(resp.Body(), "candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", fmt.Errorf("llm: gemini returned no text")
	}
	return text, nil
}

func (s *Service) callOpenAI(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a resume parser. Return only valid JSON."},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.1,
		"response_format": map[string]string{"type": "json_object"},
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(s.apiKey).
		SetBody(body).
		Post("https://api.openai.com/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm: openai request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("llm: openai status %d: %s", resp.StatusCode(), resp.String())
	}

	text := gjson.GetBytes(resp.Body(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("llm: openai returned no content")
	}
	return text, nil
}

// cleanJSON strips the markdown fences some models wrap around JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func templateEmail(candidateName, uploadLink, deadline string) Email {
	if candidateName == "" {
		candidateName = "Candidate"
	}
	return Email{
		Subject: "Document Request: PAN and Aadhaar Card",
		Body: fmt.Sprintf(
			"Dear %s,\n\n"+
				"As part of your verification process, please upload your PAN Card and Aadhaar Card using the secure link below:\n\n"+
				"%s\n\n"+
				"Kindly submit the documents by %s.\n\n"+
				"Best regards,\nTraqCheck Verification Team",
			candidateName, uploadLink, deadline),
	}
}

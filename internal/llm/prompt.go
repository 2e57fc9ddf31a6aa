package llm

import "fmt"

func buildExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are a resume parsing assistant for a candidate verification system.
Extract candidate information from the resume below.

Resume Text:
"""
%s
"""

Return ONLY valid JSON (no markdown, no explanation) with this exact structure:
{
  "name": "Full name of the candidate",
  "email": "Email address",
  "phone": "Phone number with country code if available",
  "company": "Current or most recent company",
  "designation": "Current or most recent job title",
  "skills": ["Technical skill names"],
  "experience_years": 0,
  "confidence_scores": {
    "name": 0.95,
    "email": 0.95,
    "phone": 0.9,
    "company": 0.8,
    "designation": 0.8,
    "skills": 0.85,
    "experience_years": 0.7
  }
}

Important:
- Extract information exactly as it appears in the resume
- experience_years is the total years of professional experience, as an integer
- Provide a confidence score between 0.0 and 1.0 for each extracted field
- Use "" for missing text fields and [] when no skills are found`, resumeText)
}

func buildEmailPrompt(candidateName, uploadLink, deadline string) string {
	return fmt.Sprintf(`Generate a professional document request email for a candidate verification workflow.

Candidate name: %s
Upload link: %s
Deadline: %s

The email requests the candidate's PAN Card and Aadhaar Card, includes the upload
link and the deadline, and keeps a polite, professional tone.

Return ONLY valid JSON with this structure:
{
  "subject": "Email subject line",
  "body": "Full plain-text email body"
}`, candidateName, uploadLink, deadline)
}

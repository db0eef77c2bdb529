package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"healthbridge/internal/agent"
)

var ErrEmptyMessage = errors.New("message or at least one image is required")

const parseFailure = "Failed to parse response as JSON"

const promptTemplate = `You are an AI healthcare triage assistant.
Analyze the patient's message and any uploaded medical images to provide accurate triage.

Patient's message: %q
Language preference: %s

Instructions:
- Carefully analyze any uploaded images for medical symptoms, injuries, or conditions
- Summarize the case clearly based on both the message and visual information
- Classify urgency: CRITICAL / MODERATE / NOT CRITICAL
- Explain your reasoning for the classification
- Suggest safe, generic care steps (e.g., paracetamol for pain, hydration, wound cleaning)
- Recommend appropriate next steps based on severity
- Write the summary, reasoning and care steps in the language preference above

IMPORTANT: Always err on the side of caution. If in doubt, recommend seeking professional medical attention.

Return your response as valid JSON only:
{
  "classification": "CRITICAL | MODERATE | NOT CRITICAL",
  "summary": "Brief description of the case",
  "reasoning": "Explanation for the urgency classification",
  "recommended_care": ["List of safe care suggestions"],
  "next_steps": "Rest at Home | Visit Clinic | Go to ER"
}
`

type Service interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

type service struct {
	llm    agent.VisionClient
	logger zerolog.Logger
}

func NewService(llm agent.VisionClient, logger zerolog.Logger) Service {
	return &service{llm: llm, logger: logger}
}

func buildPrompt(message, language string) string {
	if language == "" {
		language = "en"
	}
	return fmt.Sprintf(promptTemplate, message, language)
}

func (s *service) Analyze(ctx context.Context, req Request) (Result, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" && len(req.Images) == 0 {
		return Result{}, ErrEmptyMessage
	}

	images := make([]agent.Image, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, agent.Image{MIMEType: img.MIMEType, Data: img.Data})
	}

	reply, err := s.llm.Complete(ctx, buildPrompt(message, req.Language), images)
	if err != nil {
		return Result{}, fmt.Errorf("triage model: %w", err)
	}

	res := parseReply(reply)
	if res.Unparsed != nil {
		s.logger.Warn().Int("reply_len", len(reply)).Msg("triage reply was not valid JSON")
	} else {
		s.logger.Info().
			Str("classification", string(res.Assessment.Classification)).
			Int("images", len(images)).
			Msg("triage completed")
	}
	return res, nil
}

var fenceRe = regexp.MustCompile("```(?:json)?\\n?")

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON.
func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

// parseReply never fabricates a classification: anything that does not
// decode into an Assessment with a known class comes back as Unparsed.
func parseReply(reply string) Result {
	var a Assessment
	if err := json.Unmarshal([]byte(stripFences(reply)), &a); err != nil || !a.Classification.Valid() {
		return Result{Unparsed: &Unparsed{Raw: reply, Error: parseFailure}}
	}
	return Result{Assessment: &a}
}

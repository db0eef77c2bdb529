package triage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"healthbridge/internal/agent"
)

type fakeLLM struct {
	reply  string
	err    error
	prompt string
	images []agent.Image
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, images []agent.Image) (string, error) {
	f.prompt = prompt
	f.images = images
	return f.reply, f.err
}

const validReply = `{"classification":"MODERATE","summary":"Infected cut","reasoning":"Redness spreading","recommended_care":["Clean the wound","Keep it dry"],"next_steps":"Visit Clinic"}`

func TestParseReply(t *testing.T) {
	want := &Assessment{
		Classification:  ClassModerate,
		Summary:         "Infected cut",
		Reasoning:       "Redness spreading",
		RecommendedCare: []string{"Clean the wound", "Keep it dry"},
		NextSteps:       "Visit Clinic",
	}
	tests := []struct {
		name  string
		reply string
	}{
		{"plain", validReply},
		{"json fence", "```json\n" + validReply + "\n```"},
		{"bare fence", "```\n" + validReply + "```"},
		{"padded", "\n\n  " + validReply + "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseReply(tt.reply)
			if res.Unparsed != nil {
				t.Fatalf("unexpected parse failure: %+v", res.Unparsed)
			}
			if diff := cmp.Diff(want, res.Assessment); diff != "" {
				t.Errorf("assessment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseReply_FailureNeverGuesses(t *testing.T) {
	for _, reply := range []string{
		"I think you should see a doctor.",
		`{"classification":"PROBABLY FINE","summary":"x"}`,
		`{"summary":"no class"}`,
		"",
	} {
		res := parseReply(reply)
		if res.Assessment != nil {
			t.Errorf("%q: expected no assessment, got %+v", reply, res.Assessment)
			continue
		}
		if res.Unparsed.Raw != reply || res.Unparsed.Error != parseFailure {
			t.Errorf("%q: unexpected fallback %+v", reply, res.Unparsed)
		}
	}
}

func TestService_Analyze(t *testing.T) {
	llm := &fakeLLM{reply: validReply}
	svc := NewService(llm, zerolog.Nop())

	res, err := svc.Analyze(context.Background(), Request{
		Message:  "  my cut is red  ",
		Language: "ar",
		Images:   []Image{{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Assessment == nil || res.Assessment.Classification != ClassModerate {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(llm.prompt, `"my cut is red"`) || !strings.Contains(llm.prompt, "Language preference: ar") {
		t.Errorf("prompt missing patient context:\n%s", llm.prompt)
	}
	if len(llm.images) != 1 || llm.images[0].MIMEType != "image/jpeg" {
		t.Errorf("images not forwarded: %+v", llm.images)
	}
}

func TestService_Analyze_Errors(t *testing.T) {
	svc := NewService(&fakeLLM{}, zerolog.Nop())
	if _, err := svc.Analyze(context.Background(), Request{Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}

	boom := errors.New("rate limited")
	svc = NewService(&fakeLLM{err: boom}, zerolog.Nop())
	if _, err := svc.Analyze(context.Background(), Request{Message: "help"}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestBuildPrompt_DefaultLanguage(t *testing.T) {
	if p := buildPrompt("x", ""); !strings.Contains(p, "Language preference: en") {
		t.Errorf("expected default language en:\n%s", p)
	}
}

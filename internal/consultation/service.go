package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthbridge/internal/triage"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type Service interface {
	// Record satisfies triage.Recorder.
	Record(ctx context.Context, patientID uuid.UUID, req triage.Request, res triage.Result) error
	History(ctx context.Context, patientID uuid.UUID, limit int) ([]Consultation, error)
	// Get hides consultations owned by someone else behind ErrNotFound.
	Get(ctx context.Context, patientID, id uuid.UUID) (*Consultation, error)
}

type service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) Service {
	return &service{repo: repo, logger: logger, now: time.Now}
}

// reply renders the assistant side of the exchange as stored history.
func reply(res triage.Result) string {
	switch {
	case res.Assessment != nil:
		a := res.Assessment
		parts := []string{a.Summary}
		if a.NextSteps != "" {
			parts = append(parts, "Next steps: "+a.NextSteps)
		}
		if len(a.RecommendedCare) > 0 {
			parts = append(parts, "Recommended care: "+strings.Join(a.RecommendedCare, "; "))
		}
		return strings.Join(parts, "\n")
	case res.Unparsed != nil:
		return res.Unparsed.Raw
	}
	return ""
}

func (s *service) Record(ctx context.Context, patientID uuid.UUID, req triage.Request, res triage.Result) error {
	now := s.now()
	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	c := &Consultation{
		ID:         uuid.New(),
		PatientID:  patientID,
		Language:   lang,
		ImageCount: len(req.Images),
		CreatedAt:  now,
		History: []Message{
			{Role: "user", Content: req.Message, Timestamp: now},
			{Role: "assistant", Content: reply(res), Timestamp: now},
		},
	}
	if a := res.Assessment; a != nil {
		c.Classification = string(a.Classification)
		c.Summary = a.Summary
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("save consultation: %w", err)
	}
	s.logger.Debug().Str("consultation_id", c.ID.String()).Str("classification", c.Classification).Msg("consultation recorded")
	return nil
}

func (s *service) History(ctx context.Context, patientID uuid.UUID, limit int) ([]Consultation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.ListByPatient(ctx, patientID, min(limit, MaxHistoryLimit))
}

func (s *service) Get(ctx context.Context, patientID, id uuid.UUID) (*Consultation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.PatientID != patientID {
		return nil, ErrNotFound
	}
	return c, nil
}

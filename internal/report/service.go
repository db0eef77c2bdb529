package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
)

// ValidationError is a client mistake; its message is safe to show.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type Service interface {
	Create(ctx context.Context, req CreateReportRequest) (*Detail, error)
	Get(ctx context.Context, reportID string) (*Detail, error)
	MedicationHistory(ctx context.Context, userID uuid.UUID) (*MedicationHistory, error)
	RenderPDF(ctx context.Context, reportID string) ([]byte, error)
}

type service struct {
	repo     Repository
	accounts account.Repository
	pdf      *PDFRenderer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, accounts account.Repository, pdf *PDFRenderer, logger zerolog.Logger) Service {
	return &service{repo: repo, accounts: accounts, pdf: pdf, logger: logger, now: time.Now}
}

func newReportID() string {
	return "RPT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *service) Create(ctx context.Context, req CreateReportRequest) (*Detail, error) {
	if req.UserID == uuid.Nil {
		return nil, &ValidationError{Msg: "userId is required"}
	}
	if len(req.Entries) == 0 {
		return nil, &ValidationError{Msg: "At least one entry is required"}
	}
	u, err := s.accounts.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, &ValidationError{Msg: "Patient not found"}
		}
		return nil, fmt.Errorf("lookup patient: %w", err)
	}
	if u.Role != account.RoleRefugee {
		return nil, &ValidationError{Msg: "Reports can only be created for refugees"}
	}

	now := s.now()
	doctor := strings.TrimSpace(req.DoctorName)
	rep := Report{ReportID: newReportID(), UserID: u.ID, DoctorName: doctor, CreatedAt: now}
	entries := make([]Entry, 0, len(req.Entries))
	for i, e := range req.Entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, &ValidationError{Msg: fmt.Sprintf("Entry %d: title is required", i+1)}
		}
		entries = append(entries, Entry{
			ID:           uuid.New(),
			Title:        title,
			Description:  strings.TrimSpace(e.Description),
			Prescription: strings.TrimSpace(e.Prescription),
			DoctorName:   doctor,
			VitalSigns:   e.VitalSigns,
			CreatedAt:    now,
		})
	}

	if err := s.repo.CreateReport(ctx, &rep, entries); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	s.logger.Info().Str("report_id", rep.ReportID).Str("user_id", u.ID.String()).Int("entries", len(entries)).Msg("report created")
	return &Detail{Report: rep, Entries: entries}, nil
}

func (s *service) Get(ctx context.Context, reportID string) (*Detail, error) {
	rep, err := s.repo.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, []string{rep.ReportID})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return &Detail{Report: *rep, Entries: entries}, nil
}

func (s *service) MedicationHistory(ctx context.Context, userID uuid.UUID) (*MedicationHistory, error) {
	reports, err := s.repo.ListReportsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReportID)
	}
	entries, err := s.repo.ListEntries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	h := BuildMedicationHistory(reports, entries, s.now())
	return &h, nil
}

func (s *service) RenderPDF(ctx context.Context, reportID string) ([]byte, error) {
	d, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	var patient string
	if p, err := s.accounts.GetRefugeeProfile(ctx, d.UserID); err == nil {
		patient = p.FullName()
	} else if !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("load patient: %w", err)
	}
	s.logger.Debug().Str("report_id", reportID).Msg("rendering report pdf")
	return s.pdf.Render(d, patient)
}

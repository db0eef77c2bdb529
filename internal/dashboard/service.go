package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
	"healthbridge/internal/consultation"
	"healthbridge/internal/report"
)

var ErrProfileNotFound = errors.New("profile not found")

const (
	maxRecentActivity = 5
	maxRecentMeds     = 10
	noReportDays      = 30
	minHealthScore    = 60
	healthScorePerDay = 2
	activeWindowDays  = 30
)

var emergencyContacts = []Contact{
	{Name: "Emergency Services", Number: "112", Type: "emergency"},
	{Name: "UNHCR Health Hotline", Number: "+961-1-123456", Type: "health"},
	{Name: "Mental Health Support", Number: "+961-1-234567", Type: "mental"},
}

var nextAppointment = Appointment{
	Clinic:   "UNHCR Primary Health Clinic",
	Type:     "General Checkup",
	Date:     "Tomorrow at 10:00 AM",
	Location: "Ras Beirut, Lebanon",
}

var dailyTip = Tip{
	Title:   "Stay Hydrated",
	Content: "Drink at least 8 glasses of clean water daily to maintain good health and prevent dehydration, especially in hot climates.",
}

type Service interface {
	Refugee(ctx context.Context, userID uuid.UUID) (*RefugeeDashboard, error)
	NGO(ctx context.Context) *NGODashboard
}

type service struct {
	accounts      account.Repository
	reports       report.Repository
	consultations consultation.Repository
	logger        zerolog.Logger
	now           func() time.Time
}

func NewService(accounts account.Repository, reports report.Repository, consultations consultation.Repository, logger zerolog.Logger) Service {
	return &service{accounts: accounts, reports: reports, consultations: consultations, logger: logger, now: time.Now}
}

// HealthScore decays two points per day since the last report, floored at 60.
func HealthScore(daysSinceLastReport int) int {
	return max(minHealthScore, 100-healthScorePerDay*daysSinceLastReport)
}

func daysSince(t, now time.Time) int {
	return int(now.Sub(t) / (24 * time.Hour))
}

func (s *service) Refugee(ctx context.Context, userID uuid.UUID) (*RefugeeDashboard, error) {
	u, err := s.accounts.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	profile, err := s.accounts.GetRefugeeProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	reports, err := s.reports.ListReportsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ReportID)
	}
	entries, err := s.reports.ListEntries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	now := s.now()
	days := noReportDays
	if len(reports) > 0 {
		days = daysSince(reports[0].CreatedAt, now)
	}

	chats, err := s.consultations.ListByPatient(ctx, userID, maxRecentActivity)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	chatCount, err := s.consultations.CountByPatient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count consultations: %w", err)
	}

	meds := report.BuildMedicationHistory(reports, entries, now).MedicationHistory
	if len(meds) > maxRecentMeds {
		meds = meds[:maxRecentMeds]
	}

	return &RefugeeDashboard{
		User: UserInfo{
			Name:     profile.FullName(),
			UniqueID: u.UniqueID,
			Country:  u.Country,
		},
		HealthScore: HealthScore(days),
		Stats: RefugeeStats{
			Consultations: len(reports) + chatCount,
			DaysActive:    min(activeWindowDays, max(1, activeWindowDays-days)),
		},
		RecentActivity:    recentActivity(reports, chats),
		MedicationHistory: meds,
		EmergencyContacts: append([]Contact(nil), emergencyContacts...),
		NextAppointment:   nextAppointment,
		DailyHealthTip:    dailyTip,
	}, nil
}

// recentActivity merges reports and AI consultations, newest first.
func recentActivity(reports []report.Report, chats []consultation.Consultation) []Activity {
	activity := make([]Activity, 0, len(reports)+len(chats))
	for _, r := range reports {
		activity = append(activity, Activity{
			ID:          "report_" + r.ReportID,
			Type:        "report",
			Title:       "Medical Report Created",
			Description: "Report ID: " + r.ReportID,
			Time:        r.CreatedAt,
			Status:      "completed",
		})
	}
	for _, c := range chats {
		activity = append(activity, Activity{
			ID:          "consultation_" + c.ID.String(),
			Type:        "consultation",
			Title:       "AI Health Consultation",
			Description: c.Label(),
			Time:        c.CreatedAt,
			Status:      "completed",
		})
	}
	slices.SortStableFunc(activity, func(a, b Activity) int { return b.Time.Compare(a.Time) })
	if len(activity) > maxRecentActivity {
		activity = activity[:maxRecentActivity]
	}
	return activity
}

func (s *service) NGO(context.Context) *NGODashboard {
	return &NGODashboard{
		Stats: NGOStats{
			TotalCases:         47,
			ActiveCases:        12,
			ResolvedCases:      35,
			UrgentCases:        3,
			TodayConsultations: 8,
			WeeklyGrowth:       15,
		},
		WeeklyData: []DayCount{
			{Day: "Mon", Cases: 4, Resolved: 3},
			{Day: "Tue", Cases: 6, Resolved: 4},
			{Day: "Wed", Cases: 8, Resolved: 6},
			{Day: "Thu", Cases: 5, Resolved: 7},
			{Day: "Fri", Cases: 7, Resolved: 5},
			{Day: "Sat", Cases: 3, Resolved: 2},
			{Day: "Sun", Cases: 4, Resolved: 3},
		},
		SeverityDistribution: []SeverityCount{
			{Name: "Mild", Value: 25, Color: "#10B981"},
			{Name: "Moderate", Value: 15, Color: "#F59E0B"},
			{Name: "Severe", Value: 7, Color: "#EF4444"},
		},
	}
}

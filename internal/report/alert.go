package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"healthbridge/internal/platform/twilio"
)

var (
	ErrMissingAlertFields = errors.New("missing required alert fields")
	ErrSMSNotConfigured   = errors.New("twilio not configured")
)

// SMSSender is satisfied by *twilio.Client.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (*twilio.Message, error)
}

type AlertRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	ReportID    string `json:"reportId"`
	PatientName string `json:"patientName"`
	ReportURL   string `json:"reportUrl"`
}

type RecipientResult struct {
	PhoneNumber  string `json:"phoneNumber"`
	MessageSID   string `json:"messageSid,omitempty"`
	Status       string `json:"status,omitempty"`
	Success      bool   `json:"success"`
	ErrorCode    *int   `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Error        string `json:"error,omitempty"`
}

type AlertDetails struct {
	From           string `json:"from"`
	TotalSent      int    `json:"totalSent"`
	TotalAttempted int    `json:"totalAttempted"`
}

type AlertResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	MessageSID string            `json:"messageSid,omitempty"`
	Status     string            `json:"status,omitempty"`
	Results    []RecipientResult `json:"results,omitempty"`
	Details    *AlertDetails     `json:"details,omitempty"`
}

type AlertConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	Doctors    []string
	// BaseURL prefixes report links that arrive as paths.
	BaseURL string
}

func (c AlertConfig) configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// demo reports whether credentials are placeholders; real SIDs start with AC.
func (c AlertConfig) demo() bool {
	return !strings.HasPrefix(c.AccountSID, "AC")
}

// Alerter texts a report link to the on-call doctors.
type Alerter struct {
	cfg    AlertConfig
	sender SMSSender
	logger zerolog.Logger
	now    func() time.Time
}

func NewAlerter(cfg AlertConfig, sender SMSSender, logger zerolog.Logger) *Alerter {
	return &Alerter{cfg: cfg, sender: sender, logger: logger, now: time.Now}
}

func (c AlertConfig) absoluteURL(link string) string {
	if c.BaseURL == "" || !strings.HasPrefix(link, "/") {
		return link
	}
	return strings.TrimRight(c.BaseURL, "/") + link
}

func alertBody(req AlertRequest) string {
	return fmt.Sprintf("Hi! Medical report %s for %s: %s", req.ReportID, req.PatientName, req.ReportURL)
}

func (a *Alerter) Send(ctx context.Context, req AlertRequest) (*AlertResult, error) {
	if req.PhoneNumber == "" || req.ReportID == "" || req.PatientName == "" || req.ReportURL == "" {
		return nil, ErrMissingAlertFields
	}
	if !a.cfg.configured() {
		return nil, ErrSMSNotConfigured
	}

	req.ReportURL = a.cfg.absoluteURL(req.ReportURL)
	body := alertBody(req)
	if a.cfg.demo() {
		a.logger.Info().
			Str("report_id", req.ReportID).
			Str("requested_by", req.PhoneNumber).
			Strs("recipients", a.cfg.Doctors).
			Str("body", body).
			Msg("demo mode: sms not sent")
		return &AlertResult{
			Success:    true,
			MessageSID: fmt.Sprintf("demo_message_%d", a.now().UnixMilli()),
			Status:     "queued",
			Message:    "SMS sent successfully to doctor (Demo Mode)",
		}, nil
	}
	if len(a.cfg.Doctors) == 0 {
		return nil, fmt.Errorf("%w: no doctor numbers", ErrSMSNotConfigured)
	}

	results := make([]RecipientResult, len(a.cfg.Doctors))
	g, gctx := errgroup.WithContext(ctx)
	for i, to := range a.cfg.Doctors {
		i, to := i, to
		g.Go(func() error {
			results[i] = a.sendOne(gctx, to, body)
			return nil
		})
	}
	_ = g.Wait()

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}
	a.logger.Info().Str("report_id", req.ReportID).Str("requested_by", req.PhoneNumber).Int("sent", sent).Int("attempted", len(results)).Msg("sms alert dispatched")

	return &AlertResult{
		Success: sent > 0,
		Message: fmt.Sprintf("SMS sent to %d/%d numbers", sent, len(results)),
		Results: results,
		Details: &AlertDetails{From: a.cfg.From, TotalSent: sent, TotalAttempted: len(results)},
	}, nil
}

// sendOne never fails the group; one bad number must not cancel the rest.
func (a *Alerter) sendOne(ctx context.Context, to, body string) RecipientResult {
	msg, err := a.sender.SendSMS(ctx, to, body)
	if err != nil {
		a.logger.Warn().Err(err).Str("to", to).Msg("sms send failed")
		return RecipientResult{PhoneNumber: to, Success: false, Error: err.Error()}
	}
	return RecipientResult{
		PhoneNumber:  to,
		MessageSID:   msg.SID,
		Status:       msg.Status,
		Success:      true,
		ErrorCode:    msg.ErrorCode,
		ErrorMessage: msg.ErrorMessage,
	}
}

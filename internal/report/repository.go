package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("report not found")

type Repository interface {
	CreateReport(ctx context.Context, r *Report, entries []Entry) error
	GetReport(ctx context.Context, reportID string) (*Report, error)
	ListReportsByUser(ctx context.Context, userID uuid.UUID) ([]Report, error)
	ListEntries(ctx context.Context, reportIDs []string) ([]Entry, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) CreateReport(ctx context.Context, rep *Report, entries []Entry) error {
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO medical_reports (report_id, user_id, doctor_name, created_at) VALUES ($1, $2, $3, $4)`,
		rep.ReportID, rep.UserID, rep.DoctorName, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = rep.CreatedAt
		}
		e.ReportID = rep.ReportID
		vitals, err := json.Marshal(e.VitalSigns)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO report_entries
				(id, report_id, title, description, prescription, doctor_name, vital_signs, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID, e.ReportID, e.Title, e.Description, e.Prescription, e.DoctorName, vitals, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	return tx.Commit()
}

func (r *postgresRepo) GetReport(ctx context.Context, reportID string) (*Report, error) {
	var rep Report
	err := r.db.QueryRowContext(ctx,
		`SELECT report_id, user_id, doctor_name, created_at FROM medical_reports WHERE report_id = $1`, reportID,
	).Scan(&rep.ReportID, &rep.UserID, &rep.DoctorName, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *postgresRepo) ListReportsByUser(ctx context.Context, userID uuid.UUID) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT report_id, user_id, doctor_name, created_at
		FROM medical_reports WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ReportID, &rep.UserID, &rep.DoctorName, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *postgresRepo) ListEntries(ctx context.Context, reportIDs []string) ([]Entry, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, report_id, title, description, prescription, doctor_name, vital_signs, created_at
		FROM report_entries WHERE report_id = ANY($1)
		ORDER BY created_at DESC`, pq.Array(reportIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var vitals []byte
		if err := rows.Scan(&e.ID, &e.ReportID, &e.Title, &e.Description, &e.Prescription, &e.DoctorName, &vitals, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(vitals) > 0 {
			if err := json.Unmarshal(vitals, &e.VitalSigns); err != nil {
				return nil, fmt.Errorf("failed to unmarshal vital signs: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

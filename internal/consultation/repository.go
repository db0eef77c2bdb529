package consultation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("consultation not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Save(ctx context.Context, c *Consultation) error
	// ListByPatient returns newest first; limit <= 0 means no limit.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]Consultation, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const columns = `id, patient_id, language, history, classification, summary, image_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanConsultation(row scanner) (*Consultation, error) {
	var c Consultation
	var historyJSON []byte
	err := row.Scan(&c.ID, &c.PatientID, &c.Language, &historyJSON, &c.Classification, &c.Summary, &c.ImageCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &c.History); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history: %w", err)
		}
	}
	return &c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM consultations WHERE id = $1`, id)
	c, err := scanConsultation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *postgresRepo) Save(ctx context.Context, c *Consultation) error {
	historyJSON, err := json.Marshal(c.History)
	if err != nil {
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO consultations (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			history = $4,
			classification = $5,
			summary = $6
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.PatientID, c.Language, historyJSON, c.Classification, c.Summary, c.ImageCount, c.CreatedAt)
	return err
}

func (r *postgresRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]Consultation, error) {
	query := `SELECT ` + columns + ` FROM consultations WHERE patient_id = $1 ORDER BY created_at DESC`
	args := []any{patientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Consultation{}
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM consultations WHERE patient_id = $1`, patientID).Scan(&n)
	return n, err
}

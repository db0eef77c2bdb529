package account

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

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GovernmentIDExists(ctx context.Context, governmentID string) (bool, error)
	CountUsersByCountry(ctx context.Context, country string) (int, error)
	CreateRefugee(ctx context.Context, u *User, p *RefugeeProfile) error
	CreateNGO(ctx context.Context, u *User, p *NGOProfile) error
	GetRefugeeProfile(ctx context.Context, userID uuid.UUID) (*RefugeeProfile, error)
	GetNGOProfile(ctx context.Context, userID uuid.UUID) (*NGOProfile, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const userColumns = `id, email, password_hash, role, unique_id, country, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.UniqueID, &u.Country, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *postgresRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *postgresRepo) GovernmentIDExists(ctx context.Context, governmentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM refugee_profiles WHERE government_id = $1)`, governmentID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) CountUsersByCountry(ctx context.Context, country string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE country = $1`, country).Scan(&n)
	return n, err
}

func insertUser(ctx context.Context, tx *sql.Tx, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.UniqueID, u.Country, u.CreatedAt)
	return err
}

// withTx runs fn in a transaction; a user row never outlives a failed
// profile insert.
func (r *postgresRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapPQError(err)
	}
	return tx.Commit()
}

func (r *postgresRepo) CreateRefugee(ctx context.Context, u *User, p *RefugeeProfile) error {
	languages, err := json.Marshal(nonNil(p.Languages))
	if err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertUser(ctx, tx, u); err != nil {
			return err
		}
		p.UserID = u.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO refugee_profiles
				(user_id, first_name, last_name, government_id, government_id_type, phone, address, languages)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.UserID, p.FirstName, p.LastName, p.GovernmentID, p.GovernmentIDType, p.Phone, p.Address, languages)
		return err
	})
}

func (r *postgresRepo) CreateNGO(ctx context.Context, u *User, p *NGOProfile) error {
	services, err := json.Marshal(nonNil(p.ServicesOffered))
	if err != nil {
		return err
	}
	specs, err := json.Marshal(nonNil(p.Specializations))
	if err != nil {
		return err
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertUser(ctx, tx, u); err != nil {
			return err
		}
		p.UserID = u.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ngo_profiles
				(user_id, organization_name, services_offered, specializations, contact_phone, address)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.UserID, p.OrganizationName, services, specs, p.ContactPhone, p.Address)
		return err
	})
}

func (r *postgresRepo) GetRefugeeProfile(ctx context.Context, userID uuid.UUID) (*RefugeeProfile, error) {
	var p RefugeeProfile
	var languages []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, first_name, last_name, government_id, government_id_type, phone, address, languages
		FROM refugee_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.GovernmentID, &p.GovernmentIDType, &p.Phone, &p.Address, &languages)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(languages) > 0 {
		if err := json.Unmarshal(languages, &p.Languages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal languages: %w", err)
		}
	}
	return &p, nil
}

func (r *postgresRepo) GetNGOProfile(ctx context.Context, userID uuid.UUID) (*NGOProfile, error) {
	var p NGOProfile
	var services, specs []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, organization_name, services_offered, specializations, contact_phone, address
		FROM ngo_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.OrganizationName, &services, &specs, &p.ContactPhone, &p.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(services, &p.ServicesOffered); err != nil {
		return nil, fmt.Errorf("failed to unmarshal services: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specializations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal specializations: %w", err)
	}
	return &p, nil
}

// mapPQError turns unique violations into ErrDuplicate.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

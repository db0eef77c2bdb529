package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ValidationError is a client mistake; its message is safe to show.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrGovernmentIDTaken  = errors.New("user already exists with this government ID")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password are required")
)

const (
	DefaultBcryptCost = 12

	// uniqueIDAttempts bounds inserts when concurrent registrations in the
	// same country race for the next unique id.
	uniqueIDAttempts = 3

	errMissingFields  = "Missing required fields"
	minPasswordLength = 6
)

type Service interface {
	RegisterRefugee(ctx context.Context, req RegisterRefugeeRequest) (*Registration, error)
	RegisterNGO(ctx context.Context, req RegisterNGORequest) (*Registration, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
}

type service struct {
	repo       Repository
	tokens     *TokenManager
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewService(repo Repository, tokens *TokenManager, bcryptCost int, logger zerolog.Logger) Service {
	return &service{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, ".") {
		return invalid("Invalid email format")
	}
	if len(password) < minPasswordLength {
		return invalid("Password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

func (s *service) checkEmailFree(ctx context.Context, email string) error {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

func (s *service) nextUniqueID(ctx context.Context, country string) (string, error) {
	count, err := s.repo.CountUsersByCountry(ctx, country)
	if err != nil {
		return "", fmt.Errorf("count users: %w", err)
	}
	uniqueID, err := GenerateUniqueID(country, count+1, s.now())
	if err != nil {
		return "", invalid("Unsupported country")
	}
	return uniqueID, nil
}

// newUser checks the email is free, hashes the password and assigns the
// next country-scoped unique id.
func (s *service) newUser(ctx context.Context, email, password, country string, role Role) (*User, error) {
	if err := s.checkEmailFree(ctx, email); err != nil {
		return nil, err
	}
	uniqueID, err := s.nextUniqueID(ctx, country)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		UniqueID:     uniqueID,
		Country:      country,
		CreatedAt:    s.now(),
	}, nil
}

func (s *service) RegisterRefugee(ctx context.Context, req RegisterRefugeeRequest) (*Registration, error) {
	req.Email = normalizeEmail(req.Email)
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	req.GovernmentID = strings.ToUpper(strings.TrimSpace(req.GovernmentID))

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" ||
		req.Country == "" || req.GovernmentID == "" {
		return nil, invalid(errMissingFields)
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	cfg, ok := LookupCountry(req.Country)
	if !ok {
		return nil, invalid("Unsupported country")
	}
	if !ValidateGovernmentID(req.Country, req.GovernmentID) {
		return nil, invalid("Invalid %s format", cfg.IDType)
	}

	if err := s.checkEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}
	exists, err := s.repo.GovernmentIDExists(ctx, req.GovernmentID)
	if err != nil {
		return nil, fmt.Errorf("lookup government id: %w", err)
	}
	if exists {
		return nil, ErrGovernmentIDTaken
	}

	u, err := s.newUser(ctx, req.Email, req.Password, req.Country, RoleRefugee)
	if err != nil {
		return nil, err
	}
	profile := &RefugeeProfile{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		GovernmentID:     req.GovernmentID,
		GovernmentIDType: cfg.IDType,
		Phone:            req.Phone,
		Address:          req.Address,
		Languages:        req.Languages,
	}
	err = s.insert(ctx, u, func() error { return s.repo.CreateRefugee(ctx, u, profile) })
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.String()).Str("unique_id", u.UniqueID).Msg("refugee registered")
	return &Registration{UniqueID: u.UniqueID, User: summarize(u)}, nil
}

func (s *service) RegisterNGO(ctx context.Context, req RegisterNGORequest) (*Registration, error) {
	req.Email = normalizeEmail(req.Email)
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))

	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.OrganizationName) == "" || req.Country == "" {
		return nil, invalid(errMissingFields)
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	if _, ok := LookupCountry(req.Country); !ok {
		return nil, invalid("Unsupported country")
	}

	u, err := s.newUser(ctx, req.Email, req.Password, req.Country, RoleNGO)
	if err != nil {
		return nil, err
	}
	var specs []string
	if req.NGOType != "" {
		specs = []string{req.NGOType}
	}
	profile := &NGOProfile{
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		ServicesOffered:  req.Services,
		Specializations:  specs,
		ContactPhone:     req.Contact,
		Address:          req.Availability,
	}
	err = s.insert(ctx, u, func() error { return s.repo.CreateNGO(ctx, u, profile) })
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", u.ID.String()).Str("unique_id", u.UniqueID).Msg("ngo registered")
	return &Registration{UniqueID: u.UniqueID, User: summarize(u)}, nil
}

func isUniqueIDClash(err error) bool {
	return errors.Is(err, ErrDuplicate) && strings.Contains(err.Error(), "unique_id")
}

// insert runs create, assigning a fresh unique id when another registration
// took the one computed for u.
func (s *service) insert(ctx context.Context, u *User, create func() error) error {
	for attempt := 1; ; attempt++ {
		err := create()
		if err == nil {
			return nil
		}
		if !isUniqueIDClash(err) || attempt == uniqueIDAttempts {
			return s.createFailed(err)
		}
		s.logger.Warn().Str("unique_id", u.UniqueID).Int("attempt", attempt).Msg("unique id taken, reassigning")
		if u.UniqueID, err = s.nextUniqueID(ctx, u.Country); err != nil {
			return err
		}
		u.ID = uuid.Nil
	}
}

// createFailed maps a unique violation that slipped past the pre-checks.
func (s *service) createFailed(err error) error {
	if errors.Is(err, ErrDuplicate) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "government_id"):
			return ErrGovernmentIDTaken
		case strings.Contains(msg, "email"):
			return ErrEmailTaken
		}
	}
	return fmt.Errorf("create user: %w", err)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	summary := summarize(u)
	switch u.Role {
	case RoleRefugee:
		if p, err := s.repo.GetRefugeeProfile(ctx, u.ID); err == nil {
			summary.Profile = &ProfileSummary{Name: p.FullName()}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	case RoleNGO:
		if p, err := s.repo.GetNGOProfile(ctx, u.ID); err == nil {
			summary.Profile = &ProfileSummary{Name: p.OrganizationName}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: summary}, nil
}

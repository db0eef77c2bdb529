package account

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleRefugee Role = "refugee"
	RoleNGO     Role = "ngo"
)

// User is the login identity shared by refugees and NGOs.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	UniqueID     string    `json:"uniqueId" db:"unique_id"`
	Country      string    `json:"country" db:"country"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type RefugeeProfile struct {
	UserID           uuid.UUID `json:"userId" db:"user_id"`
	FirstName        string    `json:"firstName" db:"first_name"`
	LastName         string    `json:"lastName" db:"last_name"`
	GovernmentID     string    `json:"governmentId" db:"government_id"`
	GovernmentIDType string    `json:"governmentIdType" db:"government_id_type"`
	Phone            string    `json:"phone" db:"phone"`
	Address          string    `json:"address" db:"address"`
	Languages        []string  `json:"languages" db:"languages"`
}

func (p *RefugeeProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

type NGOProfile struct {
	UserID           uuid.UUID `json:"userId" db:"user_id"`
	OrganizationName string    `json:"organizationName" db:"organization_name"`
	ServicesOffered  []string  `json:"servicesOffered" db:"services_offered"`
	Specializations  []string  `json:"specializations" db:"specializations"`
	ContactPhone     string    `json:"contactPhone" db:"contact_phone"`
	Address          string    `json:"address" db:"address"`
}

type RegisterRefugeeRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Country      string   `json:"country"`
	GovernmentID string   `json:"governmentId"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Languages    []string `json:"languages"`
}

type RegisterNGORequest struct {
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	OrganizationName string   `json:"organizationName"`
	Country          string   `json:"country"`
	NGOType          string   `json:"ngoType"`
	Services         []string `json:"services"`
	Contact          string   `json:"contact"`
	Availability     string   `json:"availability"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public view of a user returned by auth endpoints.
type UserSummary struct {
	ID       uuid.UUID       `json:"id"`
	Email    string          `json:"email"`
	Role     Role            `json:"role"`
	UniqueID string          `json:"uniqueId"`
	Country  string          `json:"country"`
	Profile  *ProfileSummary `json:"profile,omitempty"`
}

type ProfileSummary struct {
	Name string `json:"name"`
}

func summarize(u *User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Role: u.Role, UniqueID: u.UniqueID, Country: u.Country}
}

// Registration is the outcome of a successful sign-up.
type Registration struct {
	UniqueID string
	User     UserSummary
}

// Session is the outcome of a successful login.
type Session struct {
	Token string
	User  UserSummary
}

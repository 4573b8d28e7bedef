package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the credential role claim. Every session credential carries
// exactly one of these; anything else is rejected before identity lookup.
type Role string

const (
	RoleCompany  Role = "COMPANY"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a raw claim string onto a supported role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCompany, RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Identity is the business record a credential's claims resolve to.
// Business handlers consume it from the request context.
type Identity interface {
	IdentityID() uuid.UUID
	IdentityRole() Role
	IdentityEmail() string
}

type Company struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Name               string     `json:"name" db:"name"`
	Slug               string     `json:"slug" db:"slug"`
	Email              string     `json:"email" db:"email"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	SubscriptionStatus string     `json:"subscription_status" db:"subscription_status"`
	SubscriptionStart  time.Time  `json:"subscription_start" db:"subscription_start"`
	SubscriptionEnd    *time.Time `json:"subscription_end" db:"subscription_end"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

func (c *Company) IdentityID() uuid.UUID        { return c.ID }
func (c *Company) IdentityRole() Role           { return RoleCompany }
func (c *Company) IdentityEmail() string        { return c.Email }
func (c *Company) IdentityPasswordHash() string { return c.PasswordHash }

// SubscriptionExpired reports whether the paid window has elapsed. An
// elapsed end date means breach regardless of the status column.
func (c *Company) SubscriptionExpired(now time.Time) bool {
	return c.SubscriptionEnd != nil && now.After(*c.SubscriptionEnd)
}

type Employee struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (e *Employee) IdentityID() uuid.UUID        { return e.ID }
func (e *Employee) IdentityRole() Role           { return RoleEmployee }
func (e *Employee) IdentityEmail() string        { return e.Email }
func (e *Employee) IdentityPasswordHash() string { return e.PasswordHash }

type Manager struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Department   string    `json:"department" db:"department"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (m *Manager) IdentityID() uuid.UUID        { return m.ID }
func (m *Manager) IdentityRole() Role           { return RoleManager }
func (m *Manager) IdentityEmail() string        { return m.Email }
func (m *Manager) IdentityPasswordHash() string { return m.PasswordHash }

// Admin identities live in the shared main store, not in any tenant store.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (a *Admin) IdentityID() uuid.UUID        { return a.ID }
func (a *Admin) IdentityRole() Role           { return RoleAdmin }
func (a *Admin) IdentityEmail() string        { return a.Email }
func (a *Admin) IdentityPasswordHash() string { return a.PasswordHash }

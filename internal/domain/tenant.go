package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an isolated workspace. The slug is immutable and
// globally unique; tenants are never physically deleted, only deactivated.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

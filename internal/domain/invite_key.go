package domain

import (
	"time"

	"github.com/google/uuid"
)

// InviteKey is a single-use credential permitting the creation of exactly one
// tenant plus its admin user. Keys are seeded out-of-band; IsUsed transitions
// false to true exactly once, atomically with the provisioning transaction.
type InviteKey struct {
	Key       string     `json:"key"`
	IsUsed    bool       `json:"isUsed"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	UsedBy    *uuid.UUID `json:"usedBy,omitempty"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

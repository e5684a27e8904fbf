package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/repository"
)

// MembershipVerifier confirms a claimed identity is actually linked to the
// claimed tenant. Tenant-scoped mutations run this check against the store
// even when token claims look self-consistent, so a stale or forged token
// referencing a user removed from the tenant is still rejected.
type MembershipVerifier struct {
	users *repository.UsersRepository
}

// NewMembershipVerifier creates a new membership verifier.
func NewMembershipVerifier(users *repository.UsersRepository) *MembershipVerifier {
	return &MembershipVerifier{users: users}
}

// Verify returns true iff the user belongs to the tenant.
func (v *MembershipVerifier) Verify(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	return v.users.BelongsToTenant(ctx, tenantID, userID)
}

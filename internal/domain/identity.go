package domain

import "github.com/google/uuid"

// Identity is the verified identity of a request, extracted from a session
// token by the authentication middleware.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     Role
}

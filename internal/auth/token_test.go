package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chronos-hq/chronos/internal/domain"
)

func testTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		Secret: []byte("test-secret"),
		Issuer: "chronos-test",
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := testTokenService()
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := svc.Issue(userID, tenantID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("sub = %q, want %q", claims.Subject, userID)
	}
	if claims.TenantID != tenantID.String() {
		t.Errorf("tenant_id = %q, want %q", claims.TenantID, tenantID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := testTokenService().Issue(uuid.New(), uuid.New(), domain.RoleMember)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewTokenService(TokenConfig{Secret: []byte("different-secret")})
	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		Secret: []byte("test-secret"),
		TTL:    -time.Minute,
	})
	token, err := svc.Issue(uuid.New(), uuid.New(), domain.RoleMember)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for an expired token, got %v", err)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	// A token with alg "none" must never verify, even with valid-looking
	// claims. Unverified claims are never returned to the caller.
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID: uuid.NewString(),
		Role:     domain.RoleAdmin,
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := testTokenService().Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := testTokenService()
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := testTokenService().TTL(); got != DefaultAccessTokenTTL {
		t.Errorf("TTL() = %v, want %v", got, DefaultAccessTokenTTL)
	}
}

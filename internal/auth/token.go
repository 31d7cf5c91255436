package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mfauzirh/workforce-management/internal"
	roledm "github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	userdm "github.com/mfauzirh/workforce-management/internal/core/datamodel/user"
)

// Claims is the signed token payload. RoleName and Permissions are embedded
// at issuance so the common case authorizes without any store access; both
// are optional so tokens minted before the schema carried them still parse
// and route through the fallback path.
type Claims struct {
	UserID      int64    `json:"user_id"`
	RoleID      int64    `json:"role_id,omitempty"`
	RoleName    string   `json:"role_name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Complete reports whether the claims carry enough to authorize without a
// store lookup.
func (c *Claims) Complete() bool {
	return c.RoleName != "" && len(c.Permissions) > 0
}

// TokenIssuer mints and verifies HS256-signed bearer tokens.
type TokenIssuer struct {
	secret   []byte
	tokenTTL time.Duration
	// now is swappable for tests.
	now func() time.Time
}

func NewTokenIssuer(secret string, tokenTTL time.Duration) *TokenIssuer {
	if tokenTTL <= 0 {
		tokenTTL = internal.DefaultTokenDuration
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// Issue builds and signs a token for the user with the given role's
// permission set flattened into the claims. A nil or inactive role is not an
// error: the token is issued with an empty permission list and the decision
// point denies everything, which keeps deny as the default posture instead of
// blocking authentication.
func (t *TokenIssuer) Issue(u *userdm.User, r *roledm.Role) (string, *Claims, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(t.tokenTTL)

	claims := &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	if r != nil && r.IsActive {
		claims.RoleID = r.ID
		claims.RoleName = r.Name
		claims.Permissions = r.Flatten()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks signature and expiry. Rejections are the typed sentinels the
// pipeline maps to transport codes: ErrTokenExpired for expiry,
// ErrTokenMalformed for everything else.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrTokenMalformed
	}
	return claims, nil
}

// TokenTTL exposes the configured lifetime for login responses.
func (t *TokenIssuer) TokenTTL() time.Duration {
	return t.tokenTTL
}

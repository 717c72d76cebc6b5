package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers bad signature, expiry, and issuer/audience
	// mismatch. Callers must not distinguish the cause.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedPayload is returned when a cryptographically valid token
	// does not carry a well-formed identity payload.
	ErrMalformedPayload = errors.New("malformed token payload")
	// ErrInvalidTTL is returned for TTL literals outside the
	// <integer><s|m|h|d> grammar.
	ErrInvalidTTL = errors.New("invalid ttl literal")
)

// Role is the single privilege level carried by a user account.
type Role string

const (
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a member of the closed role enum.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Payload is the identity embedded in both access and refresh tokens.
// It is never persisted; refresh tokens are additionally stored as the
// opaque key of a session row.
type Payload struct {
	UserID string
	Email  string
	Role   Role
}

// Claims is the JWT claim set for both token kinds. Access and refresh
// tokens share the shape and differ only in TTL.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies bearer tokens with an HS256 secret. It is
// stateless and safe for concurrent use.
type Codec struct {
	secret   []byte
	issuer   string
	audience string
}

// NewCodec builds a Codec. Issuer and audience are optional; when set they
// are embedded on issue and enforced on verify.
func NewCodec(secret []byte, issuer, audience string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	return &Codec{secret: secret, issuer: issuer, audience: audience}, nil
}

// Issue signs a token carrying p that expires after ttl.
func (c *Codec) Issue(p Payload, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			// A fresh jti keeps every signed token distinct even when two
			// issues for the same user land in the same second.
			ID:        uuid.NewString(),
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
		},
	}
	if c.audience != "" {
		claims.Audience = jwt.ClaimStrings{c.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, expiry, and issuer/audience, then validates the
// payload shape. Signature-level failures surface as ErrInvalidToken; a
// valid token with a broken identity payload surfaces as
// ErrMalformedPayload.
func (c *Codec) Verify(tokenStr string) (Payload, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.issuer != "" {
		options = append(options, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		options = append(options, jwt.WithAudience(c.audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Payload{}, ErrInvalidToken
	}

	return claims.payload()
}

func (c *Claims) payload() (Payload, error) {
	role := Role(c.Role)
	if c.UserID == "" || c.Email == "" || !role.Valid() {
		return Payload{}, ErrMalformedPayload
	}
	return Payload{UserID: c.UserID, Email: c.Email, Role: role}, nil
}

// DecodeUnsafe decodes the payload without verifying the signature.
// Introspection only: the result must never gate access.
func DecodeUnsafe(tokenStr string) *Payload {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}
	p, err := claims.payload()
	if err != nil {
		return nil
	}
	return &p
}

// ExtractBearer parses an Authorization header of the exact shape
// "Bearer <token>". Anything else (missing header, other scheme, extra
// segments) yields the empty string, never an error.
func ExtractBearer(headerValue string) string {
	fields := strings.Fields(headerValue)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return ""
	}
	return fields[1]
}

// ParseTTL reads a duration literal of the form <integer><s|m|h|d>, or a
// bare integer second count.
func ParseTTL(lit string) (time.Duration, error) {
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTTL)
	}

	unit := time.Second
	digits := lit
	switch lit[len(lit)-1] {
	case 's':
		digits = lit[:len(lit)-1]
	case 'm':
		unit, digits = time.Minute, lit[:len(lit)-1]
	case 'h':
		unit, digits = time.Hour, lit[:len(lit)-1]
	case 'd':
		unit, digits = 24*time.Hour, lit[:len(lit)-1]
	}

	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTTL, lit)
	}
	return time.Duration(n) * unit, nil
}

// Seconds normalizes d to a whole-second count for API responses.
func Seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

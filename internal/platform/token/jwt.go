// Package token issues and validates the access tokens the transport layer
// uses to resolve an Actor. Credential issuance proper (passwords, refresh
// flows) lives upstream; this service only signs and verifies actor claims.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"chorale/pkg/domain"
	dErrors "chorale/pkg/domain-errors"
)

// Claims carries the actor identity inside a signed token.
//
// Verification claims mirror the Administrator record at issuance time; the
// auth middleware re-reads the persisted record so a stale token cannot keep
// mutation rights after a rejection.
type Claims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"org_id,omitempty"`
	Verification   string `json:"verification,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and validates actor tokens with an HMAC key.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{signingKey: []byte(signingKey), issuer: issuer}
}

// Generate signs a token for the given actor.
func (s *Service) Generate(actor domain.Actor, expiresIn time.Duration) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	if actor.Role == domain.RoleOrgAdmin {
		claims.OrganizationID = actor.OrganizationID.String()
		claims.Verification = string(actor.Verification)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Validate parses a signed token back into an Actor.
func (s *Service) Validate(tokenString string) (domain.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, dErrors.New(dErrors.CodeForbidden, "token expired")
		}
		return domain.Actor{}, dErrors.Wrap(err, dErrors.CodeForbidden, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Actor{}, dErrors.New(dErrors.CodeForbidden, "invalid token claims")
	}
	return claims.ToActor()
}

// ToActor converts validated claims into a domain Actor.
func (c *Claims) ToActor() (domain.Actor, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Actor{}, err
	}
	actor := domain.Actor{Role: role}
	if c.Subject != "" {
		id, err := uuid.Parse(c.Subject)
		if err != nil {
			return domain.Actor{}, dErrors.New(dErrors.CodeInvalidActor, "token subject is not a UUID")
		}
		actor.ID = id
	}
	if role == domain.RoleOrgAdmin {
		orgID, err := domain.ParseOrganizationID(c.OrganizationID)
		if err != nil {
			return domain.Actor{}, dErrors.New(dErrors.CodeInvalidActor, "org_admin token has no organization")
		}
		actor.OrganizationID = orgID
		verification, err := domain.ParseVerificationStatus(c.Verification)
		if err != nil {
			return domain.Actor{}, dErrors.New(dErrors.CodeInvalidActor, "org_admin token has no verification status")
		}
		actor.Verification = verification
	}
	if err := actor.Validate(); err != nil {
		return domain.Actor{}, err
	}
	return actor, nil
}

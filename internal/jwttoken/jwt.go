package jwttoken

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "sufragio/pkg/domain-errors"
)

// Claims represents the JWT claims for our access tokens.
type Claims struct {
	VoterID string `json:"voter_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func New(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateAccessToken signs a bearer token for the given voter.
func (s *Service) GenerateAccessToken(voterID int64, role string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		VoterID: strconv.FormatInt(voterID, 10),
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken parses and verifies a bearer token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ValidateVoterToken validates a bearer token and unpacks the voter
// identity, satisfying the auth middleware contract.
func (s *Service) ValidateVoterToken(tokenString string) (int64, string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, "", err
	}
	voterID, err := claims.VoterIDInt()
	if err != nil {
		return 0, "", err
	}
	return voterID, claims.Role, nil
}

// VoterIDInt decodes the voter id carried by validated claims.
func (c *Claims) VoterIDInt() (int64, error) {
	id, err := strconv.ParseInt(c.VoterID, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return id, nil
}

package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sufragio/internal/jwttoken"
	"sufragio/internal/platform/config"
	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
	"sufragio/pkg/platform/sentinel"
	"sufragio/pkg/requestcontext"
)

const minCredentialLength = 6

// Service owns voter onboarding and authentication. The registry lookup
// always completes before the voter insert starts, so no storage transaction
// is ever held open across the external call.
type Service struct {
	voters   VoterStore
	refresh  RefreshStore
	regions  reference.RegionStore
	registry RegistryClient
	tokens   *jwttoken.Service
	logger   *slog.Logger
	metrics  *Metrics
}

func NewService(
	voters VoterStore,
	refresh RefreshStore,
	regions reference.RegionStore,
	registry RegistryClient,
	tokens *jwttoken.Service,
	logger *slog.Logger,
	metrics *Metrics,
) *Service {
	return &Service{
		voters:   voters,
		refresh:  refresh,
		regions:  regions,
		registry: registry,
		tokens:   tokens,
		logger:   logger,
		metrics:  metrics,
	}
}

// ValidateIdentity checks the national id format and resolves the legal name
// through the registry collaborator without persisting anything.
func (s *Service) ValidateIdentity(ctx context.Context, nationalID string) (PersonRecord, error) {
	if err := ValidateNationalID(nationalID); err != nil {
		return PersonRecord{}, err
	}

	start := time.Now()
	record, err := s.registry.Lookup(ctx, nationalID)
	if err != nil {
		s.metrics.ObserveLookup("error", time.Since(start))
		return PersonRecord{}, err
	}
	s.metrics.ObserveLookup("ok", time.Since(start))
	return record, nil
}

// RegisterInput is the write-path input for voter registration.
type RegisterInput struct {
	NationalID string
	RegionID   int64
	Credential string
}

// Register onboards a new voter: duplicate check, region check, registry
// lookup, then one atomic insert. The national_id unique index remains the
// authoritative duplicate guard under concurrent registration attempts.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Voter, TokenPair, error) {
	if err := ValidateNationalID(input.NationalID); err != nil {
		return nil, TokenPair{}, err
	}
	if len(input.Credential) < minCredentialLength {
		return nil, TokenPair{}, dErrors.Newf(dErrors.CodeValidation,
			"credential must be at least %d characters", minCredentialLength)
	}

	if _, err := s.voters.FindByNationalID(ctx, input.NationalID); err == nil {
		return nil, TokenPair{}, dErrors.New(dErrors.CodeConflict, "national id already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check registration")
	}

	if _, err := s.regions.FindByID(ctx, input.RegionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, TokenPair{}, dErrors.New(dErrors.CodeValidation, "region does not exist")
		}
		return nil, TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check region")
	}

	record, err := s.ValidateIdentity(ctx, input.NationalID)
	if err != nil {
		return nil, TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	voter := &Voter{
		NationalID:      input.NationalID,
		GivenName:       record.GivenName,
		PaternalSurname: record.PaternalSurname,
		MaternalSurname: record.MaternalSurname,
		RegionID:        input.RegionID,
		Role:            RoleVoter,
		CredentialHash:  string(hash),
	}
	err = s.voters.Create(ctx, voter)
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		// Lost a race against a concurrent registration for the same id.
		return nil, TokenPair{}, dErrors.New(dErrors.CodeConflict, "national id already registered")
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, TokenPair{}, dErrors.New(dErrors.CodeValidation, "region does not exist")
	case err != nil:
		return nil, TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create voter")
	}

	tokens, err := s.issueTokens(ctx, voter)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.metrics.IncrementRegistrations()
	s.logger.InfoContext(ctx, "voter registered",
		"voter_id", voter.ID,
		"region_id", voter.RegionID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return voter, tokens, nil
}

// Login authenticates an existing voter by national id and credential.
func (s *Service) Login(ctx context.Context, nationalID, credential string) (*Voter, TokenPair, error) {
	voter, err := s.voters.FindByNationalID(ctx, nationalID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, TokenPair{}, dErrors.New(dErrors.CodeNotFound, "voter not found")
	}
	if err != nil {
		return nil, TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter")
	}

	if bcrypt.CompareHashAndPassword([]byte(voter.CredentialHash), []byte(credential)) != nil {
		s.metrics.IncrementLoginFailures()
		s.logger.WarnContext(ctx, "login failed",
			"voter_id", voter.ID,
			"client_ip", requestcontext.ClientIP(ctx),
			"user_agent", requestcontext.UserAgent(ctx),
		)
		return nil, TokenPair{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	tokens, err := s.issueTokens(ctx, voter)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return voter, tokens, nil
}

// Refresh rotates a refresh token: the presented token is consumed
// atomically and a fresh pair is issued. Replays get Unauthorized.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	voterID, err := s.refresh.Consume(ctx, refreshToken)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return TokenPair{}, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	if err != nil {
		return TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume refresh token")
	}

	voter, err := s.voters.FindByID(ctx, voterID)
	if err != nil {
		return TokenPair{}, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
	}
	return s.issueTokens(ctx, voter)
}

// Logout revokes the presented refresh token. The access token simply ages
// out.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke refresh token")
	}
	return nil
}

// Profile loads the authenticated voter.
func (s *Service) Profile(ctx context.Context, voterID int64) (*Voter, error) {
	voter, err := s.voters.FindByID(ctx, voterID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "voter not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load voter")
	}
	return voter, nil
}

func (s *Service) issueTokens(ctx context.Context, voter *Voter) (TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(voter.ID, string(voter.Role), config.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	refresh := uuid.NewString()
	if err := s.refresh.Save(ctx, refresh, voter.ID, config.RefreshTokenTTL); err != nil {
		return TokenPair{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue refresh token")
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(config.AccessTokenTTL.Seconds()),
	}, nil
}

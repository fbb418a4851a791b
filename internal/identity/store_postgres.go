package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sufragio/internal/platform/postgres"
	"sufragio/pkg/platform/sentinel"
)

// PostgresVoterStore persists voters in PostgreSQL.
type PostgresVoterStore struct {
	db *sql.DB
}

func NewPostgresVoterStore(db *sql.DB) *PostgresVoterStore {
	return &PostgresVoterStore{db: db}
}

// Create inserts the voter in a single statement so a cancelled registration
// either fully commits or leaves nothing behind.
func (s *PostgresVoterStore) Create(ctx context.Context, voter *Voter) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO voters
			(national_id, given_name, paternal_surname, maternal_surname, region_id, role, credential_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, active, created_at, updated_at
	`, voter.NationalID, voter.GivenName, voter.PaternalSurname, voter.MaternalSurname,
		voter.RegionID, string(voter.Role), voter.CredentialHash).
		Scan(&voter.ID, &voter.Active, &voter.CreatedAt, &voter.UpdatedAt)
	if postgres.IsUniqueViolation(err, "") {
		return sentinel.ErrConflict
	}
	if postgres.IsForeignKeyViolation(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create voter: %w", err)
	}
	return nil
}

func (s *PostgresVoterStore) FindByNationalID(ctx context.Context, nationalID string) (*Voter, error) {
	return s.find(ctx, `national_id = $1`, nationalID)
}

func (s *PostgresVoterStore) FindByID(ctx context.Context, id int64) (*Voter, error) {
	return s.find(ctx, `id = $1`, id)
}

func (s *PostgresVoterStore) find(ctx context.Context, where string, arg any) (*Voter, error) {
	var (
		v    Voter
		role string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, national_id, given_name, paternal_surname, maternal_surname,
		       region_id, role, active, credential_hash, created_at, updated_at
		FROM voters
		WHERE `+where, arg).
		Scan(&v.ID, &v.NationalID, &v.GivenName, &v.PaternalSurname, &v.MaternalSurname,
			&v.RegionID, &role, &v.Active, &v.CredentialHash, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find voter: %w", err)
	}
	v.Role = Role(role)
	return &v, nil
}

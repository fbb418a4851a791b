package voting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sufragio/internal/platform/postgres"
	"sufragio/pkg/platform/sentinel"
)

// PostgresStore persists votes in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert writes the ballot in a single statement. The votes_one_per_office
// constraint is the authoritative duplicate guard; under concurrent casts for
// the same office exactly one insert commits and the rest surface as conflict.
func (s *PostgresStore) Insert(ctx context.Context, vote *Vote) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO votes (voter_id, candidate_id, office_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, vote.VoterID, vote.CandidateID, vote.OfficeID).
		Scan(&vote.ID, &vote.CreatedAt)
	if postgres.IsUniqueViolation(err, "votes_one_per_office") {
		return sentinel.ErrConflict
	}
	if postgres.IsForeignKeyViolation(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *PostgresStore) HasVoted(ctx context.Context, voterID, officeID int64) (*time.Time, error) {
	var castAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT created_at FROM votes WHERE voter_id = $1 AND office_id = $2
	`, voterID, officeID).Scan(&castAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	return &castAt, nil
}

func (s *PostgresStore) ListByVoter(ctx context.Context, voterID int64) ([]Detail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.voter_id, v.candidate_id, v.office_id, v.created_at,
		       c.given_name || ' ' || c.paternal_surname || ' ' || c.maternal_surname,
		       p.name, p.code
		FROM votes v
		JOIN candidates c ON c.id = v.candidate_id
		JOIN parties p ON p.id = c.party_id
		WHERE v.voter_id = $1
		ORDER BY v.office_id
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	details := make([]Detail, 0)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.VoterID, &d.CandidateID, &d.OfficeID, &d.CreatedAt,
			&d.CandidateName, &d.PartyName, &d.PartyCode); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return details, nil
}

package results

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore computes tallies with aggregate queries.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ResultsByOffice(ctx context.Context, officeID int64, regionID *int64) ([]CandidateResult, error) {
	query := `
		SELECT c.id,
		       c.given_name || ' ' || c.paternal_surname || ' ' || c.maternal_surname,
		       p.name, p.code,
		       c.region_id, r.name,
		       COUNT(v.id)
		FROM candidates c
		JOIN parties p ON p.id = c.party_id
		LEFT JOIN regions r ON r.id = c.region_id
		LEFT JOIN votes v ON v.candidate_id = c.id
		WHERE c.office_id = $1 AND c.active AND p.active`
	args := []any{officeID}
	if regionID != nil {
		query += ` AND c.region_id = $2`
		args = append(args, *regionID)
	}
	query += `
		GROUP BY c.id, p.name, p.code, r.name
		ORDER BY COUNT(v.id) DESC, c.paternal_surname`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("results by office: %w", err)
	}
	defer rows.Close()

	results := make([]CandidateResult, 0)
	for rows.Next() {
		var (
			r          CandidateResult
			regionID   sql.NullInt64
			regionName sql.NullString
		)
		if err := rows.Scan(&r.CandidateID, &r.FullName, &r.PartyName, &r.PartyCode,
			&regionID, &regionName, &r.Votes); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if regionID.Valid {
			r.RegionID = &regionID.Int64
		}
		if regionName.Valid {
			r.RegionName = &regionName.String
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("results by office: %w", err)
	}
	return results, nil
}

func (s *PostgresStore) TalliesByParty(ctx context.Context, officeID *int64) ([]PartyTally, error) {
	query := `
		SELECT p.id, p.name, p.code, COUNT(v.id)
		FROM votes v
		JOIN candidates c ON c.id = v.candidate_id
		JOIN parties p ON p.id = c.party_id
		WHERE c.active AND p.active`
	var args []any
	if officeID != nil {
		query += ` AND c.office_id = $1`
		args = append(args, *officeID)
	}
	query += `
		GROUP BY p.id, p.name, p.code
		ORDER BY COUNT(v.id) DESC, p.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tallies by party: %w", err)
	}
	defer rows.Close()

	tallies := make([]PartyTally, 0)
	for rows.Next() {
		var t PartyTally
		if err := rows.Scan(&t.PartyID, &t.Name, &t.Code, &t.Votes); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tallies by party: %w", err)
	}
	return tallies, nil
}

func (s *PostgresStore) CountVotesByOffice(ctx context.Context) (map[int64]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT office_id, COUNT(*) FROM votes GROUP BY office_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count votes by office: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var officeID, count int64
		if err := rows.Scan(&officeID, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[officeID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count votes by office: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) CountVotes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountEligibleVoters(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voters WHERE active AND role = 'voter'
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountActiveCandidates(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidates WHERE active
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count candidates: %w", err)
	}
	return count, nil
}

package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sufragio/internal/platform/postgres"
	"sufragio/internal/reference"
	"sufragio/pkg/platform/sentinel"
)

// PostgresStore persists parties, candidates and background records in
// PostgreSQL. Vote counts come from an aggregate join so listings stay a
// single round trip.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListParties(ctx context.Context) ([]Party, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, COALESCE(logo_url, ''), active, created_at, updated_at
		FROM parties
		WHERE active
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []Party
	for rows.Next() {
		var p Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.LogoURL, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *PostgresStore) FindPartyByID(ctx context.Context, id int64) (*Party, error) {
	return s.findParty(ctx, `id = $1`, id)
}

func (s *PostgresStore) FindPartyByCode(ctx context.Context, code string) (*Party, error) {
	return s.findParty(ctx, `code = $1`, code)
}

func (s *PostgresStore) findParty(ctx context.Context, where string, arg any) (*Party, error) {
	var p Party
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, COALESCE(logo_url, ''), active, created_at, updated_at
		FROM parties
		WHERE `+where, arg).
		Scan(&p.ID, &p.Name, &p.Code, &p.LogoURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) EnsureParty(ctx context.Context, party *Party) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO parties (name, code, logo_url, active)
		VALUES ($1, $2, NULLIF($3, ''), TRUE)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			updated_at = now()
		RETURNING id, active, created_at, updated_at
	`, party.Name, party.Code, party.LogoURL).
		Scan(&party.ID, &party.Active, &party.CreatedAt, &party.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ensure party: %w", err)
	}
	return nil
}

const summaryColumns = `
	c.id, c.given_name, c.paternal_surname, c.maternal_surname,
	c.party_id, c.office_id, c.region_id, COALESCE(c.photo_url, ''), c.active,
	c.created_at, c.updated_at,
	p.id, p.name, p.code, COALESCE(p.logo_url, ''), p.active,
	r.name,
	COUNT(v.id)`

const summaryJoins = `
	FROM candidates c
	JOIN parties p ON p.id = c.party_id
	LEFT JOIN regions r ON r.id = c.region_id
	LEFT JOIN votes v ON v.candidate_id = c.id`

const summaryGroupBy = `
	GROUP BY c.id, p.id, r.name`

func (s *PostgresStore) List(ctx context.Context, filters Filters) ([]Summary, error) {
	conds := []string{"c.active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filters.Office != nil {
		conds = append(conds, "c.office_id = "+arg(filters.Office.ID()))
	}
	if filters.RegionID != nil {
		conds = append(conds, "c.region_id = "+arg(*filters.RegionID))
	}
	if filters.PartyID != nil {
		conds = append(conds, "c.party_id = "+arg(*filters.PartyID))
	}
	if filters.Search != "" {
		pattern := arg("%" + escapeLike(filters.Search) + "%")
		conds = append(conds, fmt.Sprintf(
			"(c.given_name ILIKE %[1]s OR c.paternal_surname ILIKE %[1]s OR c.maternal_surname ILIKE %[1]s)", pattern))
	}

	query := "SELECT " + summaryColumns + summaryJoins +
		" WHERE " + strings.Join(conds, " AND ") +
		summaryGroupBy +
		" ORDER BY p.code, c.paternal_surname"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, rows.Err()
}

func (s *PostgresStore) Find(ctx context.Context, id int64) (*Candidate, error) {
	var (
		c        Candidate
		officeID int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, given_name, paternal_surname, maternal_surname,
		       party_id, office_id, region_id, COALESCE(photo_url, ''), active,
		       created_at, updated_at
		FROM candidates
		WHERE id = $1
	`, id).Scan(&c.ID, &c.GivenName, &c.PaternalSurname, &c.MaternalSurname,
		&c.PartyID, &officeID, &c.RegionID, &c.PhotoURL, &c.Active,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	office, ok := reference.OfficeByID(officeID)
	if !ok {
		return nil, fmt.Errorf("candidate %d references unknown office %d", id, officeID)
	}
	c.Office = office
	return &c, nil
}

func (s *PostgresStore) FindSummary(ctx context.Context, id int64) (*Summary, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+summaryColumns+summaryJoins+" WHERE c.id = $1"+summaryGroupBy, id)
	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *PostgresStore) Create(ctx context.Context, candidate *Candidate) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO candidates
			(given_name, paternal_surname, maternal_surname, party_id, office_id, region_id, photo_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), TRUE)
		RETURNING id, active, created_at, updated_at
	`, candidate.GivenName, candidate.PaternalSurname, candidate.MaternalSurname,
		candidate.PartyID, candidate.Office.ID(), candidate.RegionID, candidate.PhotoURL).
		Scan(&candidate.ID, &candidate.Active, &candidate.CreatedAt, &candidate.UpdatedAt)
	if postgres.IsUniqueViolation(err, "candidates_identity_tuple") {
		return sentinel.ErrConflict
	}
	if postgres.IsForeignKeyViolation(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBackground(ctx context.Context, candidateID int64) ([]BackgroundRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, kind, title, description, occurred_on, COALESCE(source_url, ''), created_at
		FROM background_records
		WHERE candidate_id = $1
		ORDER BY occurred_on DESC
	`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list background records: %w", err)
	}
	defer rows.Close()

	var records []BackgroundRecord
	for rows.Next() {
		var rec BackgroundRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &kind, &rec.Title, &rec.Description,
			&rec.OccurredOn, &rec.SourceURL, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan background record: %w", err)
		}
		rec.Kind = BackgroundKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) AddBackground(ctx context.Context, record *BackgroundRecord) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO background_records (candidate_id, kind, title, description, occurred_on, source_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`, record.CandidateID, string(record.Kind), record.Title, record.Description,
		record.OccurredOn, record.SourceURL).
		Scan(&record.ID, &record.CreatedAt)
	if postgres.IsForeignKeyViolation(err) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("add background record: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so search terms match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (*Summary, error) {
	var (
		summary    Summary
		officeID   int64
		regionName sql.NullString
	)
	err := row.Scan(
		&summary.Candidate.ID, &summary.Candidate.GivenName,
		&summary.Candidate.PaternalSurname, &summary.Candidate.MaternalSurname,
		&summary.Candidate.PartyID, &officeID, &summary.Candidate.RegionID,
		&summary.Candidate.PhotoURL, &summary.Candidate.Active,
		&summary.Candidate.CreatedAt, &summary.Candidate.UpdatedAt,
		&summary.Party.ID, &summary.Party.Name, &summary.Party.Code,
		&summary.Party.LogoURL, &summary.Party.Active,
		&regionName,
		&summary.VoteCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan candidate summary: %w", err)
	}
	office, ok := reference.OfficeByID(officeID)
	if !ok {
		return nil, fmt.Errorf("candidate %d references unknown office %d", summary.Candidate.ID, officeID)
	}
	summary.Candidate.Office = office
	if regionName.Valid {
		summary.RegionName = &regionName.String
	}
	return &summary, nil
}

package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sufragio/pkg/platform/sentinel"
)

// PostgresRegionStore persists regions in PostgreSQL.
type PostgresRegionStore struct {
	db *sql.DB
}

func NewPostgresRegionStore(db *sql.DB) *PostgresRegionStore {
	return &PostgresRegionStore{db: db}
}

func (s *PostgresRegionStore) List(ctx context.Context) ([]Region, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM regions
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	var regions []Region
	for rows.Next() {
		var r Region
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

func (s *PostgresRegionStore) FindByID(ctx context.Context, id int64) (*Region, error) {
	var r Region
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM regions
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find region: %w", err)
	}
	return &r, nil
}

func (s *PostgresRegionStore) Ensure(ctx context.Context, name string) (*Region, error) {
	var r Region
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO regions (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure region: %w", err)
	}
	return &r, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abhisek/orcamath/internal/profile"
)

// profileRepo implements ProfileRepo with raw SQL.
type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) CreateProfile(ctx context.Context, p profile.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, created_at) VALUES (?, ?, ?)`,
		p.ID, p.Name, formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *profileRepo) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *profileRepo) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (r *profileRepo) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*profile.Profile, error) {
	var p profile.Profile
	var created string
	if err := s.Scan(&p.ID, &p.Name, &created); err != nil {
		return nil, err
	}
	t, err := parseTime(created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	p.CreatedAt = t
	return &p, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/models"
)

// ProvinceDistricts groups a province with its districts
type ProvinceDistricts struct {
	Province  models.Province
	Districts []models.District
}

// LoadProvinceDistricts lists every province that has at least one district,
// ordered by name
func LoadProvinceDistricts(ctx context.Context, conn *sql.DB) ([]ProvinceDistricts, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT p.id, p.name, d.id, d.name, d.seat_count
		FROM province p
		JOIN district d ON d.province_id = p.id
		ORDER BY p.name, d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query provinces: %w", err)
	}
	defer rows.Close()

	var out []ProvinceDistricts
	for rows.Next() {
		var p models.Province
		var d models.District
		if err := rows.Scan(&p.ID, &p.Name, &d.ID, &d.Name, &d.SeatCount); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		d.ProvinceID = p.ID

		if len(out) == 0 || out[len(out)-1].Province.ID != p.ID {
			out = append(out, ProvinceDistricts{Province: p})
		}
		last := &out[len(out)-1]
		last.Districts = append(last.Districts, d)
	}

	return out, rows.Err()
}

// SeedAdmin creates or resets the admin account. An empty password is a no-op
// so restarts without ADMIN_PASSWORD keep the stored hash.
func SeedAdmin(ctx context.Context, conn *sql.DB, username, password string) error {
	if password == "" {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO app_user (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash
	`, username, hash, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	return nil
}

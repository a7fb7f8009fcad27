package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

type MySQLAccountAdapter struct {
	db *sqlx.DB
}

func NewMySQLAccountAdapter(db *sqlx.DB) *MySQLAccountAdapter {
	return &MySQLAccountAdapter{db: db}
}

func (m *MySQLAccountAdapter) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	err := m.db.GetContext(ctx, &profile, `
		SELECT id, org_id, full_name, phone_number, username, password_hash, role, created_at
		FROM profiles WHERE username = ?`, username)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return &profile, nil
}

func (m *MySQLAccountAdapter) CreateProfile(ctx context.Context, profile domain.Profile) error {
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO profiles (id, org_id, full_name, phone_number, username, password_hash, role, created_at)
		VALUES (:id, :org_id, :full_name, :phone_number, :username, :password_hash, :role, :created_at)`,
		profile)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (m *MySQLAccountAdapter) ListByRole(ctx context.Context, orgID string, role domain.Role) ([]domain.Profile, error) {
	var profiles []domain.Profile
	err := m.db.SelectContext(ctx, &profiles, `
		SELECT id, org_id, full_name, phone_number, username, password_hash, role, created_at
		FROM profiles
		WHERE org_id = ? AND role = ?
		ORDER BY created_at DESC`, orgID, role)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	return profiles, nil
}

func (m *MySQLAccountAdapter) DeleteProfile(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *MySQLAccountAdapter) CreateOrganization(ctx context.Context, org domain.Organization) error {
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO organizations (id, name, watermark_url)
		VALUES (:id, :name, :watermark_url)`, org)
	if err != nil {
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (m *MySQLAccountAdapter) FindOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	err := m.db.GetContext(ctx, &org, `SELECT id, name, watermark_url FROM organizations WHERE id = ?`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query organization: %w", err)
	}
	return &org, nil
}

func (m *MySQLAccountAdapter) UpdateWatermark(ctx context.Context, id, watermarkURL string) error {
	result, err := m.db.ExecContext(ctx, `UPDATE organizations SET watermark_url = ? WHERE id = ?`, watermarkURL, id)
	if err != nil {
		return fmt.Errorf("update watermark: %w", err)
	}

	// MySQL reports 0 affected rows when the value did not change
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := m.FindOrganization(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

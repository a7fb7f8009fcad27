package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// lot_base uses a NO PAD binary collation: lot bases are compared byte for
// byte, including case and trailing spaces.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		watermark_url MEDIUMTEXT   NOT NULL,
		created_at    DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		org_id        CHAR(36)     NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		phone_number  VARCHAR(32)  NOT NULL DEFAULT '',
		username      VARCHAR(191) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_profiles_username (username),
		KEY idx_profiles_org_role (org_id, role)
	)`,
	`CREATE TABLE IF NOT EXISTS lot_sequences (
		org_id     CHAR(36)     NOT NULL,
		lot_base   VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_bin NOT NULL,
		last_index BIGINT       NOT NULL,
		updated_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		PRIMARY KEY (org_id, lot_base)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_entries (
		id                  CHAR(36)     NOT NULL PRIMARY KEY,
		org_id              CHAR(36)     NOT NULL,
		created_by          CHAR(36)     NOT NULL,
		farmer_name         VARCHAR(255) NOT NULL,
		father_name         VARCHAR(255) NOT NULL DEFAULT '',
		farmer_count        INT          NOT NULL DEFAULT 0,
		lot_number_base     VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_0900_bin NOT NULL,
		lot_index           BIGINT       NOT NULL,
		full_lot_number     VARCHAR(255) NOT NULL,
		count_mota          INT          NOT NULL DEFAULT 0,
		count_gulla         INT          NOT NULL DEFAULT 0,
		is_gulla_colored    BOOLEAN      NOT NULL DEFAULT FALSE,
		count_ketpeice      INT          NOT NULL DEFAULT 0,
		is_ketpeice_colored BOOLEAN      NOT NULL DEFAULT FALSE,
		count_haara         INT          NOT NULL DEFAULT 0,
		is_marked           BOOLEAN      NOT NULL DEFAULT FALSE,
		mark_name           VARCHAR(255) NOT NULL DEFAULT '',
		actual_count        INT          NOT NULL DEFAULT 0,
		created_at          DATETIME(6)  NOT NULL,
		UNIQUE KEY uq_entries_lot (org_id, lot_number_base, lot_index),
		KEY idx_entries_org_created (org_id, created_at)
	)`,
}

// Migrate creates missing tables. It never alters existing ones.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

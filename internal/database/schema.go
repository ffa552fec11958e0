package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The schema is written in the subset of SQL shared by MySQL and SQLite
// so the same statements serve production and tests.  Row and column
// are stored as rack_row/rack_col because ROW is reserved in MySQL.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
	id            CHAR(36)     NOT NULL PRIMARY KEY,
	email         VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT uq_users_email UNIQUE (email)
)`

	createRefreshTokens = `CREATE TABLE IF NOT EXISTS refresh_tokens (
	id         CHAR(36)  NOT NULL PRIMARY KEY,
	user_id    CHAR(36)  NOT NULL,
	token_hash CHAR(64)  NOT NULL,
	expires_at BIGINT    NOT NULL,
	revoked_at BIGINT    NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT uq_refresh_tokens_hash UNIQUE (token_hash),
	CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`

	createCellars = `CREATE TABLE IF NOT EXISTS cellars (
	id         CHAR(36)     NOT NULL PRIMARY KEY,
	owner_id   CHAR(36)     NOT NULL,
	name       VARCHAR(255) NOT NULL,
	layout     TEXT         NOT NULL,
	has_basket BOOLEAN      NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT fk_cellars_owner FOREIGN KEY (owner_id) REFERENCES users (id) ON DELETE CASCADE
)`

	createWines = `CREATE TABLE IF NOT EXISTS wines (
	id          CHAR(36)     NOT NULL PRIMARY KEY,
	owner_id    CHAR(36)     NOT NULL,
	name        VARCHAR(255) NOT NULL,
	producer    VARCHAR(255) NOT NULL DEFAULT '',
	country     VARCHAR(100) NOT NULL DEFAULT '',
	region      VARCHAR(255) NOT NULL DEFAULT '',
	vintage     INT          NULL,
	bought_on   CHAR(10)     NULL,
	bought_from VARCHAR(255) NOT NULL DEFAULT '',
	price       INT          NULL,
	drink_when  VARCHAR(255) NOT NULL DEFAULT '',
	drunk_on    CHAR(10)     NULL,
	note        TEXT         NOT NULL,
	created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT fk_wines_owner FOREIGN KEY (owner_id) REFERENCES users (id) ON DELETE CASCADE
)`

	// NULL rack_row/rack_col on basket rows keeps them out of the rack
	// uniqueness constraint; UNIQUE(wine_id) holds one slot per wine.
	createCellarSpaces = `CREATE TABLE IF NOT EXISTS cellar_spaces (
	id         CHAR(36)  NOT NULL PRIMARY KEY,
	cellar_id  CHAR(36)  NOT NULL,
	kind       INT       NOT NULL,
	rack_row   INT       NULL,
	rack_col   INT       NULL,
	wine_id    CHAR(36)  NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT uq_cellar_spaces_position UNIQUE (cellar_id, rack_row, rack_col),
	CONSTRAINT uq_cellar_spaces_wine UNIQUE (wine_id),
	CONSTRAINT fk_cellar_spaces_cellar FOREIGN KEY (cellar_id) REFERENCES cellars (id) ON DELETE CASCADE,
	CONSTRAINT fk_cellar_spaces_wine FOREIGN KEY (wine_id) REFERENCES wines (id) ON DELETE SET NULL
)`
)

// statements lists the schema in dependency order.
var statements = []struct {
	table string
	ddl   string
}{
	{"users", createUsers},
	{"refresh_tokens", createRefreshTokens},
	{"cellars", createCellars},
	{"wines", createWines},
	{"cellar_spaces", createCellarSpaces},
}

// Tables returns the managed table names in creation order.
func Tables() []string {
	out := make([]string, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.table)
	}
	return out
}

// Migrate creates any missing table.  It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range statements {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("migrate %s: %w", s.table, err)
		}
	}
	return nil
}

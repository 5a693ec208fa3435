package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Table creation statements per dialect.  Order matters: rentals references
// the other two tables.
var schema = map[Dialect][]string{
	MySQL: {
		`CREATE TABLE IF NOT EXISTS movies (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			title TEXT NOT NULL,
			year INT NULL,
			genre TEXT NULL,
			director TEXT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			first_name TEXT NULL,
			last_name TEXT NULL,
			email TEXT NULL,
			phone_num TEXT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS rentals (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			movie_id BIGINT UNSIGNED NOT NULL,
			customer_id BIGINT UNSIGNED NOT NULL,
			rental_date DATE NOT NULL DEFAULT (CURRENT_DATE),
			return_date DATE NULL,
			CONSTRAINT fk_rentals_movie FOREIGN KEY (movie_id) REFERENCES movies(id) ON DELETE CASCADE,
			CONSTRAINT fk_rentals_customer FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS movies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			year INTEGER,
			genre TEXT,
			director TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT,
			last_name TEXT,
			email TEXT,
			phone_num TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS rentals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			rental_date DATE NOT NULL DEFAULT CURRENT_DATE,
			return_date DATE
		)`,
	},
}

// EnsureSchema creates the movies, customers and rentals tables if they do
// not exist yet.  Existing tables and their rows are left untouched, so it
// is safe to call on every run.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts, ok := schema[d]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", d)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

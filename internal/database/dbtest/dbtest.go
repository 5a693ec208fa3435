// Package dbtest opens throwaway SQLite databases with the rental schema
// applied, and seeds rows that no command creates on its own.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iliyamo/movie-rental/internal/database"
	"github.com/iliyamo/movie-rental/internal/model"
)

// Path returns a fresh database file path inside t's temp dir.
func Path(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "rental.db")
}

// Open opens the database at path, applies the schema and closes it when
// the test ends.
func Open(t testing.TB, path string) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, dialect, err := database.Open(ctx, database.Options{Driver: "sqlite", Name: path})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.EnsureSchema(ctx, db, dialect); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

// New is Open on a fresh path.
func New(t testing.TB) *sql.DB {
	t.Helper()
	return Open(t, Path(t))
}

// SeedCustomer inserts c and sets c.ID.
func SeedCustomer(t testing.TB, db *sql.DB, c *model.Customer) {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO customers (first_name, last_name, email, phone_num) VALUES (?, ?, ?, ?)",
		c.FirstName, c.LastName, c.Email, c.PhoneNum)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatal(err)
	}
	c.ID = uint64(id)
}

// SeedMovie inserts m and sets m.ID.
func SeedMovie(t testing.TB, db *sql.DB, m *model.Movie) {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO movies (title, year, genre, director) VALUES (?, ?, ?, ?)",
		m.Title, m.Year, m.Genre, m.Director)
	if err != nil {
		t.Fatalf("seed movie: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatal(err)
	}
	m.ID = uint64(id)
}

// SeedRental inserts r with the default rental date and sets r.ID.
func SeedRental(t testing.TB, db *sql.DB, r *model.Rental) {
	t.Helper()
	res, err := db.Exec("INSERT INTO rentals (movie_id, customer_id) VALUES (?, ?)", r.MovieID, r.CustomerID)
	if err != nil {
		t.Fatalf("seed rental: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatal(err)
	}
	r.ID = uint64(id)
}

// CustomerEmail returns the stored email of customer id.
func CustomerEmail(t testing.TB, db *sql.DB, id uint64) sql.NullString {
	t.Helper()
	var email sql.NullString
	if err := db.QueryRow("SELECT email FROM customers WHERE id = ?", id).Scan(&email); err != nil {
		t.Fatalf("read email: %v", err)
	}
	return email
}

// Count returns the number of rows in table matching where (may be empty).
func Count(t testing.TB, db *sql.DB, table, where string, args ...any) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

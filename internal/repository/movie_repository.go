package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/movie-rental/internal/model"
)

// MovieRepo encapsulates the queries on the movies table.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a movie.  On success m.ID holds the generated id.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = "INSERT INTO movies (title, year, genre, director) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Year, m.Genre, m.Director)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// List returns every movie in whatever order the database yields them.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = "SELECT id, title, year, genre, director FROM movies"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Genre, &m.Director); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

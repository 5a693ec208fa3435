package model

import "database/sql"

// Movie represents a row in the `movies` table.  Only Title is required;
// Year, Genre and Director may be NULL.  Movies are created by the insert
// command and never updated or deleted by this tool.
//
// Fields:
//
//	ID       – primary key, assigned by the database.
//	Title    – title of the movie.
//	Year     – release year (nullable).
//	Genre    – genre (nullable).
//	Director – director (nullable).
type Movie struct {
	ID       uint64         // movies.id
	Title    string         // movies.title
	Year     sql.NullInt32  // movies.year
	Genre    sql.NullString // movies.genre
	Director sql.NullString // movies.director
}

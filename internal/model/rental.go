package model

import "database/sql"

// Rental represents a row in the `rentals` table.  MovieID and CustomerID
// must reference existing rows; the database enforces this and removes the
// rental when either parent is deleted.  RentalDate defaults to the day of
// insertion and ReturnDate stays NULL until the movie is returned.
type Rental struct {
	ID         uint64       // rentals.id
	MovieID    uint64       // rentals.movie_id
	CustomerID uint64       // rentals.customer_id
	RentalDate sql.NullTime // rentals.rental_date
	ReturnDate sql.NullTime // rentals.return_date
}

// Package service implements the four rental commands on top of the
// repositories.  Each operation issues one statement and reports its
// outcome as a Result instead of failing the process; the caller decides
// what the outcome means for the exit status.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/queue"
	"github.com/iliyamo/movie-rental/internal/repository"
)

// Status classifies the outcome of an operation.
type Status int

const (
	StatusOK       Status = iota // the statement ran and affected what it should
	StatusNotFound               // the statement ran but matched no row
	StatusFailed                 // the statement could not be executed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is what every operation returns.  Message is meant for the user;
// Err is set only when Status is StatusFailed.
type Result struct {
	Status  Status
	Message string
	Err     error
}

// MovieStore is the subset of repository.MovieRepo the service needs.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	List(ctx context.Context) ([]model.Movie, error)
}

// CustomerStore is the subset of repository.CustomerRepo the service needs.
type CustomerStore interface {
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, id int64) error
}

// RentalService runs the commands.  All collaborators are injected; it
// holds no connection of its own.
type RentalService struct {
	movies    MovieStore
	customers CustomerStore
	events    queue.Publisher
	log       *log.Logger
	now       func() time.Time
}

// New builds a RentalService.  A nil publisher disables events and a nil
// logger falls back to log.Default().
func New(movies MovieStore, customers CustomerStore, events queue.Publisher, logger *log.Logger) *RentalService {
	if events == nil {
		events = queue.Nop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RentalService{
		movies:    movies,
		customers: customers,
		events:    events,
		log:       logger,
		now:       time.Now,
	}
}

// InsertMovie stores one movie.  Empty genre or director are stored as NULL.
func (s *RentalService) InsertMovie(ctx context.Context, title string, year int32, genre, director string) Result {
	m := model.Movie{
		Title:    title,
		Year:     sql.NullInt32{Int32: year, Valid: true},
		Genre:    nullString(genre),
		Director: nullString(director),
	}
	if err := s.movies.Create(ctx, &m); err != nil {
		return s.failed("Error inserting movie", err)
	}
	s.publish(ctx, queue.MovieInserted, queue.MovieInsertedEvent{
		MovieID:    m.ID,
		Title:      m.Title,
		Year:       year,
		Genre:      genre,
		Director:   director,
		InsertedAt: s.stamp(),
	})
	return Result{Status: StatusOK, Message: fmt.Sprintf("Movie %q inserted successfully.", title)}
}

// ListMovies returns every stored movie, unordered.
func (s *RentalService) ListMovies(ctx context.Context) ([]model.Movie, Result) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, s.failed("Error displaying movies", err)
	}
	return movies, Result{Status: StatusOK}
}

// UpdateCustomerEmail replaces the email of customer id.
func (s *RentalService) UpdateCustomerEmail(ctx context.Context, id int64, email string) Result {
	err := s.customers.UpdateEmail(ctx, id, email)
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		return notFound(id)
	case err != nil:
		return s.failed("Error updating customer's email", err)
	}
	s.publish(ctx, queue.CustomerEmailUpdated, queue.CustomerEmailUpdatedEvent{
		CustomerID: id,
		Email:      email,
		UpdatedAt:  s.stamp(),
	})
	return Result{Status: StatusOK, Message: fmt.Sprintf("Customer email updated successfully to %q.", email)}
}

// RemoveCustomer deletes customer id together with their rental history.
func (s *RentalService) RemoveCustomer(ctx context.Context, id int64) Result {
	err := s.customers.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		return notFound(id)
	case err != nil:
		return s.failed("Error removing customer and their rental history", err)
	}
	s.publish(ctx, queue.CustomerRemoved, queue.CustomerRemovedEvent{
		CustomerID: id,
		RemovedAt:  s.stamp(),
	})
	return Result{
		Status:  StatusOK,
		Message: fmt.Sprintf("Customer with ID \"%d\" and their rental history have been removed.", id),
	}
}

func (s *RentalService) failed(op string, err error) Result {
	s.log.Printf("%s: %v", op, err)
	return Result{Status: StatusFailed, Message: op, Err: fmt.Errorf("%s: %w", op, err)}
}

// publish is best effort: a broker problem never changes the result of a
// statement that already committed.
func (s *RentalService) publish(ctx context.Context, key string, event any) {
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Printf("events: %s not published: %v", key, err)
	}
}

func (s *RentalService) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func notFound(id int64) Result {
	return Result{Status: StatusNotFound, Message: fmt.Sprintf("Customer with ID \"%d\" not found.", id)}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Package queue defines the domain events this tool emits after a
// successful change and the publishers that deliver them to a broker.
package queue

// Routing keys, used as the RabbitMQ queue name or the Redis event type.
const (
	MovieInserted        = "movie.inserted"
	CustomerEmailUpdated = "customer.email_updated"
	CustomerRemoved      = "customer.removed"
)

// MovieInsertedEvent is published when a movie row has been created.
type MovieInsertedEvent struct {
	MovieID    uint64 `json:"movie_id"`
	Title      string `json:"title"`
	Year       int32  `json:"year"`
	Genre      string `json:"genre"`
	Director   string `json:"director"`
	InsertedAt string `json:"inserted_at"`
}

// CustomerEmailUpdatedEvent is published when a customer's email changed.
type CustomerEmailUpdatedEvent struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	UpdatedAt  string `json:"updated_at"`
}

// CustomerRemovedEvent is published when a customer, and with it their
// rental history, has been deleted.
type CustomerRemovedEvent struct {
	CustomerID int64  `json:"customer_id"`
	RemovedAt  string `json:"removed_at"`
}

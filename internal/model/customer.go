package model

import "database/sql"

// Customer represents a row in the `customers` table.  All contact fields
// are optional.  The tool only ever changes Email, and deleting a customer
// removes their rentals through the foreign key cascade.
type Customer struct {
	ID        uint64         // customers.id
	FirstName sql.NullString // customers.first_name
	LastName  sql.NullString // customers.last_name
	Email     sql.NullString // customers.email
	PhoneNum  sql.NullString // customers.phone_num
}

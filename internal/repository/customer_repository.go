package repository

import (
	"context"
	"database/sql"
)

// CustomerRepo encapsulates the statements on the customers table.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// UpdateEmail sets the email of customer id.  It returns
// ErrCustomerNotFound when no row matches; no row is ever created.
func (r *CustomerRepo) UpdateEmail(ctx context.Context, id int64, email string) error {
	const q = "UPDATE customers SET email = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, email, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Delete removes customer id.  Their rentals go with it through the
// ON DELETE CASCADE foreign key.  Returns ErrCustomerNotFound when no row
// matches.
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	const q = "DELETE FROM customers WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

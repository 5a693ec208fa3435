package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-rental/internal/model"
)

const usageText = `Usage:
  insert <title> <year> <genre> <director> - Insert a movie
  show - Show all movies
  update <customer_id> <new_email> - Update a customer's email
  remove <customer_id> - Remove a customer from the database

Connection flags (override DB_* environment variables):
  --driver, --host, --port, --database, --user, --password
`

func printUsage(w io.Writer) { fmt.Fprint(w, usageText) }

// exactArgs rejects any argument count other than n.
func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return ErrUsage
		}
		return nil
	}
}

// parseID parses a customer id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid customer id %q", ErrUsage, s)
	}
	return id, nil
}

func (a *App) insertCmd() *cobra.Command {
	var year int32
	return &cobra.Command{
		Use:   "insert <title> <year> <genre> <director>",
		Short: "Insert a movie",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := exactArgs(4)(cmd, args); err != nil {
				return err
			}
			y, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("%w: invalid year %q", ErrUsage, args[1])
			}
			year = int32(y)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.opContext(cmd.Context())
			defer cancel()
			return a.report(a.svc.InsertMovie(ctx, args[0], year, args[2], args[3]))
		},
	}
}

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show all movies",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.opContext(cmd.Context())
			defer cancel()
			movies, res := a.svc.ListMovies(ctx)
			for _, m := range movies {
				fmt.Fprintln(a.out, FormatMovie(m))
			}
			return a.report(res)
		},
	}
}

func (a *App) updateCmd() *cobra.Command {
	var id int64
	return &cobra.Command{
		Use:   "update <customer_id> <new_email>",
		Short: "Update a customer's email",
		Args: func(cmd *cobra.Command, args []string) (err error) {
			if err := exactArgs(2)(cmd, args); err != nil {
				return err
			}
			id, err = parseID(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.opContext(cmd.Context())
			defer cancel()
			return a.report(a.svc.UpdateCustomerEmail(ctx, id, args[1]))
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	var id int64
	return &cobra.Command{
		Use:   "remove <customer_id>",
		Short: "Remove a customer from the database",
		Args: func(cmd *cobra.Command, args []string) (err error) {
			if err := exactArgs(1)(cmd, args); err != nil {
				return err
			}
			id, err = parseID(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.opContext(cmd.Context())
			defer cancel()
			return a.report(a.svc.RemoveCustomer(ctx, id))
		},
	}
}

// FormatMovie renders one movie row as a single line.  NULL columns print
// as NULL.
func FormatMovie(m model.Movie) string {
	year := "NULL"
	if m.Year.Valid {
		year = strconv.Itoa(int(m.Year.Int32))
	}
	return fmt.Sprintf("id=%d title=%q year=%s genre=%s director=%s",
		m.ID, m.Title, year, quoteNull(m.Genre.String, m.Genre.Valid), quoteNull(m.Director.String, m.Director.Valid))
}

func quoteNull(s string, valid bool) string {
	if !valid {
		return "NULL"
	}
	return strconv.Quote(s)
}

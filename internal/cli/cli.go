// Package cli wires configuration, storage and the rental service behind a
// cobra command tree.  One invocation opens at most one connection, runs
// one command and always releases the connection before returning.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/database"
	"github.com/iliyamo/movie-rental/internal/queue"
	"github.com/iliyamo/movie-rental/internal/repository"
	"github.com/iliyamo/movie-rental/internal/service"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0 // success, not found, or help
	ExitFailure = 1 // storage or connection error
	ExitUsage   = 2 // bad command line
)

// ErrUsage marks a command line that does not match any command.  No
// storage access happens once it is returned.
var ErrUsage = errors.New("usage")

// App holds the state of one invocation.
type App struct {
	cfg    config.Config
	out    io.Writer
	errOut io.Writer
	log    *log.Logger

	db     *sql.DB
	events queue.Publisher
	svc    *service.RentalService
}

// New creates an App writing results to out and diagnostics to errOut.
func New(cfg config.Config, out, errOut io.Writer) *App {
	return &App{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		log:    log.New(errOut, "movierental: ", log.LstdFlags),
	}
}

// Run executes the command line and returns the exit code.  The storage
// connection, if one was opened, is closed before Run returns.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	a.shutdown()

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		if reason := strings.TrimPrefix(err.Error(), ErrUsage.Error()+": "); err != ErrUsage {
			fmt.Fprintf(a.errOut, "Error: %s\n", reason)
		}
		printUsage(a.out)
		return ExitUsage
	default:
		return ExitFailure
	}
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "movierental <command> [arguments]",
		Short:         "Manage the movie rental database",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Anything that did not resolve to a subcommand is a usage error.
		Args:              func(*cobra.Command, []string) error { return ErrUsage },
		RunE:              func(*cobra.Command, []string) error { return ErrUsage },
		PersistentPreRunE: a.connect,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	root.SetHelpFunc(func(c *cobra.Command, _ []string) { printUsage(c.OutOrStdout()) })
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})
	// The help command gets its own no-op hook so it never connects.
	root.SetHelpCommand(&cobra.Command{
		Use:               "help",
		Short:             "Print usage",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run:               func(c *cobra.Command, _ []string) { printUsage(c.OutOrStdout()) },
	})

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.DBDriver, "driver", a.cfg.DBDriver, "database driver (mysql or sqlite)")
	f.StringVar(&a.cfg.DBHost, "host", a.cfg.DBHost, "database host")
	f.StringVar(&a.cfg.DBPort, "port", a.cfg.DBPort, "database port")
	f.StringVar(&a.cfg.DBName, "database", a.cfg.DBName, "database name, or file path for sqlite")
	f.StringVar(&a.cfg.DBUser, "user", a.cfg.DBUser, "database user")
	f.StringVar(&a.cfg.DBPass, "password", a.cfg.DBPass, "database password")

	root.AddCommand(a.insertCmd(), a.showCmd(), a.updateCmd(), a.removeCmd())
	return root
}

// connect opens the store and makes sure the tables exist.  A schema
// failure is logged and the command still runs, so the user sees the
// statement's own error as well.
func (a *App) connect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, dialect, err := database.Open(ctx, database.Options{
		Driver:   a.cfg.DBDriver,
		Host:     a.cfg.DBHost,
		Port:     a.cfg.DBPort,
		Name:     a.cfg.DBName,
		User:     a.cfg.DBUser,
		Password: a.cfg.DBPass,
		Timeout:  a.cfg.DBTimeout,
	})
	if err != nil {
		a.log.Printf("Error connecting to database: %v", err)
		return fmt.Errorf("connect: %w", err)
	}
	a.db = db

	sctx, cancel := a.opContext(ctx)
	defer cancel()
	if err := database.EnsureSchema(sctx, db, dialect); err != nil {
		a.log.Printf("Error creating tables: %v", err)
	}

	a.events = a.openPublisher(ctx)
	a.svc = service.New(repository.NewMovieRepo(db), repository.NewCustomerRepo(db), a.events, a.log)
	return nil
}

func (a *App) openPublisher(ctx context.Context) queue.Publisher {
	switch a.cfg.EventsDriver {
	case "", "none":
		return queue.Nop{}
	case "amqp", "rabbitmq":
		return queue.NewAMQPPublisher(a.cfg.AMQPURL)
	case "redis":
		client := config.NewRedisClient(ctx, a.cfg.Redis)
		if client == nil {
			a.log.Printf("events: redis at %s unreachable, events disabled", a.cfg.Redis.Addr)
			return queue.Nop{}
		}
		return queue.NewRedisPublisher(client, a.cfg.EventsChannel)
	default:
		a.log.Printf("events: unknown driver %q, events disabled", a.cfg.EventsDriver)
		return queue.Nop{}
	}
}

// shutdown releases everything connect acquired.  Safe to call when
// connect never ran.
func (a *App) shutdown() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.log.Printf("events: close: %v", err)
		}
		a.events = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Printf("Error closing database: %v", err)
		}
		a.db = nil
	}
	a.svc = nil
}

func (a *App) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.DBTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.DBTimeout)
}

// report prints the message of ok and not-found results.  Failures were
// already logged by the service and surface as an error for the exit code.
func (a *App) report(res service.Result) error {
	if res.Status == service.StatusFailed {
		return res.Err
	}
	if res.Message != "" {
		fmt.Fprintln(a.out, res.Message)
	}
	return nil
}

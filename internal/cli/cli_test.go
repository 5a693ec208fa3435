package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/movie-rental/internal/config"
	"github.com/iliyamo/movie-rental/internal/database/dbtest"
	"github.com/iliyamo/movie-rental/internal/model"
)

func sqliteConfig(path string) config.Config {
	return config.Config{
		DBDriver:     "sqlite",
		DBName:       path,
		DBTimeout:    5 * time.Second,
		EventsDriver: "none",
	}
}

type run struct {
	code   int
	stdout string
	stderr string
	app    *App
}

func execute(t *testing.T, cfg config.Config, args ...string) run {
	t.Helper()
	var out, errOut bytes.Buffer
	app := New(cfg, &out, &errOut)
	code := app.Run(context.Background(), args)
	return run{code: code, stdout: out.String(), stderr: errOut.String(), app: app}
}

func TestInsertThenShow(t *testing.T) {
	path := dbtest.Path(t)
	cfg := sqliteConfig(path)

	r := execute(t, cfg, "insert", "Inception", "2010", "Sci-Fi", "Christopher Nolan")
	if r.code != ExitOK {
		t.Fatalf("insert exit %d, stderr: %s", r.code, r.stderr)
	}
	if strings.TrimSpace(r.stdout) != `Movie "Inception" inserted successfully.` {
		t.Fatalf("unexpected insert output %q", r.stdout)
	}

	r = execute(t, cfg, "show")
	if r.code != ExitOK {
		t.Fatalf("show exit %d, stderr: %s", r.code, r.stderr)
	}
	want := `id=1 title="Inception" year=2010 genre="Sci-Fi" director="Christopher Nolan"`
	if strings.TrimSpace(r.stdout) != want {
		t.Fatalf("show output:\n got %q\nwant %q", r.stdout, want)
	}
}

func TestShowEmptyPrintsNothing(t *testing.T) {
	r := execute(t, sqliteConfig(dbtest.Path(t)), "show")
	if r.code != ExitOK || r.stdout != "" {
		t.Fatalf("expected silent success, got code %d stdout %q", r.code, r.stdout)
	}
}

func TestUpdateAndRemoveCustomer(t *testing.T) {
	path := dbtest.Path(t)
	db := dbtest.Open(t, path)
	c := model.Customer{Email: sql.NullString{String: "old@example.com", Valid: true}}
	dbtest.SeedCustomer(t, db, &c)
	m := model.Movie{Title: "Heat"}
	dbtest.SeedMovie(t, db, &m)
	dbtest.SeedRental(t, db, &model.Rental{MovieID: m.ID, CustomerID: c.ID})
	cfg := sqliteConfig(path)

	r := execute(t, cfg, "update", "1", "new@example.com")
	if r.code != ExitOK || !strings.Contains(r.stdout, `updated successfully to "new@example.com"`) {
		t.Fatalf("update: code %d stdout %q stderr %q", r.code, r.stdout, r.stderr)
	}
	if got := dbtest.CustomerEmail(t, db, c.ID).String; got != "new@example.com" {
		t.Fatalf("email not stored, got %q", got)
	}

	r = execute(t, cfg, "update", "42", "ghost@example.com")
	if r.code != ExitOK || strings.TrimSpace(r.stdout) != `Customer with ID "42" not found.` {
		t.Fatalf("update missing: code %d stdout %q", r.code, r.stdout)
	}

	r = execute(t, cfg, "remove", "1")
	if r.code != ExitOK || !strings.Contains(r.stdout, "rental history have been removed") {
		t.Fatalf("remove: code %d stdout %q stderr %q", r.code, r.stdout, r.stderr)
	}
	if n := dbtest.Count(t, db, "rentals", ""); n != 0 {
		t.Fatalf("rentals not cascaded, %d left", n)
	}

	r = execute(t, cfg, "remove", "1")
	if r.code != ExitOK || strings.TrimSpace(r.stdout) != `Customer with ID "1" not found.` {
		t.Fatalf("remove missing: code %d stdout %q", r.code, r.stdout)
	}
}

func TestUsageErrorsTouchNoStorage(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"no command", nil, ""},
		{"unknown command", []string{"rent", "1"}, ""},
		{"insert too few", []string{"insert", "Heat", "1995", "Crime"}, ""},
		{"insert too many", []string{"insert", "Heat", "1995", "Crime", "Mann", "extra"}, ""},
		{"insert bad year", []string{"insert", "Heat", "ninety", "Crime", "Mann"}, `invalid year "ninety"`},
		{"show with args", []string{"show", "all"}, ""},
		{"update too few", []string{"update", "1"}, ""},
		{"update bad id", []string{"update", "one", "a@b"}, `invalid customer id "one"`},
		{"remove too many", []string{"remove", "1", "2"}, ""},
		{"remove bad id", []string{"remove", "x"}, `invalid customer id "x"`},
		{"unknown flag", []string{"show", "--verbose"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "untouched.db")
			r := execute(t, sqliteConfig(path), tt.args...)
			if r.code != ExitUsage {
				t.Fatalf("expected exit %d, got %d (stderr %q)", ExitUsage, r.code, r.stderr)
			}
			if !strings.HasPrefix(r.stdout, "Usage:") {
				t.Fatalf("expected usage text, got %q", r.stdout)
			}
			if tt.reason != "" && !strings.Contains(r.stderr, tt.reason) {
				t.Fatalf("stderr %q missing %q", r.stderr, tt.reason)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("database file was created on a usage error (stat err %v)", err)
			}
		})
	}
}

func TestHelpDoesNotConnect(t *testing.T) {
	for _, args := range [][]string{{"help"}, {"--help"}, {"insert", "-h"}} {
		path := filepath.Join(t.TempDir(), "untouched.db")
		r := execute(t, sqliteConfig(path), args...)
		if r.code != ExitOK || !strings.HasPrefix(r.stdout, "Usage:") {
			t.Fatalf("%v: code %d stdout %q", args, r.code, r.stdout)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%v: help must not open the database", args)
		}
	}
}

func TestDatabaseFlagOverridesConfig(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env.db")
	flagPath := dbtest.Path(t)

	r := execute(t, sqliteConfig(envPath), "--database", flagPath, "insert", "Alien", "1979", "Horror", "Ridley Scott")
	if r.code != ExitOK {
		t.Fatalf("insert exit %d: %s", r.code, r.stderr)
	}
	if _, err := os.Stat(envPath); !os.IsNotExist(err) {
		t.Fatal("configured path should have been overridden by --database")
	}
	if n := dbtest.Count(t, dbtest.Open(t, flagPath), "movies", "title = ?", "Alien"); n != 1 {
		t.Fatalf("expected movie in flag database, found %d", n)
	}
}

func TestConnectionFailureExitsCleanly(t *testing.T) {
	cfg := sqliteConfig("")
	cfg.DBDriver = "oracle"
	r := execute(t, cfg, "show")
	if r.code != ExitFailure {
		t.Fatalf("expected exit %d, got %d", ExitFailure, r.code)
	}
	if !strings.Contains(r.stderr, "Error connecting to database") {
		t.Fatalf("expected connection error logged, got %q", r.stderr)
	}
	if r.app.db != nil {
		t.Fatal("no handle should be left behind")
	}
}

func TestStorageErrorIsLoggedAndConnectionReleased(t *testing.T) {
	path := dbtest.Path(t)
	// A movies table with the wrong columns survives schema init untouched,
	// so the insert statement itself fails.
	raw, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec("CREATE TABLE movies (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatal(err)
	}
	_ = raw.Close()

	r := execute(t, sqliteConfig(path), "insert", "Heat", "1995", "Crime", "Michael Mann")
	if r.code != ExitFailure {
		t.Fatalf("expected exit %d, got %d (stdout %q)", ExitFailure, r.code, r.stdout)
	}
	if !strings.Contains(r.stderr, "Error inserting movie") {
		t.Fatalf("expected insert error in log, got %q", r.stderr)
	}
	if r.stdout != "" {
		t.Fatalf("nothing should be printed on failure, got %q", r.stdout)
	}
	if r.app.db != nil || r.app.svc != nil {
		t.Fatal("connection must be released after a failed command")
	}
}

func TestFormatMovieNulls(t *testing.T) {
	got := FormatMovie(model.Movie{ID: 3, Title: "Untitled"})
	want := `id=3 title="Untitled" year=NULL genre=NULL director=NULL`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestOpenPublisherFallsBackToNop(t *testing.T) {
	var errOut bytes.Buffer
	app := New(config.Config{EventsDriver: "kafka"}, &bytes.Buffer{}, &errOut)
	if p := app.openPublisher(context.Background()); p == nil {
		t.Fatal("expected a publisher")
	}
	if !strings.Contains(errOut.String(), `unknown driver "kafka"`) {
		t.Fatalf("expected warning, got %q", errOut.String())
	}
}

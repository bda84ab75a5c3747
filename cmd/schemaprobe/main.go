// Command schemaprobe confirms a table is reachable and exercises an
// insert/delete cycle with a sentinel record inside a transaction that
// is always rolled back. Safe to run against a live database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/carelight/claimsbridge/internal/config"
	"github.com/carelight/claimsbridge/internal/inspect"
)

func main() {

	settings := flag.String("f", "", "path to KEY=VALUE settings file")
	table := flag.String("t", inspect.DefaultProbeTable, "table to probe")
	flag.Parse()

	cfg, err := config.Load(*settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dsn, err := inspect.EnsureDSNPassword(cfg.DatabaseDSN, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer db.Close()

	if err := inspect.ProbeSchema(context.Background(), db, *table, os.Stdout); err != nil {
		os.Exit(1)
	}
}

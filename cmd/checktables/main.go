// Command checktables verifies that every table the claims application
// expects is reachable. It prints one marker line per table and exits
// non-zero when any check failed.
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

	missing := inspect.CheckTables(context.Background(), db, inspect.ExpectedTables, os.Stdout)
	if missing > 0 {
		fmt.Printf("%d of %d tables failed the check\n", missing, len(inspect.ExpectedTables))
		os.Exit(1)
	}
	fmt.Println("all expected tables present")
}

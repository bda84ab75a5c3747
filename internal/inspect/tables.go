// Package inspect implements the operator-run database diagnostics
// behind cmd/checktables and cmd/schemaprobe. Output is written as
// human-readable lines; nothing here retries or keeps state.
package inspect

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/carelight/claimsbridge/internal/dbx"
)

// ExpectedTables is the fixed list of tables the claims application
// relies on. audit_events is the only one owned by this repo.
var ExpectedTables = []string{
	"claims",
	"intakes",
	"intake_forms",
	"patients",
	"payers",
	"audit_events",
}

// CheckTables issues a zero-row existence query per table and prints one
// marker line each. It never stops early; the return value is the number
// of tables that failed the check.
func CheckTables(ctx context.Context, db dbx.DBTX, tables []string, w io.Writer) int {
	missing := 0
	for _, table := range tables {
		rows, err := db.QueryContext(ctx, "SELECT 1 FROM "+quoteIdent(table)+" LIMIT 0")
		if err != nil {
			fmt.Fprintf(w, "FAIL  %s: %v\n", table, err)
			missing++
			continue
		}
		rows.Close()
		fmt.Fprintf(w, "ok    %s\n", table)
	}
	return missing
}

// quoteIdent quotes a postgres identifier. Table names here come from
// fixed lists or operator flags, but quoting keeps odd names working.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

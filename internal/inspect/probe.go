package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carelight/claimsbridge/internal/dbx"
)

// DefaultProbeTable is the table the schema probe targets unless the
// operator picks another one.
const DefaultProbeTable = "claims"

// ProbeSchema confirms that table is reachable, then exercises an
// insert/delete cycle with a sentinel record. The whole write cycle runs
// inside a transaction that is always rolled back, so live data is never
// mutated even when a step fails halfway.
func ProbeSchema(ctx context.Context, db *sql.DB, table string, w io.Writer) error {

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" LIMIT 0")
	if err != nil {
		fmt.Fprintf(w, "FAIL  %s unreachable: %v\n", table, err)
		return err
	}
	cols, err := rows.Columns()
	rows.Close()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "ok    %s reachable, %d columns: %s\n", table, len(cols), strings.Join(cols, ", "))

	sentinelID := "probe-" + uuid.NewString()

	err = dbx.WithRollback(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := insertSentinel(ctx, tx, table, sentinelID); err != nil {
			fmt.Fprintf(w, "FAIL  test insert: %v\n", err)
			return err
		}
		fmt.Fprintf(w, "ok    test insert (%s)\n", sentinelID)

		if err := deleteSentinel(ctx, tx, table, sentinelID); err != nil {
			fmt.Fprintf(w, "FAIL  test delete: %v\n", err)
			return err
		}
		fmt.Fprintf(w, "ok    test delete\n")
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "ok    transaction rolled back, nothing persisted\n")
	return nil
}

// insertSentinel writes one fully populated synthetic claim. The column
// set mirrors the claims application's schema; a mismatch here is
// exactly what the probe exists to surface.
func insertSentinel(ctx context.Context, tx dbx.DBTX, table, id string) error {
	query :=
		`INSERT INTO ` + quoteIdent(table) + ` (id, patient_first_name, patient_last_name, patient_dob, payer_id, cpt_code, icd10_code, charge_amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := tx.ExecContext(ctx, query,
		id, "Schema", "Probe", "1990-01-01", "PROBE-PAYER",
		"99213", "F41.9", 125.50, "draft", time.Now().UTC())
	return err
}

func deleteSentinel(ctx context.Context, tx dbx.DBTX, table, id string) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(table)+" WHERE id = $1", id)
	return err
}

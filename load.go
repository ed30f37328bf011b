package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// prepareForLoad applies the load mode before any rows are inserted.
// Replace truncates the whole target table (committed immediately, so the
// run is a full refresh); append does nothing and repeated runs duplicate
// rows unless the target enforces uniqueness.
func prepareForLoad(ctx context.Context, exec pgExecutor, target TargetTable, mode string) error {
	if mode != "replace" {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s.%s", pgIdent(target.Schema), pgIdent(target.Table))
	if _, err := exec.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("truncate %s.%s: %w", target.Schema, target.Table, err)
	}
	return nil
}

// rowCursor is the subset of *sql.Rows the loader consumes.
type rowCursor interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// batchInserter writes one batch of rows to the target table.
type batchInserter interface {
	InsertBatch(ctx context.Context, rows [][]any) error
}

// loadTable streams one source table into its target in fixed-size batches
// and returns the number of rows loaded. No ORDER BY is imposed; target row
// order is whatever the source query returns.
func loadTable(ctx context.Context, srcDB *sql.DB, src SourceDB, pool *pgxpool.Pool, from Endpoint, target TargetTable, batchSize int) (int64, error) {
	query := sourceSelect(src, from, target.SourceCols)
	rows, err := srcDB.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query source: %w", err)
	}
	defer rows.Close()

	ins := &pgBatchInserter{pool: pool, target: target}
	return loadRows(ctx, rows, ins, len(target.Columns), batchSize)
}

// sourceSelect builds the source SELECT over the original column names in
// their introspected order.
func sourceSelect(src SourceDB, from Endpoint, sourceCols []string) string {
	quoted := make([]string, len(sourceCols))
	for i, c := range sourceCols {
		quoted[i] = src.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), src.QualifiedTable(from.Database, from.Table))
}

// loadRows drains the cursor in chunks of batchSize rows, handing each chunk
// to the inserter. A chunk failure aborts immediately; chunks already
// inserted stay in place (there is no whole-table transaction and no retry).
func loadRows(ctx context.Context, cur rowCursor, ins batchInserter, width, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be > 0")
	}

	var total int64
	var batches int
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ins.InsertBatch(ctx, batch); err != nil {
			return err
		}
		total += int64(len(batch))
		batches++
		log.Printf("  batch %d: %d rows (total %d)", batches, len(batch), total)
		batch = batch[:0]
		return nil
	}

	for cur.Next() {
		vals := make([]any, width)
		ptrs := make([]any, width)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := cur.Scan(ptrs...); err != nil {
			return total, fmt.Errorf("scan source row: %w", err)
		}
		batch = append(batch, vals)

		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// pgBatchInserter inserts each batch with one multi-row INSERT inside its own
// transaction, committed as soon as the batch succeeds. That bounds the work
// lost to a mid-run failure to at most one batch.
type pgBatchInserter struct {
	pool   *pgxpool.Pool
	target TargetTable
}

func (p *pgBatchInserter) InsertBatch(ctx context.Context, rows [][]any) error {
	stmt := buildInsertStatement(p.target, len(rows))
	args := flattenRows(rows)

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// buildInsertStatement produces a multi-row INSERT with positional
// placeholders for rowCount rows over the target's normalized column list.
func buildInsertStatement(target TargetTable, rowCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.%s (", pgIdent(target.Schema), pgIdent(target.Table))
	for i, c := range target.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c))
	}
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < len(target.Columns); c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

func flattenRows(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		args = append(args, r...)
	}
	return args
}

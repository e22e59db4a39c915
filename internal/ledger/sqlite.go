package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens sqlite with sensible defaults.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteExtractor reads ledger rows from a sqlite snapshot. Table is the
// worksheet selector; each park keeps its lots in its own table.
type SQLiteExtractor struct {
	DB    *sql.DB
	Table string
}

// Records reads all rows ordered by lot number. Cell values stay raw text;
// parsing and validation happen downstream, same as the CSV source.
func (e SQLiteExtractor) Records(ctx context.Context) ([]Record, error) {
	if !tableNameRe.MatchString(e.Table) {
		return nil, fmt.Errorf("invalid ledger table name %q", e.Table)
	}
	q := fmt.Sprintf(`SELECT line, lot, base_rent, supplemental_rent, taxes_insurance,
		previous_balance, late_fee, credit, received_before_grace_cutoff
		FROM %s ORDER BY CAST(lot AS INTEGER)`, e.Table)
	rows, err := e.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var line int
		cols := make([]sql.NullString, 8)
		dest := []any{&line}
		for i := range cols {
			dest = append(dest, &cols[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		cells := make(map[string]string, 8)
		labels := []string{
			ColLot, ColBaseRent, ColSupplementalRent, ColTaxesInsurance,
			ColPreviousBalance, ColLateFee, ColCredit, ColReceived,
		}
		for i, label := range labels {
			if cols[i].Valid {
				cells[label] = cols[i].String
			}
		}
		out = append(out, Record{Line: line, Cells: cells})
	}
	return out, rows.Err()
}

// SeedRow is one demo lot used by the seed command and tests.
type SeedRow struct {
	Lot                       int
	BaseRent                  string
	SupplementalRent          string
	TaxesInsurance            string
	PreviousBalance           string
	LateFee                   string
	Credit                    string
	ReceivedBeforeGraceCutoff string
}

// Seed inserts rows into the given table, replacing any existing lot.
func Seed(ctx context.Context, db *sql.DB, table string, rows []SeedRow) error {
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("invalid ledger table name %q", table)
	}
	q := fmt.Sprintf(`INSERT OR REPLACE INTO %s
		(line, lot, base_rent, supplemental_rent, taxes_insurance,
		 previous_balance, late_fee, credit, received_before_grace_cutoff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)
	for i, r := range rows {
		_, err := db.ExecContext(ctx, q,
			i+2, // header row is line 1 in the spreadsheet this mirrors
			strconv.Itoa(r.Lot), r.BaseRent, r.SupplementalRent, r.TaxesInsurance,
			r.PreviousBalance, r.LateFee, r.Credit, r.ReceivedBeforeGraceCutoff)
		if err != nil {
			return fmt.Errorf("seed lot %d: %w", r.Lot, err)
		}
	}
	return nil
}

package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteExtractorRoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dbPath, migrations))

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows := []SeedRow{
		{Lot: 12, BaseRent: "450", SupplementalRent: "25", TaxesInsurance: "25", PreviousBalance: "0", LateFee: "0", Credit: "0", ReceivedBeforeGraceCutoff: "0"},
		{Lot: 3, BaseRent: "350", SupplementalRent: "25", TaxesInsurance: "25", PreviousBalance: "100", LateFee: "50", Credit: "-25", ReceivedBeforeGraceCutoff: "200"},
	}
	require.NoError(t, Seed(ctx, db, "lots", rows))

	recs, err := SQLiteExtractor{DB: db, Table: "lots"}.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// ordered by lot number, not insertion order
	lot, ok := recs[0].Cell(ColLot)
	require.True(t, ok)
	require.Equal(t, "3", lot)
	lot, ok = recs[1].Cell(ColLot)
	require.True(t, ok)
	require.Equal(t, "12", lot)

	credit, ok := recs[0].Cell(ColCredit)
	require.True(t, ok)
	require.Equal(t, "-25", credit)
}

func TestSQLiteExtractorRejectsBadTableName(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = SQLiteExtractor{DB: db, Table: "lots; DROP TABLE lots"}.Records(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid ledger table name")
}

func TestSeedReplacesExistingLot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	migrations, err := filepath.Abs("migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dbPath, migrations))

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	first := []SeedRow{{Lot: 1, BaseRent: "400", SupplementalRent: "0", TaxesInsurance: "0", PreviousBalance: "0", LateFee: "0", ReceivedBeforeGraceCutoff: "0"}}
	require.NoError(t, Seed(ctx, db, "lots", first))
	second := []SeedRow{{Lot: 1, BaseRent: "425", SupplementalRent: "0", TaxesInsurance: "0", PreviousBalance: "0", LateFee: "0", ReceivedBeforeGraceCutoff: "0"}}
	require.NoError(t, Seed(ctx, db, "lots", second))

	recs, err := SQLiteExtractor{DB: db, Table: "lots"}.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	rent, ok := recs[0].Cell(ColBaseRent)
	require.True(t, ok)
	require.Equal(t, "425", rent)
}

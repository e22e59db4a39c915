package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/patel-atit/latenotices/internal/balance"
	"github.com/patel-atit/latenotices/internal/ledger"
	"github.com/patel-atit/latenotices/internal/notice"
)

type stubExtractor struct {
	records []ledger.Record
	err     error
}

func (s stubExtractor) Records(ctx context.Context) ([]ledger.Record, error) {
	return s.records, s.err
}

func row(line int, lot, rent, received string) ledger.Record {
	return ledger.Record{Line: line, Cells: map[string]string{
		ledger.ColLot:              lot,
		ledger.ColBaseRent:         rent,
		ledger.ColSupplementalRent: "0",
		ledger.ColTaxesInsurance:   "0",
		ledger.ColPreviousBalance:  "0",
		ledger.ColLateFee:          "0",
		ledger.ColCredit:           "0",
		ledger.ColReceived:         received,
	}}
}

func fixedNow() time.Time {
	return time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
}

func testRegistry() notice.Registry {
	return notice.NewRegistry(map[string]notice.ParkProfile{
		"ct": {
			Name:         "Cross Timbers Mobile Home Park",
			Address:      "4507 West Oak Street",
			CityZip:      "Palestine, Texas 75801",
			ManagerPhone: "(903)600-0647",
			Email:        "crosstimbersmhp@yahoo.com",
		},
	})
}

func newService(t *testing.T, ex Extractor) (*Notices, string) {
	t.Helper()
	dir := t.TempDir()
	return &Notices{
		Extractor: ex,
		Engine:    balance.Engine{Penalty1Cents: 5000, Penalty2Cents: 10000},
		Parks:     testRegistry(),
		OutputDir: dir,
		GraceDays: 5,
		EmitEmpty: true,
		Now:       fixedNow,
	}, dir
}

func TestRunFiltersAndOrders(t *testing.T) {
	t.Parallel()

	// out of lot order on purpose; lot 2 is paid up
	svc, dir := newService(t, stubExtractor{records: []ledger.Record{
		row(2, "9", "500", "0"),
		row(3, "2", "500", "500"),
		row(4, "4", "400", "100"),
	}})

	res, err := svc.Run(context.Background(), "ct")
	require.NoError(t, err)
	require.Equal(t, 3, res.Accounts)
	require.Equal(t, 0, res.Skipped)
	require.Equal(t, 2, res.Notices)
	require.Equal(t, int64(140000), res.TotalDueCents)
	require.NotEmpty(t, res.RunID)
	require.Equal(t, filepath.Join(dir, "20260901_CT-LateNotice.txt"), res.ArtifactPath)

	data, err := os.ReadFile(res.ArtifactPath)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "Lot# 4")
	require.Contains(t, out, "Lot# 9")
	require.NotContains(t, out, "Lot# 2")
	require.Less(t, strings.Index(out, "Lot# 4"), strings.Index(out, "Lot# 9"))
}

func TestRunSkipsBadRowsWithoutAborting(t *testing.T) {
	t.Parallel()

	bad := row(2, "1", "oops", "0")
	svc, _ := newService(t, stubExtractor{records: []ledger.Record{
		bad,
		row(3, "5", "500", "0"),
	}})

	res, err := svc.Run(context.Background(), "ct")
	require.NoError(t, err)
	require.Equal(t, 1, res.Accounts)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, res.RowErrors, 1)
	require.Equal(t, ledger.ColBaseRent, res.RowErrors[0].Field)
	require.Equal(t, 1, res.Notices)
}

func TestRunEmptyLedgerStillWritesArtifact(t *testing.T) {
	t.Parallel()

	svc, dir := newService(t, stubExtractor{})
	res, err := svc.Run(context.Background(), "ct")
	require.NoError(t, err)
	require.Equal(t, 0, res.Accounts)
	require.Equal(t, 0, res.Skipped)
	require.Equal(t, 0, res.Notices)
	require.Equal(t, int64(0), res.TotalDueCents)

	path := filepath.Join(dir, "20260901_CT-LateNotice.txt")
	require.Equal(t, path, res.ArtifactPath)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestRunEmptySuppressedWhenConfigured(t *testing.T) {
	t.Parallel()

	svc, dir := newService(t, stubExtractor{records: []ledger.Record{
		row(2, "1", "500", "500"),
	}})
	svc.EmitEmpty = false

	res, err := svc.Run(context.Background(), "ct")
	require.NoError(t, err)
	require.Equal(t, 0, res.Notices)
	require.Empty(t, res.ArtifactPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRunUnknownParkFailsBeforeExtraction(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t, stubExtractor{err: errors.New("extractor should not run")})
	_, err := svc.Run(context.Background(), "sunset")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown park "sunset"`)
}

func TestRunExtractionFailureIsFatal(t *testing.T) {
	t.Parallel()

	svc, dir := newService(t, stubExtractor{err: errors.New("source unavailable")})
	_, err := svc.Run(context.Background(), "ct")
	require.Error(t, err)
	require.Contains(t, err.Error(), "extract ledger")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRunWriteFailureLeavesNoPartialArtifact(t *testing.T) {
	t.Parallel()

	svc, dir := newService(t, stubExtractor{records: []ledger.Record{
		row(2, "1", "500", "0"),
	}})
	svc.OutputDir = filepath.Join(dir, "does-not-exist")

	_, err := svc.Run(context.Background(), "ct")
	require.Error(t, err)
	_, statErr := os.Stat(svc.OutputDir)
	require.True(t, os.IsNotExist(statErr))
}

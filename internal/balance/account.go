package balance

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/patel-atit/latenotices/internal/ledger"
)

// TenantAccount is the typed balance state of one occupied lot, built
// fresh from the current ledger snapshot. All amounts are cents.
type TenantAccount struct {
	LotNumber                 int
	ExpectedMonthlyRentCents  int64 // base rent + supplemental + taxes/insurance
	PreviousBalanceCents      int64
	LateFeeCents              int64
	CreditCents               int64
	ReceivedBeforeCutoffCents int64
}

// RowError describes why one ledger row was skipped.
type RowError struct {
	Line  int
	Field string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d %s: %v", e.Line, e.Field, e.Err)
}

// BuildResult carries the accounts that validated plus the rows that did
// not. Row failures never abort the batch.
type BuildResult struct {
	Accounts []TenantAccount
	Skipped  int
	Errors   []RowError
}

// Build converts raw ledger records into tenant accounts. A row missing
// the lot column or with an unparseable required field is skipped and
// reported. Credit is the one optional field and defaults to zero.
// Accounts come back in ascending lot order regardless of input order.
func Build(records []ledger.Record) BuildResult {
	res := BuildResult{}
	for _, rec := range records {
		acct, rerr := buildOne(rec)
		if rerr != nil {
			res.Skipped++
			res.Errors = append(res.Errors, *rerr)
			continue
		}
		res.Accounts = append(res.Accounts, acct)
	}
	sort.Slice(res.Accounts, func(i, j int) bool {
		return res.Accounts[i].LotNumber < res.Accounts[j].LotNumber
	})
	return res
}

func buildOne(rec ledger.Record) (TenantAccount, *RowError) {
	lotStr, ok := rec.Cell(ledger.ColLot)
	if !ok || lotStr == "" {
		return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColLot, Err: errMissing}
	}
	lot, err := strconv.Atoi(lotStr)
	if err != nil || lot <= 0 {
		return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColLot, Err: fmt.Errorf("bad lot number %q", lotStr)}
	}

	required := func(label string) (int64, *RowError) {
		s, ok := rec.Cell(label)
		if !ok || s == "" {
			return 0, &RowError{Line: rec.Line, Field: label, Err: errMissing}
		}
		c, err := dollarsToCents(s)
		if err != nil {
			return 0, &RowError{Line: rec.Line, Field: label, Err: err}
		}
		return c, nil
	}

	base, rerr := required(ledger.ColBaseRent)
	if rerr != nil {
		return TenantAccount{}, rerr
	}
	supp, rerr := required(ledger.ColSupplementalRent)
	if rerr != nil {
		return TenantAccount{}, rerr
	}
	taxes, rerr := required(ledger.ColTaxesInsurance)
	if rerr != nil {
		return TenantAccount{}, rerr
	}
	prev, rerr := required(ledger.ColPreviousBalance)
	if rerr != nil {
		return TenantAccount{}, rerr
	}
	fee, rerr := required(ledger.ColLateFee)
	if rerr != nil {
		return TenantAccount{}, rerr
	}
	received, rerr := required(ledger.ColReceived)
	if rerr != nil {
		return TenantAccount{}, rerr
	}

	// credit is optional; an absent or blank cell means no adjustment
	var credit int64
	if s, ok := rec.Cell(ledger.ColCredit); ok && s != "" {
		credit, err = dollarsToCents(s)
		if err != nil {
			return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColCredit, Err: err}
		}
	}

	// previous_balance and credit may legitimately be negative; these may not
	if base+supp+taxes < 0 {
		return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColBaseRent, Err: fmt.Errorf("negative rent")}
	}
	if fee < 0 {
		return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColLateFee, Err: fmt.Errorf("negative late fee")}
	}
	if received < 0 {
		return TenantAccount{}, &RowError{Line: rec.Line, Field: ledger.ColReceived, Err: fmt.Errorf("negative payment")}
	}

	return TenantAccount{
		LotNumber:                 lot,
		ExpectedMonthlyRentCents:  base + supp + taxes,
		PreviousBalanceCents:      prev,
		LateFeeCents:              fee,
		CreditCents:               credit,
		ReceivedBeforeCutoffCents: received,
	}, nil
}

var errMissing = fmt.Errorf("missing required field")

func dollarsToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

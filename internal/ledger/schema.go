package ledger

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Column labels of the ledger snapshot. These are the only labels the
// pipeline reads; extra columns in a source are ignored.
const (
	ColLot              = "lot"
	ColBaseRent         = "base_rent"
	ColSupplementalRent = "supplemental_rent"
	ColTaxesInsurance   = "taxes_insurance"
	ColPreviousBalance  = "previous_balance"
	ColLateFee          = "late_fee"
	ColCredit           = "credit"
	ColReceived         = "received_before_grace_cutoff"
)

// RequiredColumns must all be present in a source header. Credit is the
// one optional column: a ledger without it means zero credit everywhere.
var RequiredColumns = []string{
	ColLot,
	ColBaseRent,
	ColSupplementalRent,
	ColTaxesInsurance,
	ColPreviousBalance,
	ColLateFee,
	ColReceived,
}

// Record is one raw per-lot row: column label -> raw cell text.
// Line is the 1-based position in the source, kept for diagnostics.
type Record struct {
	Line  int
	Cells map[string]string
}

// Cell returns the trimmed cell value and whether the column was present.
func (r Record) Cell(label string) (string, bool) {
	v, ok := r.Cells[label]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// ValidateHeader checks that every required column label appears in the
// source header. It fails fast on the first missing label, suggesting the
// closest header label so a renamed column is easy to spot.
func ValidateHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[strings.TrimSpace(strings.ToLower(h))] = true
	}
	for _, want := range RequiredColumns {
		if seen[want] {
			continue
		}
		if near := closestLabel(want, header); near != "" {
			return fmt.Errorf("ledger header missing column %q (did you mean %q?)", want, near)
		}
		return fmt.Errorf("ledger header missing column %q", want)
	}
	return nil
}

// closestLabel returns the header label nearest to want, or "" when
// nothing is plausibly close.
func closestLabel(want string, header []string) string {
	best := ""
	bestDist := len(want)/2 + 1 // anything further is noise
	for _, h := range header {
		h = strings.TrimSpace(strings.ToLower(h))
		if h == "" {
			continue
		}
		d := levenshtein.ComputeDistance(want, h)
		if d < bestDist {
			bestDist = d
			best = h
		}
	}
	return best
}

package balance

// DueAmounts is the evaluated balance of one account. Amounts are cents.
// AfterGraceCents and AfterSecondGraceCents are only meaningful when
// Delinquent is true.
type DueAmounts struct {
	AmountDueCents        int64
	AfterGraceCents       int64
	AfterSecondGraceCents int64
	Delinquent            bool
}

// Engine evaluates accounts with the configured grace penalties.
type Engine struct {
	Penalty1Cents int64
	Penalty2Cents int64
}

// Evaluate applies the arrears formula. Credit is added as-is: a negative
// credit reduces the amount due.
func (e Engine) Evaluate(a TenantAccount) DueAmounts {
	due := a.ExpectedMonthlyRentCents + a.LateFeeCents + a.PreviousBalanceCents + a.CreditCents
	d := DueAmounts{AmountDueCents: due}
	if due > a.ReceivedBeforeCutoffCents {
		d.Delinquent = true
		outstanding := due - a.ReceivedBeforeCutoffCents
		d.AfterGraceCents = outstanding + e.Penalty1Cents
		d.AfterSecondGraceCents = outstanding + e.Penalty2Cents
	}
	return d
}

// TotalDueCents sums amount due across all accounts. Audit output only;
// rendering never reads it.
func (e Engine) TotalDueCents(accounts []TenantAccount) int64 {
	var total int64
	for _, a := range accounts {
		total += e.Evaluate(a).AmountDueCents
	}
	return total
}

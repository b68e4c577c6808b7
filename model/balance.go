package model

// BalanceAmount is one status bucket of an account balance. Amount is the net
// of credits and debits signed by the account's normal balance convention.
type BalanceAmount struct {
	Credits  int64  `json:"credits"`
	Debits   int64  `json:"debits"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type BalanceSnapshot struct {
	PendingBalance BalanceAmount `json:"pending_balance"`
	PostedBalance  BalanceAmount `json:"posted_balance"`
}

// net applies the normal balance sign convention: a credit normal account
// reports credits minus debits, a debit normal account the reverse.
func net(credits, debits int64, normalBalance NormalBalanceType) int64 {
	if normalBalance == NormalBalanceCredit {
		return credits - debits
	}
	return debits - credits
}

// AccumulateBalances folds a set of transactions into the pending and posted
// balance buckets of one account. Archived transactions and transactions with
// no entry against the account are skipped. The fold is associative, so the
// result is independent of transaction order, and it has no side effects on
// its inputs.
func AccumulateBalances(accountID string, normalBalance NormalBalanceType, currency string, transactions []LedgerTransaction) BalanceSnapshot {
	var pendingCredits, pendingDebits, postedCredits, postedDebits int64

	for i := range transactions {
		transaction := &transactions[i]
		if transaction.Status == StatusArchived {
			continue
		}
		entry := transaction.EntryForAccount(accountID)
		if entry == nil {
			continue
		}
		switch {
		case transaction.Status == StatusPending && entry.Direction == DirectionCredit:
			pendingCredits += entry.Amount
		case transaction.Status == StatusPending && entry.Direction == DirectionDebit:
			pendingDebits += entry.Amount
		case transaction.Status == StatusPosted && entry.Direction == DirectionCredit:
			postedCredits += entry.Amount
		case transaction.Status == StatusPosted && entry.Direction == DirectionDebit:
			postedDebits += entry.Amount
		}
	}

	return BalanceSnapshot{
		PendingBalance: BalanceAmount{
			Credits:  pendingCredits,
			Debits:   pendingDebits,
			Amount:   net(pendingCredits, pendingDebits, normalBalance),
			Currency: currency,
		},
		PostedBalance: BalanceAmount{
			Credits:  postedCredits,
			Debits:   postedDebits,
			Amount:   net(postedCredits, postedDebits, normalBalance),
			Currency: currency,
		},
	}
}

// EntryTotals sums request entries per direction. Used to enforce the double
// entry invariant before a transaction is accepted.
func EntryTotals(entries []RequestLedgerEntry) (credits int64, debits int64) {
	for _, entry := range entries {
		if entry.Direction == DirectionCredit {
			credits += entry.Amount
		} else {
			debits += entry.Amount
		}
	}
	return credits, debits
}

package model

import "time"

// NormalBalanceType is the accounting convention of an account: a credit
// normal account (liabilities, revenue) grows with credits, a debit normal
// account (assets, expenses) grows with debits.
type NormalBalanceType string

const (
	NormalBalanceCredit NormalBalanceType = "credit"
	NormalBalanceDebit  NormalBalanceType = "debit"
)

type LedgerAccount struct {
	LedgerAccountID string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	NormalBalance   NormalBalanceType `json:"normal_balance"`
	LedgerID        string            `json:"ledger_id"`
	LockVersion     int64             `json:"lock_version"`
	MetaData        map[string]string `json:"metadata"`
	LiveMode        bool              `json:"live_mode"`
	Balances        BalanceSnapshot   `json:"balances"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Clone returns a copy whose metadata map does not alias the original.
func (account *LedgerAccount) Clone() LedgerAccount {
	cloned := *account
	cloned.MetaData = CopyMetadata(account.MetaData)
	return cloned
}

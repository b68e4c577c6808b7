package model

import (
	"encoding/json"
	"time"
)

const (
	StatusPending  = "pending"
	StatusPosted   = "posted"
	StatusArchived = "archived"
)

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// LedgerEntry is one leg of a transaction against one account. LockVersion is
// only set when the caller asserted an account version on the request entry.
type LedgerEntry struct {
	EntryID         string `json:"id"`
	LedgerAccountID string `json:"ledger_account_id"`
	Direction       string `json:"direction"`
	Amount          int64  `json:"amount"`
	LockVersion     *int64 `json:"lock_version,omitempty"`
	LiveMode        bool   `json:"live_mode"`
}

type LedgerTransaction struct {
	TransactionID string            `json:"id"`
	Description   string            `json:"description,omitempty"`
	Status        string            `json:"status"`
	MetaData      map[string]string `json:"metadata"`
	Entries       []LedgerEntry     `json:"ledger_entries"`
	PostedAt      *time.Time        `json:"posted_at,omitempty"`
	EffectiveDate time.Time         `json:"effective_date"`
	LedgerID      string            `json:"ledger_id"`
	ExternalID    string            `json:"external_id,omitempty"`
	LiveMode      bool              `json:"live_mode"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (transaction *LedgerTransaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// Clone returns a deep copy. Stored transactions are immutable values; every
// read hands out a clone so callers can never alias simulator state.
func (transaction *LedgerTransaction) Clone() LedgerTransaction {
	cloned := *transaction
	cloned.MetaData = CopyMetadata(transaction.MetaData)
	cloned.Entries = make([]LedgerEntry, len(transaction.Entries))
	for i, entry := range transaction.Entries {
		if entry.LockVersion != nil {
			lockVersion := *entry.LockVersion
			entry.LockVersion = &lockVersion
		}
		cloned.Entries[i] = entry
	}
	if transaction.PostedAt != nil {
		postedAt := *transaction.PostedAt
		cloned.PostedAt = &postedAt
	}
	return cloned
}

// MatchesMetadata reports whether every key in the query is present on the
// transaction with an equal value. The relation is a subset match, not an
// equality: extra transaction keys never disqualify a match, extra query keys
// always do. An empty query matches everything.
func (transaction *LedgerTransaction) MatchesMetadata(query map[string]string) bool {
	for k, want := range query {
		got, ok := transaction.MetaData[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// EntryForAccount returns the entry of this transaction touching the given
// account, or nil when the account is not part of the transaction.
func (transaction *LedgerTransaction) EntryForAccount(accountID string) *LedgerEntry {
	for i := range transaction.Entries {
		if transaction.Entries[i].LedgerAccountID == accountID {
			return &transaction.Entries[i]
		}
	}
	return nil
}

package model

import "time"

type Ledger struct {
	LedgerID    string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Currency    string            `json:"currency"`
	MetaData    map[string]string `json:"metadata"`
	LiveMode    bool              `json:"live_mode"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Clone returns a copy whose metadata map does not alias the original.
func (ledger *Ledger) Clone() Ledger {
	cloned := *ledger
	cloned.MetaData = CopyMetadata(ledger.MetaData)
	return cloned
}

package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateLedgerRequest struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Currency       string            `json:"currency"`
	MetaData       map[string]string `json:"metadata,omitempty"`
	IdempotencyKey string            `json:"-"`
}

func (l *CreateLedgerRequest) ValidateCreateLedger() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Name, validation.Required),
		validation.Field(&l.Currency, validation.Required),
	)
}

type CreateLedgerAccountRequest struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	NormalBalance  NormalBalanceType `json:"normal_balance"`
	LedgerID       string            `json:"ledger_id"`
	MetaData       map[string]string `json:"metadata,omitempty"`
	IdempotencyKey string            `json:"-"`
}

func (a *CreateLedgerAccountRequest) ValidateCreateLedgerAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.LedgerID, validation.Required),
		validation.Field(&a.NormalBalance, validation.Required, validation.In(NormalBalanceCredit, NormalBalanceDebit)),
	)
}

// RequestLedgerEntry is one requested leg of a transaction. LockVersion, when
// set, asserts the current version of the referenced account at posting time.
type RequestLedgerEntry struct {
	Amount          int64  `json:"amount"`
	Direction       string `json:"direction"`
	LedgerAccountID string `json:"ledger_account_id"`
	LockVersion     *int64 `json:"lock_version,omitempty"`
}

func (e RequestLedgerEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.LedgerAccountID, validation.Required),
		validation.Field(&e.Direction, validation.Required, validation.In(DirectionCredit, DirectionDebit)),
	)
}

type CreateLedgerTransactionRequest struct {
	Description    string               `json:"description,omitempty"`
	Status         string               `json:"status,omitempty"`
	MetaData       map[string]string    `json:"metadata,omitempty"`
	Entries        []RequestLedgerEntry `json:"ledger_entries"`
	EffectiveDate  time.Time            `json:"effective_date,omitempty"`
	ExternalID     string               `json:"external_id,omitempty"`
	IdempotencyKey string               `json:"-"`
}

func (t *CreateLedgerTransactionRequest) ValidateCreateLedgerTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Entries, validation.Required, validation.By(validateEntries(t.Entries))),
		validation.Field(&t.Status, validation.In(StatusPending, StatusPosted, StatusArchived)),
	)
}

// UpdateLedgerTransactionRequest mutates a pending transaction. Nil fields
// keep the stored value; metadata values of nil unset the key.
type UpdateLedgerTransactionRequest struct {
	TransactionID string               `json:"id"`
	Description   *string              `json:"description,omitempty"`
	Status        *string              `json:"status,omitempty"`
	MetaData      map[string]*string   `json:"metadata,omitempty"`
	Entries       []RequestLedgerEntry `json:"ledger_entries,omitempty"`
}

func (t *UpdateLedgerTransactionRequest) ValidateUpdateLedgerTransaction() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.TransactionID, validation.Required),
		validation.Field(&t.Entries, validation.When(t.Entries != nil, validation.By(validateEntries(t.Entries)))),
		validation.Field(&t.Status, validation.When(t.Status != nil, validation.By(func(value interface{}) error {
			var status string
			switch v := value.(type) {
			case *string:
				if v == nil {
					return nil
				}
				status = *v
			case string:
				status = v
			default:
				return errors.New("invalid status type")
			}
			switch status {
			case StatusPending, StatusPosted, StatusArchived:
				return nil
			}
			return errors.New("status must be one of pending, posted or archived")
		}))),
	)
}

// Mutates reports whether the request carries any change at all. A request
// with every field unset is a legal no-op resubmission even against a posted
// transaction.
func (t *UpdateLedgerTransactionRequest) Mutates() bool {
	return t.Description != nil || t.Status != nil || t.Entries != nil || len(t.MetaData) > 0
}

func validateEntries(entries []RequestLedgerEntry) validation.RuleFunc {
	return func(value interface{}) error {
		for _, entry := range entries {
			if err := entry.Validate(); err != nil {
				return err
			}
		}
		return nil
	}
}

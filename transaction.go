/*
Copyright 2026 Treasury Go Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearbooks/treasury-go/internal/apierror"
	"github.com/clearbooks/treasury-go/model"
)

var txTracer = otel.Tracer("treasury.transactions")

// CreateLedgerTransaction records a balanced set of entries against one
// ledger. A non-empty idempotency key replays the previously created
// transaction without re-validation; posting validates every asserted lock
// version before any account is touched, so a conflict leaves no state
// change at all.
func (f *FakeClient) CreateLedgerTransaction(ctx context.Context, req model.CreateLedgerTransactionRequest) (*model.LedgerTransaction, error) {
	_, span := txTracer.Start(ctx, "CreateLedgerTransaction")
	defer span.End()

	if err := req.ValidateCreateLedgerTransaction(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if req.IdempotencyKey != "" {
		if existingID, ok := f.idempotency[req.IdempotencyKey]; ok {
			span.AddEvent("Idempotent replay", trace.WithAttributes(attribute.String("transaction.id", existingID)))
			existing := f.transactions[f.txIndex[existingID]].Clone()
			return &existing, nil
		}
	}

	if req.ExternalID != "" {
		for i := range f.transactions {
			if f.transactions[i].ExternalID == req.ExternalID {
				err := apierror.NewAPIError(apierror.ErrDuplicateExternalID, fmt.Sprintf("external id %s has already been used", req.ExternalID), "external_id")
				span.RecordError(err)
				return nil, err
			}
		}
	}

	// The ledger is the one owning the first entry's account.
	firstAccount, ok := f.accounts[req.Entries[0].LedgerAccountID]
	if !ok {
		err := apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger account %s not found", req.Entries[0].LedgerAccountID), "ledger_account_id")
		span.RecordError(err)
		return nil, err
	}

	entries, err := f.reifyEntries(req.Entries, firstAccount.LedgerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}

	now := time.Now()
	var postedAt *time.Time
	if status != model.StatusPending {
		postedAt = &now
	}
	effectiveDate := req.EffectiveDate
	if effectiveDate.IsZero() {
		effectiveDate = now
	}

	transaction := model.LedgerTransaction{
		TransactionID: model.GenerateUUIDWithPrefix("ltx"),
		Description:   req.Description,
		Status:        status,
		MetaData:      model.CopyMetadata(req.MetaData),
		Entries:       entries,
		PostedAt:      postedAt,
		EffectiveDate: effectiveDate,
		LedgerID:      firstAccount.LedgerID,
		ExternalID:    req.ExternalID,
		LiveMode:      f.liveMode,
		CreatedAt:     now,
	}

	if status == model.StatusPosted {
		touched, err := f.validateLockVersions(entries)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		f.bumpLockVersions(touched)
	}

	f.insertTransaction(transaction)
	if req.IdempotencyKey != "" {
		f.idempotency[req.IdempotencyKey] = transaction.TransactionID
	}

	logrus.WithFields(logrus.Fields{
		"transaction": transaction.TransactionID,
		"status":      transaction.Status,
	}).Debug("ledger transaction created")
	span.AddEvent("Ledger transaction created", trace.WithAttributes(attribute.String("transaction.id", transaction.TransactionID)))
	cloned := transaction.Clone()
	return &cloned, nil
}

// UpdateLedgerTransaction mutates a pending transaction. A transaction that
// has left pending is terminal: any further change attempt fails, only an
// empty resubmission is accepted.
func (f *FakeClient) UpdateLedgerTransaction(ctx context.Context, req model.UpdateLedgerTransactionRequest) (*model.LedgerTransaction, error) {
	_, span := txTracer.Start(ctx, "UpdateLedgerTransaction")
	defer span.End()

	if err := req.ValidateUpdateLedgerTransaction(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i, ok := f.txIndex[req.TransactionID]
	if !ok {
		err := apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger transaction %s not found", req.TransactionID), "id")
		span.RecordError(err)
		return nil, err
	}
	existing := f.transactions[i]

	if existing.Status != model.StatusPending {
		if req.Mutates() {
			err := apierror.NewAPIError(apierror.ErrAlreadyPosted, fmt.Sprintf("ledger transaction %s is %s and can no longer change", existing.TransactionID, existing.Status), "status")
			span.RecordError(err)
			return nil, err
		}
		unchanged := existing.Clone()
		return &unchanged, nil
	}

	updated := existing.Clone()
	if req.Entries != nil {
		entries, err := f.reifyEntries(req.Entries, existing.LedgerID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		updated.Entries = entries
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	updated.MetaData = model.MergeMetadata(existing.MetaData, req.MetaData)
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if updated.Status != model.StatusPending && updated.PostedAt == nil {
		now := time.Now()
		updated.PostedAt = &now
	}

	if updated.Status == model.StatusPosted {
		touched, err := f.validateLockVersions(updated.Entries)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		f.bumpLockVersions(touched)
	}

	f.replaceTransaction(updated)

	span.AddEvent("Ledger transaction updated", trace.WithAttributes(
		attribute.String("transaction.id", updated.TransactionID),
		attribute.String("transaction.status", updated.Status),
	))
	cloned := updated.Clone()
	return &cloned, nil
}

// GetLedgerTransaction retrieves one transaction by id.
func (f *FakeClient) GetLedgerTransaction(ctx context.Context, id string) (*model.LedgerTransaction, error) {
	_, span := txTracer.Start(ctx, "GetLedgerTransaction")
	defer span.End()

	f.mu.RLock()
	defer f.mu.RUnlock()

	i, ok := f.txIndex[id]
	if !ok {
		err := apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger transaction %s not found", id), "id")
		span.RecordError(err)
		return nil, err
	}

	transaction := f.transactions[i].Clone()
	span.AddEvent("Ledger transaction retrieved", trace.WithAttributes(attribute.String("transaction.id", id)))
	return &transaction, nil
}

// GetLedgerTransactions lists transactions filtered by ledger and metadata.
// The metadata filter is a subset match and deliberately asymmetric: extra
// keys on a stored transaction never disqualify it.
func (f *FakeClient) GetLedgerTransactions(ctx context.Context, query TransactionQuery) (*Page[model.LedgerTransaction], error) {
	_, span := txTracer.Start(ctx, "GetLedgerTransactions")
	defer span.End()

	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []model.LedgerTransaction
	for i := range f.transactions {
		transaction := &f.transactions[i]
		if query.LedgerID != "" && transaction.LedgerID != query.LedgerID {
			continue
		}
		if !transaction.MatchesMetadata(query.Metadata) {
			continue
		}
		matched = append(matched, transaction.Clone())
	}

	span.AddEvent("Ledger transactions retrieved", trace.WithAttributes(attribute.Int("transaction.count", len(matched))))
	return paginate(matched, query.Page, query.PerPage, len(matched)), nil
}

// reifyEntries turns request entries into stored entries with generated ids,
// enforcing that every account exists, that all entries stay on one ledger,
// that no amount is negative and that credits balance debits. Callers must
// hold the write lock.
func (f *FakeClient) reifyEntries(reqEntries []model.RequestLedgerEntry, ledgerID string) ([]model.LedgerEntry, error) {
	entries := make([]model.LedgerEntry, 0, len(reqEntries))
	for _, reqEntry := range reqEntries {
		account, ok := f.accounts[reqEntry.LedgerAccountID]
		if !ok {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger account %s not found", reqEntry.LedgerAccountID), "ledger_account_id")
		}
		if account.LedgerID != ledgerID {
			return nil, apierror.NewAPIError(apierror.ErrInconsistentLedgerUsage, fmt.Sprintf("ledger account %s belongs to ledger %s, not %s", account.LedgerAccountID, account.LedgerID, ledgerID), "ledger_account_id")
		}
		if reqEntry.Amount < 0 {
			return nil, apierror.NewAPIError(apierror.ErrInvalidAmount, fmt.Sprintf("entry amount %d must not be negative", reqEntry.Amount), "amount")
		}
		// copy the asserted version so the stored entry never aliases the
		// caller's request value
		var lockVersion *int64
		if reqEntry.LockVersion != nil {
			asserted := *reqEntry.LockVersion
			lockVersion = &asserted
		}
		entries = append(entries, model.LedgerEntry{
			EntryID:         model.GenerateUUIDWithPrefix("len"),
			LedgerAccountID: reqEntry.LedgerAccountID,
			Direction:       reqEntry.Direction,
			Amount:          reqEntry.Amount,
			LockVersion:     lockVersion,
			LiveMode:        f.liveMode,
		})
	}

	credits, debits := model.EntryTotals(reqEntries)
	if credits != debits {
		return nil, apierror.NewAPIError(apierror.ErrUnbalancedEntries, fmt.Sprintf("credits %d do not balance debits %d", credits, debits), "ledger_entries")
	}
	return entries, nil
}

// validateLockVersions is the first phase of posting: every asserted lock
// version is checked against its account before any increment happens, so a
// stale assertion anywhere aborts the whole transaction. It returns the
// distinct touched account ids for the second phase.
func (f *FakeClient) validateLockVersions(entries []model.LedgerEntry) ([]string, error) {
	seen := make(map[string]bool, len(entries))
	touched := make([]string, 0, len(entries))
	for _, entry := range entries {
		account, ok := f.accounts[entry.LedgerAccountID]
		if !ok {
			// the account can vanish between creation and posting when a
			// test reset cleared the store
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger account %s not found", entry.LedgerAccountID), "ledger_account_id")
		}
		if entry.LockVersion != nil && *entry.LockVersion != account.LockVersion {
			return nil, apierror.NewAPIError(
				apierror.ErrVersionConflict,
				fmt.Sprintf("ledger account %s is at lock version %d, request asserted %d", account.LedgerAccountID, account.LockVersion, *entry.LockVersion),
				"lock_version",
			)
		}
		if !seen[entry.LedgerAccountID] {
			seen[entry.LedgerAccountID] = true
			touched = append(touched, entry.LedgerAccountID)
		}
	}
	return touched, nil
}

// bumpLockVersions is the second phase of posting: each touched account's
// lock version goes up by exactly one, applied unconditionally after
// validation succeeded for all of them.
func (f *FakeClient) bumpLockVersions(accountIDs []string) {
	for _, id := range accountIDs {
		account := f.accounts[id]
		account.LockVersion++
		f.accounts[id] = account
	}
}

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearbooks/treasury-go/internal/apierror"
	"github.com/clearbooks/treasury-go/model"
)

var ledgerTracer = otel.Tracer("treasury.ledgers")

// CreateLedger creates a new ledger with a generated id. Ledger creation is
// not idempotency-checked; the idempotency key only guards transactions.
func (f *FakeClient) CreateLedger(ctx context.Context, req model.CreateLedgerRequest) (*model.Ledger, error) {
	_, span := ledgerTracer.Start(ctx, "CreateLedger")
	defer span.End()

	if err := req.ValidateCreateLedger(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}

	ledger := model.Ledger{
		LedgerID:    model.GenerateUUIDWithPrefix("ldg"),
		Name:        req.Name,
		Description: req.Description,
		Currency:    req.Currency,
		MetaData:    model.CopyMetadata(req.MetaData),
		LiveMode:    f.liveMode,
		CreatedAt:   time.Now(),
	}

	f.mu.Lock()
	f.ledgers[ledger.LedgerID] = ledger
	f.mu.Unlock()

	span.AddEvent("Ledger created", trace.WithAttributes(attribute.String("ledger.id", ledger.LedgerID)))
	cloned := ledger.Clone()
	return &cloned, nil
}

// DeleteLedger removes a ledger. Accounts and transactions that referenced it
// are left in place; they only hold the ledger by id.
func (f *FakeClient) DeleteLedger(ctx context.Context, id string) error {
	_, span := ledgerTracer.Start(ctx, "DeleteLedger")
	defer span.End()

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ledgers[id]; !ok {
		err := apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger %s not found", id), "id")
		span.RecordError(err)
		return err
	}
	delete(f.ledgers, id)

	span.AddEvent("Ledger deleted", trace.WithAttributes(attribute.String("ledger.id", id)))
	return nil
}

// GetTestLedgers returns the ledgers matching the given ids, skipping ids
// that do not exist. Test helper, not part of the LedgerClient surface.
func (f *FakeClient) GetTestLedgers(ids []string) []model.Ledger {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []model.Ledger
	for _, id := range ids {
		if ledger, ok := f.ledgers[id]; ok {
			matched = append(matched, ledger.Clone())
		}
	}
	return matched
}

// ClearAllTestLedgers destructively clears every ledger and account. Test
// helper, covered by the same lock as production mutations.
func (f *FakeClient) ClearAllTestLedgers() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ledgers = make(map[string]model.Ledger)
	f.accounts = make(map[string]model.LedgerAccount)
}

// ClearAllTestTransactions destructively clears every transaction and the
// idempotency index, and resets each account's lock version.
func (f *FakeClient) ClearAllTestTransactions() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactions = nil
	f.txIndex = make(map[string]int)
	f.idempotency = make(map[string]string)
	for id, account := range f.accounts {
		account.LockVersion = 0
		f.accounts[id] = account
	}
}

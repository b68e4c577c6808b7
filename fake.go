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
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/clearbooks/treasury-go/model"
)

var fakeTracer = otel.Tracer("treasury.fake")

// FakeClient emulates the remote ledger service entirely in memory with the
// same validation, optimistic concurrency and idempotency semantics. One
// RWMutex covers the whole store: mutations take the exclusive lock, reads
// the shared lock, so readers always see a consistent snapshot.
//
// Known divergences from the real service, all deliberate:
//   - idempotency records never expire (the real API retains them for 24h)
//   - asOfDate on account reads is accepted and ignored; balances are always
//     current
//   - no rate limiting; every operation returns immediately
type FakeClient struct {
	mu sync.RWMutex

	ledgers      map[string]model.Ledger
	accounts     map[string]model.LedgerAccount
	transactions []model.LedgerTransaction
	txIndex      map[string]int    // transaction id -> position in transactions
	idempotency  map[string]string // idempotency key -> transaction id

	liveMode bool
}

// NewFakeClient returns an empty fake ledger service.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		ledgers:     make(map[string]model.Ledger),
		accounts:    make(map[string]model.LedgerAccount),
		txIndex:     make(map[string]int),
		idempotency: make(map[string]string),
	}
}

var _ LedgerClient = (*FakeClient)(nil)

// Ping reports fake mode. It touches no state and always succeeds.
func (f *FakeClient) Ping(ctx context.Context) (map[string]string, error) {
	_, span := fakeTracer.Start(ctx, "Ping")
	defer span.End()

	return map[string]string{
		"fake":   "true",
		"status": "ok",
	}, nil
}

// transactionsForLedger snapshots every transaction of one ledger. Callers
// must hold at least the read lock.
func (f *FakeClient) transactionsForLedger(ledgerID string) []model.LedgerTransaction {
	var matched []model.LedgerTransaction
	for _, transaction := range f.transactions {
		if transaction.LedgerID == ledgerID {
			matched = append(matched, transaction)
		}
	}
	return matched
}

// replaceTransaction swaps the stored transaction for an updated instance.
// Callers must hold the write lock.
func (f *FakeClient) replaceTransaction(updated model.LedgerTransaction) {
	if i, ok := f.txIndex[updated.TransactionID]; ok {
		f.transactions[i] = updated
	}
}

// insertTransaction appends a new transaction and indexes it by id. Callers
// must hold the write lock.
func (f *FakeClient) insertTransaction(transaction model.LedgerTransaction) {
	f.txIndex[transaction.TransactionID] = len(f.transactions)
	f.transactions = append(f.transactions, transaction)
}

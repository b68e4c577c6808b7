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

var accountTracer = otel.Tracer("treasury.accounts")

// CreateLedgerAccount creates an account on an existing ledger with lock
// version zero and zero balances in the ledger's currency.
func (f *FakeClient) CreateLedgerAccount(ctx context.Context, req model.CreateLedgerAccountRequest) (*model.LedgerAccount, error) {
	_, span := accountTracer.Start(ctx, "CreateLedgerAccount")
	defer span.End()

	if err := req.ValidateCreateLedgerAccount(); err != nil {
		span.RecordError(err)
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ledger, ok := f.ledgers[req.LedgerID]
	if !ok {
		err := apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger %s not found", req.LedgerID), "ledger_id")
		span.RecordError(err)
		return nil, err
	}

	account := model.LedgerAccount{
		LedgerAccountID: model.GenerateUUIDWithPrefix("lac"),
		Name:            req.Name,
		Description:     req.Description,
		NormalBalance:   req.NormalBalance,
		LedgerID:        ledger.LedgerID,
		LockVersion:     0,
		MetaData:        model.CopyMetadata(req.MetaData),
		LiveMode:        f.liveMode,
		Balances:        model.AccumulateBalances("", req.NormalBalance, ledger.Currency, nil),
		CreatedAt:       time.Now(),
	}
	f.accounts[account.LedgerAccountID] = account

	span.AddEvent("Ledger account created", trace.WithAttributes(attribute.String("account.id", account.LedgerAccountID)))
	cloned := account.Clone()
	return &cloned, nil
}

// GetLedgerAccount returns an account with balances recomputed over every
// non-archived transaction of its ledger. asOfDate is accepted and ignored;
// the fake always reports current balances.
func (f *FakeClient) GetLedgerAccount(ctx context.Context, id string, asOfDate *time.Time) (*model.LedgerAccount, error) {
	_, span := accountTracer.Start(ctx, "GetLedgerAccount")
	defer span.End()

	f.mu.RLock()
	defer f.mu.RUnlock()

	account, err := f.accountWithBalances(id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.AddEvent("Ledger account retrieved", trace.WithAttributes(attribute.String("account.id", id)))
	return account, nil
}

// GetLedgerAccounts is the batched form of GetLedgerAccount. Ids that do not
// resolve are dropped; the total count reflects the ids that were found.
func (f *FakeClient) GetLedgerAccounts(ctx context.Context, ids []string, asOfDate *time.Time, page, perPage int) (*Page[model.LedgerAccount], error) {
	_, span := accountTracer.Start(ctx, "GetLedgerAccounts")
	defer span.End()

	f.mu.RLock()
	defer f.mu.RUnlock()

	var matched []model.LedgerAccount
	for _, id := range ids {
		account, err := f.accountWithBalances(id)
		if err != nil {
			continue
		}
		matched = append(matched, *account)
	}

	span.AddEvent("Ledger accounts retrieved", trace.WithAttributes(attribute.Int("account.count", len(matched))))
	return paginate(matched, page, perPage, len(matched)), nil
}

// accountWithBalances resolves an account and annotates a clone of it with a
// fresh balance snapshot. Callers must hold at least the read lock.
func (f *FakeClient) accountWithBalances(id string) (*model.LedgerAccount, error) {
	stored, ok := f.accounts[id]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger account %s not found", id), "id")
	}
	ledger, ok := f.ledgers[stored.LedgerID]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("ledger %s not found", stored.LedgerID), "ledger_id")
	}

	account := stored.Clone()
	account.Balances = model.AccumulateBalances(
		account.LedgerAccountID,
		account.NormalBalance,
		ledger.Currency,
		f.transactionsForLedger(account.LedgerID),
	)
	return &account, nil
}

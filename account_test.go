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
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearbooks/treasury-go/internal/apierror"
	"github.com/clearbooks/treasury-go/model"
)

func newTestLedger(t *testing.T, fake *FakeClient, currency string) *model.Ledger {
	t.Helper()
	ledger, err := fake.CreateLedger(context.Background(), model.CreateLedgerRequest{
		Name:     gofakeit.Company(),
		Currency: currency,
	})
	require.NoError(t, err)
	return ledger
}

func newTestAccount(t *testing.T, fake *FakeClient, ledgerID string, normalBalance model.NormalBalanceType) *model.LedgerAccount {
	t.Helper()
	account, err := fake.CreateLedgerAccount(context.Background(), model.CreateLedgerAccountRequest{
		Name:          gofakeit.Word(),
		LedgerID:      ledgerID,
		NormalBalance: normalBalance,
	})
	require.NoError(t, err)
	return account
}

func TestCreateLedgerAccount(t *testing.T) {
	fake := NewFakeClient()
	ledger := newTestLedger(t, fake, "usd")

	account, err := fake.CreateLedgerAccount(context.Background(), model.CreateLedgerAccountRequest{
		Name:          "cash",
		LedgerID:      ledger.LedgerID,
		NormalBalance: model.NormalBalanceCredit,
		MetaData:      map[string]string{"kind": "operational"},
	})
	require.NoError(t, err)

	assert.Contains(t, account.LedgerAccountID, "lac_")
	assert.Equal(t, ledger.LedgerID, account.LedgerID)
	assert.Equal(t, int64(0), account.LockVersion)
	assert.Equal(t, "usd", account.Balances.PendingBalance.Currency)
	assert.Zero(t, account.Balances.PendingBalance.Amount)
	assert.Zero(t, account.Balances.PostedBalance.Amount)
}

func TestLedgerAccountMetadataDoesNotAliasStore(t *testing.T) {
	fake := NewFakeClient()
	ledger := newTestLedger(t, fake, "usd")

	account, err := fake.CreateLedgerAccount(context.Background(), model.CreateLedgerAccountRequest{
		Name:          "cash",
		LedgerID:      ledger.LedgerID,
		NormalBalance: model.NormalBalanceCredit,
		MetaData:      map[string]string{"kind": "operational"},
	})
	require.NoError(t, err)

	// mutating the returned entity must not reach simulator state
	account.MetaData["kind"] = "tampered"

	stored, err := fake.GetLedgerAccount(context.Background(), account.LedgerAccountID, nil)
	require.NoError(t, err)
	assert.Equal(t, "operational", stored.MetaData["kind"])

	// and the read result is itself a copy
	stored.MetaData["kind"] = "tampered again"
	again, err := fake.GetLedgerAccount(context.Background(), account.LedgerAccountID, nil)
	require.NoError(t, err)
	assert.Equal(t, "operational", again.MetaData["kind"])
}

func TestCreateLedgerAccountUnknownLedger(t *testing.T) {
	fake := NewFakeClient()

	_, err := fake.CreateLedgerAccount(context.Background(), model.CreateLedgerAccountRequest{
		Name:          "cash",
		LedgerID:      "ldg_missing",
		NormalBalance: model.NormalBalanceDebit,
	})
	require.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
}

func TestGetLedgerAccountNotFound(t *testing.T) {
	fake := NewFakeClient()

	_, err := fake.GetLedgerAccount(context.Background(), "lac_missing", nil)
	require.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
}

func TestGetLedgerAccountIgnoresAsOfDate(t *testing.T) {
	fake := NewFakeClient()
	ledger := newTestLedger(t, fake, "usd")
	account := newTestAccount(t, fake, ledger.LedgerID, model.NormalBalanceCredit)
	counter := newTestAccount(t, fake, ledger.LedgerID, model.NormalBalanceCredit)

	_, err := fake.CreateLedgerTransaction(context.Background(), model.CreateLedgerTransactionRequest{
		Entries: []model.RequestLedgerEntry{
			{Amount: 50, Direction: model.DirectionCredit, LedgerAccountID: account.LedgerAccountID},
			{Amount: 50, Direction: model.DirectionDebit, LedgerAccountID: counter.LedgerAccountID},
		},
	})
	require.NoError(t, err)

	// asOfDate far in the past still reports current balances
	past := time.Now().AddDate(-1, 0, 0)
	got, err := fake.GetLedgerAccount(context.Background(), account.LedgerAccountID, &past)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balances.PendingBalance.Amount)
}

func TestGetLedgerAccountsPagination(t *testing.T) {
	fake := NewFakeClient()
	ledger := newTestLedger(t, fake, "usd")

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		account := newTestAccount(t, fake, ledger.LedgerID, model.NormalBalanceDebit)
		ids = append(ids, account.LedgerAccountID)
	}
	ids = append(ids, "lac_missing")

	page, err := fake.GetLedgerAccounts(context.Background(), ids, nil, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PerPage)
	assert.Equal(t, 5, page.TotalCount)
	require.Len(t, page.Content, 2)
	assert.Equal(t, ids[2], page.Content[0].LedgerAccountID)
	assert.Equal(t, ids[3], page.Content[1].LedgerAccountID)

	// past the end of the list the slice is empty but the count holds
	empty, err := fake.GetLedgerAccounts(context.Background(), ids, nil, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Content)
	assert.Equal(t, 5, empty.TotalCount)
}

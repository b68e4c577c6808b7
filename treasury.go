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

// Package treasury is a typed client for the Modern Treasury ledger API,
// together with an in-memory fake of the same API for tests that must run
// without network access. Both implementations satisfy LedgerClient, so
// application and test code stay transport agnostic.
package treasury

import (
	"context"
	"time"

	"github.com/clearbooks/treasury-go/model"
)

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	Content    []T `json:"content"`
}

// TransactionQuery filters a transaction listing. Metadata is a subset match:
// a transaction matches when it carries every query key with an equal value.
type TransactionQuery struct {
	LedgerID string
	Metadata map[string]string
	Page     int
	PerPage  int
}

// LedgerClient is the capability contract shared by the network-backed Client
// and the in-memory FakeClient. All operations are synchronous; validation
// failures surface as apierror.APIError values.
type LedgerClient interface {
	CreateLedger(ctx context.Context, req model.CreateLedgerRequest) (*model.Ledger, error)
	DeleteLedger(ctx context.Context, id string) error

	CreateLedgerAccount(ctx context.Context, req model.CreateLedgerAccountRequest) (*model.LedgerAccount, error)
	GetLedgerAccount(ctx context.Context, id string, asOfDate *time.Time) (*model.LedgerAccount, error)
	GetLedgerAccounts(ctx context.Context, ids []string, asOfDate *time.Time, page, perPage int) (*Page[model.LedgerAccount], error)

	CreateLedgerTransaction(ctx context.Context, req model.CreateLedgerTransactionRequest) (*model.LedgerTransaction, error)
	UpdateLedgerTransaction(ctx context.Context, req model.UpdateLedgerTransactionRequest) (*model.LedgerTransaction, error)
	GetLedgerTransaction(ctx context.Context, id string) (*model.LedgerTransaction, error)
	GetLedgerTransactions(ctx context.Context, query TransactionQuery) (*Page[model.LedgerTransaction], error)

	Ping(ctx context.Context) (map[string]string, error)
}

const defaultPerPage = 25

// paginate slices content for one page and wraps it with its total count.
func paginate[T any](content []T, page, perPage, totalCount int) *Page[T] {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	start := page * perPage
	if start > len(content) {
		start = len(content)
	}
	end := start + perPage
	if end > len(content) {
		end = len(content)
	}
	return &Page[T]{
		Page:       page,
		PerPage:    perPage,
		TotalCount: totalCount,
		Content:    content[start:end],
	}
}

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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/clearbooks/treasury-go/config"
	"github.com/clearbooks/treasury-go/internal/apierror"
	"github.com/clearbooks/treasury-go/model"
)

const maxRequestRetries = 3

// Client talks to the live Modern Treasury API over HTTPS. It satisfies the
// same LedgerClient interface as FakeClient.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	organizationID string
	apiKey         string
	limiter        *rate.Limiter
}

var _ LedgerClient = (*Client)(nil)

// NewClient builds a network client from configuration. When rate limiting is
// configured, requests wait for a limiter permit and fail with
// RATE_LIMIT_TIMEOUT when none can be granted before the context deadline.
func NewClient(cnf *config.Configuration) (*Client, error) {
	base, err := url.Parse(cnf.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing base URL")
	}

	var limiter *rate.Limiter
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst != nil {
		limiter = rate.NewLimiter(rate.Limit(*cnf.RateLimit.RequestsPerSecond), *cnf.RateLimit.Burst)
	}

	return &Client{
		baseURL:        base,
		httpClient:     &http.Client{Timeout: time.Duration(cnf.TimeoutSec) * time.Second},
		organizationID: cnf.OrganizationID,
		apiKey:         cnf.APIKey,
		limiter:        limiter,
	}, nil
}

type apiErrorBody struct {
	Errors struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Parameter string `json:"parameter"`
	} `json:"errors"`
}

// do performs one API call: waits for a rate limit permit, sends the request
// with auth and idempotency headers, retries transient failures with
// exponential backoff and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, query url.Values, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apierror.NewAPIError(apierror.ErrRateLimitTimeout, "could not acquire a rate limit permit", "")
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "building request"))
		}
		req.SetBasicAuth(c.organizationID, c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network failures are worth a retry.
			return errors.Wrap(err, "sending request")
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logrus.Error("closing response body: ", err)
			}
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return errors.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return backoff.Permanent(decodeAPIError(resp))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
				return backoff.Permanent(errors.Wrap(err, "decoding response body"))
			}
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRequestRetries), ctx))
}

// decodeAPIError maps an error response to a typed APIError, preferring the
// code carried in the body over the bare HTTP status.
func decodeAPIError(resp *http.Response) error {
	var parsed apiErrorBody
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Errors.Code != "" {
		return apierror.NewAPIError(apierror.ErrorCode(parsed.Errors.Code), parsed.Errors.Message, parsed.Errors.Parameter)
	}
	return apierror.NewAPIError(apierror.MapHTTPStatusToCode(resp.StatusCode), fmt.Sprintf("request failed: %s", resp.Status), "")
}

func (c *Client) CreateLedger(ctx context.Context, req model.CreateLedgerRequest) (*model.Ledger, error) {
	if err := req.ValidateCreateLedger(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}
	var ledger model.Ledger
	if err := c.do(ctx, http.MethodPost, "/api/ledgers", req.IdempotencyKey, nil, req, &ledger); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (c *Client) DeleteLedger(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ledgers/"+id, "", nil, nil, nil)
}

func (c *Client) CreateLedgerAccount(ctx context.Context, req model.CreateLedgerAccountRequest) (*model.LedgerAccount, error) {
	if err := req.ValidateCreateLedgerAccount(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}
	var account model.LedgerAccount
	if err := c.do(ctx, http.MethodPost, "/api/ledger_accounts", req.IdempotencyKey, nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetLedgerAccount(ctx context.Context, id string, asOfDate *time.Time) (*model.LedgerAccount, error) {
	query := url.Values{}
	if asOfDate != nil {
		query.Set("balances[as_of_date]", asOfDate.Format("2006-01-02"))
	}
	var account model.LedgerAccount
	if err := c.do(ctx, http.MethodGet, "/api/ledger_accounts/"+id, "", query, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetLedgerAccounts(ctx context.Context, ids []string, asOfDate *time.Time, page, perPage int) (*Page[model.LedgerAccount], error) {
	query := url.Values{}
	for _, id := range ids {
		query.Add("id[]", id)
	}
	if asOfDate != nil {
		query.Set("balances[as_of_date]", asOfDate.Format("2006-01-02"))
	}
	addPagination(query, page, perPage)

	var content []model.LedgerAccount
	if err := c.do(ctx, http.MethodGet, "/api/ledger_accounts", "", query, nil, &content); err != nil {
		return nil, err
	}
	return paginateRemote(content, page, perPage), nil
}

func (c *Client) CreateLedgerTransaction(ctx context.Context, req model.CreateLedgerTransactionRequest) (*model.LedgerTransaction, error) {
	if err := req.ValidateCreateLedgerTransaction(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}
	var transaction model.LedgerTransaction
	if err := c.do(ctx, http.MethodPost, "/api/ledger_transactions", req.IdempotencyKey, nil, req, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (c *Client) UpdateLedgerTransaction(ctx context.Context, req model.UpdateLedgerTransactionRequest) (*model.LedgerTransaction, error) {
	if err := req.ValidateUpdateLedgerTransaction(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), "")
	}
	var transaction model.LedgerTransaction
	if err := c.do(ctx, http.MethodPatch, "/api/ledger_transactions/"+req.TransactionID, "", nil, req, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (c *Client) GetLedgerTransaction(ctx context.Context, id string) (*model.LedgerTransaction, error) {
	var transaction model.LedgerTransaction
	if err := c.do(ctx, http.MethodGet, "/api/ledger_transactions/"+id, "", nil, nil, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (c *Client) GetLedgerTransactions(ctx context.Context, q TransactionQuery) (*Page[model.LedgerTransaction], error) {
	query := url.Values{}
	if q.LedgerID != "" {
		query.Set("ledger_id", q.LedgerID)
	}
	for k, v := range q.Metadata {
		query.Set(fmt.Sprintf("metadata[%s]", k), v)
	}
	addPagination(query, q.Page, q.PerPage)

	var content []model.LedgerTransaction
	if err := c.do(ctx, http.MethodGet, "/api/ledger_transactions", "", query, nil, &content); err != nil {
		return nil, err
	}
	return paginateRemote(content, q.Page, q.PerPage), nil
}

func (c *Client) Ping(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)
	if err := c.do(ctx, http.MethodGet, "/api/ping", "", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func addPagination(query url.Values, page, perPage int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
}

// paginateRemote wraps an already-sliced remote listing. The server did the
// slicing; the total count here is a lower bound from the page itself, the
// real count travels in response headers the listing endpoints do not need.
func paginateRemote[T any](content []T, page, perPage int) *Page[T] {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Page[T]{
		Page:       page,
		PerPage:    perPage,
		TotalCount: len(content),
		Content:    content,
	}
}

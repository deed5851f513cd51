package finapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/lachiem1/fintrack/internal/model"
)

type transactionBody struct {
	ID          string      `json:"id,omitempty"`
	Description string      `json:"desc"`
	Amount      json.Number `json:"amount"`
	Kind        model.Kind  `json:"type"`
	CategoryID  string      `json:"categoryId"`
	Date        string      `json:"date"`
}

func newTransactionBody(id string, d model.TransactionDraft) transactionBody {
	return transactionBody{
		ID:          id,
		Description: d.Description,
		Amount:      json.Number(d.Amount.String()),
		Kind:        d.Kind,
		CategoryID:  d.CategoryID,
		Date:        d.Date,
	}
}

// ListTransactions calls GET /api/transactions?month=YYYY-MM.
func (c *Client) ListTransactions(ctx context.Context, month model.MonthKey) ([]model.Transaction, error) {
	query := url.Values{}
	query.Set("month", month.String())
	return call[[]model.Transaction](ctx, c, http.MethodGet, "/api/transactions", query, nil)
}

// CreateTransaction calls POST /api/transactions and returns the stored record.
func (c *Client) CreateTransaction(ctx context.Context, d model.TransactionDraft) (model.Transaction, error) {
	return call[model.Transaction](ctx, c, http.MethodPost, "/api/transactions", nil, newTransactionBody("", d))
}

// UpdateTransaction calls PUT /api/transactions/{id}.
func (c *Client) UpdateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return call[model.Transaction](
		ctx,
		c,
		http.MethodPut,
		"/api/transactions/"+url.PathEscape(t.ID),
		nil,
		newTransactionBody(t.ID, t.Draft()),
	)
}

// DeleteTransaction calls DELETE /api/transactions/{id}.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.exec(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil)
}

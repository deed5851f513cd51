package finapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

type budgetPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetBudget calls GET /api/budget.
func (c *Client) GetBudget(ctx context.Context) (decimal.Decimal, error) {
	out, err := call[budgetPayload](ctx, c, http.MethodGet, "/api/budget", nil, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return out.Amount, nil
}

// PutBudget calls PUT /api/budget with {amount}.
func (c *Client) PutBudget(ctx context.Context, amount decimal.Decimal) error {
	body := struct {
		Amount json.Number `json:"amount"`
	}{Amount: json.Number(amount.String())}
	return c.exec(ctx, http.MethodPut, "/api/budget", body)
}

// ListCategoryLimits calls GET /api/budget/limits.
func (c *Client) ListCategoryLimits(ctx context.Context) ([]model.CategoryLimit, error) {
	return call[[]model.CategoryLimit](ctx, c, http.MethodGet, "/api/budget/limits", nil, nil)
}

// PutCategoryLimit calls PUT /api/budget/limits/{categoryId}; a zero limit clears it.
func (c *Client) PutCategoryLimit(ctx context.Context, categoryID string, limit decimal.Decimal) error {
	body := struct {
		Limit json.Number `json:"limit"`
	}{Limit: json.Number(limit.String())}
	return c.exec(ctx, http.MethodPut, "/api/budget/limits/"+url.PathEscape(categoryID), body)
}

package finapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lachiem1/fintrack/internal/model"
)

type categoryBody struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	Icon  string     `json:"icon"`
	Color string     `json:"color"`
	Kind  model.Kind `json:"type"`
}

// ListCategories calls GET /api/categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	return call[[]model.Category](ctx, c, http.MethodGet, "/api/categories", nil, nil)
}

// CreateCategory calls POST /api/categories.
func (c *Client) CreateCategory(ctx context.Context, d model.CategoryDraft) (model.Category, error) {
	body := categoryBody{Name: d.Name, Icon: d.Icon, Color: d.Color, Kind: d.Kind}
	return call[model.Category](ctx, c, http.MethodPost, "/api/categories", nil, body)
}

// UpdateCategory calls PUT /api/categories/{id}.
func (c *Client) UpdateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	body := categoryBody{ID: cat.ID, Name: cat.Name, Icon: cat.Icon, Color: cat.Color, Kind: cat.Kind}
	return call[model.Category](ctx, c, http.MethodPut, "/api/categories/"+url.PathEscape(cat.ID), nil, body)
}

// DeleteCategory calls DELETE /api/categories/{id}.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.exec(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil)
}

package finapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

const importPath = "/api/import"

// ExportJSON calls GET /api/export/json and returns the raw file.
func (c *Client) ExportJSON(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/export/json", nil, nil, "")
}

// ExportCSV calls GET /api/export/csv and returns the raw file.
func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/export/csv", nil, nil, "")
}

// Import uploads r as the multipart field "file" to POST /api/import.
func (c *Client) Import(ctx context.Context, filename string, r io.Reader) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("create import form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy import file: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close import form: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, importPath, nil, &buf, form.FormDataContentType())
	if err != nil {
		return err
	}
	return checkVoidEnvelope(http.MethodPost, importPath, body)
}

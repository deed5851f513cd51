package finapi

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/lachiem1/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newStubClient(fn roundTripFunc, opts ...Option) *Client {
	client := New("https://example.test", opts...)
	client.httpClient = &http.Client{Transport: fn}
	return client
}

func TestRequestHeaders(t *testing.T) {
	var seenReq *http.Request
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		seenReq = req
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":[]}`), nil
	}, WithTokenSource(func() string { return "test-token" }))
	client.newRequestID = func() string { return "req-1" }

	_, err := client.ListTransactions(context.Background(), "2026-10")
	if err != nil {
		t.Fatalf("ListTransactions() unexpected error: %v", err)
	}
	if seenReq == nil {
		t.Fatal("no request captured")
	}
	if seenReq.URL.Path != "/api/transactions" {
		t.Fatalf("path = %q, want %q", seenReq.URL.Path, "/api/transactions")
	}
	if got := seenReq.URL.Query().Get("month"); got != "2026-10" {
		t.Fatalf("month query = %q, want %q", got, "2026-10")
	}
	if got := seenReq.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Fatalf("Authorization header = %q, want %q", got, "Bearer test-token")
	}
	if got := seenReq.Header.Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("X-Request-ID header = %q, want %q", got, "req-1")
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "" {
			t.Fatalf("Authorization header = %q, want empty", got)
		}
		if got := req.Header.Get("X-Request-ID"); got == "" {
			t.Fatal("X-Request-ID header is empty")
		}
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":[]}`), nil
	})

	if _, err := client.ListCategories(context.Background()); err != nil {
		t.Fatalf("ListCategories() unexpected error: %v", err)
	}
}

func TestUnauthorizedRunsHandlerExceptOnLogin(t *testing.T) {
	tests := []struct {
		name        string
		call        func(context.Context, *Client) error
		wantHandler bool
	}{
		{
			name: "me",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Me(ctx)
				return err
			},
			wantHandler: true,
		},
		{
			name: "delete transaction",
			call: func(ctx context.Context, c *Client) error {
				return c.DeleteTransaction(ctx, "t1")
			},
			wantHandler: true,
		},
		{
			name: "login",
			call: func(ctx context.Context, c *Client) error {
				_, err := c.Login(ctx, model.Credentials{Email: "a@b.c", Password: "nope"})
				return err
			},
			wantHandler: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newStubClient(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusUnauthorized, `{"status":401,"errors":["token expired"],"data":null}`), nil
			}, WithUnauthorizedHandler(func() { calls++ }))

			err := tt.call(context.Background(), client)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("error = %v, want ErrUnauthorized", err)
			}
			if tt.wantHandler && calls != 1 {
				t.Fatalf("handler calls = %d, want 1", calls)
			}
			if !tt.wantHandler && calls != 0 {
				t.Fatalf("handler calls = %d, want 0", calls)
			}
		})
	}
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{"status":500,"errors":["boom"],"data":null}`), nil
	})

	_, err := client.ListCategories(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want %d", apiErr.Status, http.StatusInternalServerError)
	}
	if apiErr.Path != "/api/categories" {
		t.Fatalf("Path = %q, want %q", apiErr.Path, "/api/categories")
	}
	if len(apiErr.Errors) != 1 || apiErr.Errors[0] != "boom" {
		t.Fatalf("Errors = %v, want [boom]", apiErr.Errors)
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("error = %v, want ErrRequestFailed", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("500 must not match ErrUnauthorized")
	}
}

func TestEnvelopeErrorsOn200(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":200,"errors":["category in use"],"data":null}`), nil
	})

	err := client.DeleteCategory(context.Background(), "x1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DeleteCategory() error = %v, want *APIError", err)
	}
	if apiErr.Errors[0] != "category in use" {
		t.Fatalf("Errors = %v, want [category in use]", apiErr.Errors)
	}
}

func TestNullDataFailsPayloadCalls(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":null}`), nil
	})
	ctx := context.Background()

	if _, err := client.ListTransactions(ctx, "2026-10"); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("ListTransactions() error = %v, want ErrEmptyPayload", err)
	}
	if _, err := client.GetBudget(ctx); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("GetBudget() error = %v, want ErrEmptyPayload", err)
	}
	draft := model.TransactionDraft{
		Description: "Coffee",
		Amount:      decimal.NewFromInt(5),
		Kind:        model.KindExpense,
		CategoryID:  "c1",
		Date:        "2026-10-02",
	}
	if _, err := client.CreateTransaction(ctx, draft); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("CreateTransaction() error = %v, want ErrEmptyPayload", err)
	}
}

func TestVoidCallsSucceedWithoutData(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":null}`), nil
	})
	ctx := context.Background()

	if err := client.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTransaction() unexpected error: %v", err)
	}
	if err := client.PutBudget(ctx, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("PutBudget() unexpected error: %v", err)
	}
	if err := client.PutCategoryLimit(ctx, "c1", decimal.Zero); err != nil {
		t.Fatalf("PutCategoryLimit() unexpected error: %v", err)
	}
}

func TestTransactionBodyAndDecode(t *testing.T) {
	var body string
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
		if req.Method != http.MethodPut {
			t.Fatalf("method = %q, want %q", req.Method, http.MethodPut)
		}
		if req.URL.EscapedPath() != "/api/transactions/t%201" {
			t.Fatalf("path = %q, want %q", req.URL.EscapedPath(), "/api/transactions/t%201")
		}
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":{"id":"t 1","desc":"Rent","amount":1250000.50,"type":"expense","categoryId":"c2","date":"2026-10-01"}}`), nil
	})

	in := model.Transaction{
		ID:          "t 1",
		Description: "Rent",
		Amount:      decimal.RequireFromString("1250000.50"),
		Kind:        model.KindExpense,
		CategoryID:  "c2",
		Date:        "2026-10-01",
	}
	got, err := client.UpdateTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("UpdateTransaction() unexpected error: %v", err)
	}
	if !strings.Contains(body, `"amount":1250000.5`) {
		t.Fatalf("body = %s, want numeric amount", body)
	}
	if !strings.Contains(body, `"desc":"Rent"`) || !strings.Contains(body, `"categoryId":"c2"`) {
		t.Fatalf("body = %s, want backend field names", body)
	}
	if !got.Amount.Equal(in.Amount) {
		t.Fatalf("Amount = %s, want %s", got.Amount, in.Amount)
	}
	if got.Kind != model.KindExpense || got.Date != "2026-10-01" {
		t.Fatalf("decoded = %+v, want expense on 2026-10-01", got)
	}
}

func TestGetBudgetDecodesAmount(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":{"amount":2500000}}`), nil
	})

	got, err := client.GetBudget(context.Background())
	if err != nil {
		t.Fatalf("GetBudget() unexpected error: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(2500000)) {
		t.Fatalf("GetBudget() = %s, want 2500000", got)
	}
}

func TestTransportFailureWrapsRequestFailed(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.ListCategoryLimits(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("error = %v, want ErrRequestFailed", err)
	}
}

func TestExportReturnsRawBytes(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/export/csv" {
			t.Fatalf("path = %q, want %q", req.URL.Path, "/api/export/csv")
		}
		return jsonResponse(http.StatusOK, "id,desc\nt1,Coffee\n"), nil
	})

	got, err := client.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV() unexpected error: %v", err)
	}
	if string(got) != "id,desc\nt1,Coffee\n" {
		t.Fatalf("ExportCSV() = %q, want csv body", got)
	}
}

func TestOversizedResponseFails(t *testing.T) {
	previous := maxBodySize
	maxBodySize = 16
	t.Cleanup(func() { maxBodySize = previous })

	body := strings.Repeat("x", 17)
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, body), nil
	})

	got, err := client.ExportJSON(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("ExportJSON() error = %v, want ErrRequestFailed", err)
	}
	if got != nil {
		t.Fatalf("ExportJSON() = %d bytes, want none", len(got))
	}

	body = strings.Repeat("x", 16)
	got, err = client.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON() at the cap unexpected error: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("ExportJSON() = %d bytes, want 16", len(got))
	}
}

func TestImportSendsMultipartFile(t *testing.T) {
	client := newStubClient(func(req *http.Request) (*http.Response, error) {
		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("Content-Type = %q, want multipart/form-data", req.Header.Get("Content-Type"))
		}
		reader := multipart.NewReader(req.Body, params["boundary"])
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("NextPart() error: %v", err)
		}
		if part.FormName() != "file" {
			t.Fatalf("form name = %q, want %q", part.FormName(), "file")
		}
		if part.FileName() != "backup.json" {
			t.Fatalf("file name = %q, want %q", part.FileName(), "backup.json")
		}
		raw, _ := io.ReadAll(part)
		if string(raw) != `{"transactions":[]}` {
			t.Fatalf("file content = %q", raw)
		}
		return jsonResponse(http.StatusOK, `{"status":200,"errors":[],"data":null}`), nil
	})

	err := client.Import(context.Background(), "/tmp/backup.json", strings.NewReader(`{"transactions":[]}`))
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
}

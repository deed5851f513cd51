package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrValidation marks input rejected before any network call.
var ErrValidation = errors.New("validation failed")

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindBoth    Kind = "both"
)

// ParseKind accepts income or expense, the two kinds a transaction can have.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(normalizeText(raw)); k {
	case KindIncome, KindExpense:
		return k, nil
	default:
		return "", fmt.Errorf("%w: invalid type %q, want income or expense", ErrValidation, raw)
	}
}

type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"desc"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"type"`
	CategoryID  string          `json:"categoryId"`
	Date        string          `json:"date"`
}

// Draft returns the editable fields of t.
func (t Transaction) Draft() TransactionDraft {
	return TransactionDraft{
		Description: t.Description,
		Amount:      t.Amount,
		Kind:        t.Kind,
		CategoryID:  t.CategoryID,
		Date:        t.Date,
	}
}

// Equal compares every field, using decimal equality for the amount.
func (t Transaction) Equal(other Transaction) bool {
	return t.ID == other.ID &&
		t.Description == other.Description &&
		t.Amount.Equal(other.Amount) &&
		t.Kind == other.Kind &&
		t.CategoryID == other.CategoryID &&
		t.Date == other.Date
}

// TransactionDraft is a transaction that has not been assigned an id yet.
type TransactionDraft struct {
	Description string
	Amount      decimal.Decimal
	Kind        Kind
	CategoryID  string
	Date        string
}

// Normalize collapses whitespace in the description and trims the other text fields.
func (d TransactionDraft) Normalize() TransactionDraft {
	d.Description = normalizeText(d.Description)
	d.CategoryID = normalizeText(d.CategoryID)
	d.Date = normalizeText(d.Date)
	return d
}

func (d TransactionDraft) Validate() error {
	if normalizeText(d.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !d.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	if d.Kind != KindIncome && d.Kind != KindExpense {
		return fmt.Errorf("%w: invalid type %q", ErrValidation, d.Kind)
	}
	if normalizeText(d.CategoryID) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if normalizeText(d.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := ParseDate(d.Date); err != nil {
		return err
	}
	return nil
}

// WithID attaches an id, producing a full transaction.
func (d TransactionDraft) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Description: d.Description,
		Amount:      d.Amount,
		Kind:        d.Kind,
		CategoryID:  d.CategoryID,
		Date:        d.Date,
	}
}

package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind represents the kind of transaction (income or expense).
type Kind string

const (
	KindIncome  Kind = "receita"
	KindExpense Kind = "despesa"
)

// Category is one of the fixed categories a transaction can be filed under.
type Category string

const (
	CategorySalary    Category = "salario"
	CategoryFood      Category = "alimentacao"
	CategoryTransport Category = "transporte"
	CategoryLeisure   Category = "lazer"
	CategoryHealth    Category = "saude"
	CategoryEducation Category = "educacao"
	CategoryOther     Category = "outros"
)

// MaxDescriptionLength is the longest description accepted, in characters.
const MaxDescriptionLength = 100

// Transaction represents a financial transaction owned by a single user.
type Transaction struct {
	ID          uuid.UUID
	Kind        Kind
	Description string
	Category    Category
	Amount      decimal.Decimal // Always positive, sign comes from Kind
	OccurredOn  time.Time       // Calendar date at 00:00 UTC
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Signed returns the amount with the sign implied by the kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

// Candidate holds the user-supplied fields of a transaction that does not exist yet.
type Candidate struct {
	Kind        Kind
	Description string
	Category    Category
	Amount      decimal.Decimal
	OccurredOn  time.Time
	OwnerID     string
}

// Patch is a partial update. Nil fields are left unchanged.
// Identity, ownership and creation time are not part of a patch.
type Patch struct {
	Kind        *Kind
	Description *string
	Category    *Category
	Amount      *decimal.Decimal
	OccurredOn  *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Kind == nil && p.Description == nil && p.Category == nil && p.Amount == nil && p.OccurredOn == nil
}

// Apply merges the patch over t and returns the resulting candidate.
func (p Patch) Apply(t Transaction) Candidate {
	c := CandidateOf(t)

	if p.Kind != nil {
		c.Kind = *p.Kind
	}

	if p.Description != nil {
		c.Description = *p.Description
	}

	if p.Category != nil {
		c.Category = *p.Category
	}

	if p.Amount != nil {
		c.Amount = *p.Amount
	}

	if p.OccurredOn != nil {
		c.OccurredOn = DateOf(*p.OccurredOn)
	}

	return c
}

// CandidateOf returns the user-editable part of t.
func CandidateOf(t Transaction) Candidate {
	return Candidate{
		Kind:        t.Kind,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		OccurredOn:  t.OccurredOn,
		OwnerID:     t.OwnerID,
	}
}

// Assign builds a full transaction from a validated candidate and the values the
// ledger owns. It never fails; validation happens before.
func Assign(c Candidate, id uuid.UUID, now time.Time) Transaction {
	return Transaction{
		ID:          id,
		Kind:        c.Kind,
		Description: c.Description,
		Category:    c.Category,
		Amount:      c.Amount,
		OccurredOn:  DateOf(c.OccurredOn),
		OwnerID:     c.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Revise returns t with the candidate's editable fields and a fresh UpdatedAt.
func Revise(t Transaction, c Candidate, now time.Time) Transaction {
	t.Kind = c.Kind
	t.Description = c.Description
	t.Category = c.Category
	t.Amount = c.Amount
	t.OccurredOn = DateOf(c.OccurredOn)

	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}

	t.UpdatedAt = now

	return t
}

package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// txForm holds the bindings of the add/edit form.
type txForm struct {
	kind        string
	description string
	category    string
	amount      string
	date        string
}

func newTxForm(today time.Time) *txForm {
	return &txForm{
		kind:     string(transaction.KindExpense),
		category: string(transaction.CategoryOther),
		date:     transaction.FormatDate(today),
	}
}

func txFormOf(tx transaction.Transaction) *txForm {
	return &txForm{
		kind:        string(tx.Kind),
		description: tx.Description,
		category:    string(tx.Category),
		amount:      tx.Amount.StringFixed(2),
		date:        transaction.FormatDate(tx.OccurredOn),
	}
}

func (f *txForm) build() *huh.Form {
	kinds := []huh.Option[string]{
		huh.NewOption(transaction.KindExpense.Label(), string(transaction.KindExpense)),
		huh.NewOption(transaction.KindIncome.Label(), string(transaction.KindIncome)),
	}

	categories := make([]huh.Option[string], 0, len(transaction.Categories()))
	for _, c := range transaction.Categories() {
		categories = append(categories, huh.NewOption(c.Label(), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Options(kinds...).
				Value(&f.kind),

			huh.NewInput().
				Key("description").
				Title("Description").
				CharLimit(transaction.MaxDescriptionLength).
				Value(&f.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categories...).
				Value(&f.category),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Value(&f.amount).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(func(s string) error {
					_, err := transaction.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

// candidate converts the bindings. Remaining rules are enforced by the ledger.
func (f *txForm) candidate() (transaction.Candidate, error) {
	amount, err := parseAmount(f.amount)
	if err != nil {
		return transaction.Candidate{}, err
	}

	date, err := transaction.ParseDate(strings.TrimSpace(f.date))
	if err != nil {
		return transaction.Candidate{}, err
	}

	return transaction.Candidate{
		Kind:        transaction.Kind(f.kind),
		Description: f.description,
		Category:    transaction.Category(f.category),
		Amount:      amount,
		OccurredOn:  date,
	}, nil
}

// patch returns only the fields that differ from tx.
func (f *txForm) patch(tx transaction.Transaction) (transaction.Patch, error) {
	c, err := f.candidate()
	if err != nil {
		return transaction.Patch{}, err
	}

	var p transaction.Patch

	if c.Kind != tx.Kind {
		p.Kind = new(c.Kind)
	}

	if c.Description != tx.Description {
		p.Description = new(c.Description)
	}

	if c.Category != tx.Category {
		p.Category = new(c.Category)
	}

	if !c.Amount.Equal(tx.Amount) {
		p.Amount = new(c.Amount)
	}

	if !c.OccurredOn.Equal(tx.OccurredOn) {
		p.OccurredOn = new(c.OccurredOn)
	}

	return p, nil
}

// parseAmount accepts both "12.50" and "12,50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Decimal{}, errors.New("amount is required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.New("amount must be a number")
	}

	return d, nil
}

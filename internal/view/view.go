// Package view produces filtered and sorted projections of a ledger snapshot for
// list, search and report surfaces. Inputs are never modified.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/MrJamesThe3rd/saldo/internal/analytics"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// All is the filter value that matches every kind or category.
const All = "todas"

// Predicate selects transactions. Nil fields match everything and active fields
// combine with AND.
type Predicate struct {
	Kind       *transaction.Kind
	Category   *transaction.Category
	SearchText string
}

// ParsePredicate builds a predicate from raw filter values. Empty, "all" and
// "todas" leave the field unfiltered.
func ParsePredicate(kind, category, search string) (Predicate, error) {
	var p Predicate

	if !isAll(kind) {
		k, err := transaction.ParseKind(kind)
		if err != nil {
			return Predicate{}, err
		}

		p.Kind = &k
	}

	if !isAll(category) {
		c, err := transaction.ParseCategory(category)
		if err != nil {
			return Predicate{}, err
		}

		p.Category = &c
	}

	p.SearchText = strings.TrimSpace(search)

	return p, nil
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, All) || strings.EqualFold(s, "all")
}

// Filter keeps the transactions of s that match p, in input order.
// The search text matches, ignoring case, anywhere in the description or in the
// category key or label.
func Filter(s []transaction.Transaction, p Predicate) ([]transaction.Transaction, error) {
	if err := analytics.Check(s); err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(p.SearchText)

	out := make([]transaction.Transaction, 0, len(s))

	for _, tx := range s {
		if p.Kind != nil && tx.Kind != *p.Kind {
			continue
		}

		if p.Category != nil && tx.Category != *p.Category {
			continue
		}

		if needle != "" && !matches(fold, tx, needle) {
			continue
		}

		out = append(out, tx)
	}

	return out, nil
}

func matches(fold cases.Caser, tx transaction.Transaction, needle string) bool {
	return strings.Contains(fold.String(tx.Description), needle) ||
		strings.Contains(fold.String(string(tx.Category)), needle) ||
		strings.Contains(fold.String(tx.Category.Label()), needle)
}

// SortKey is the field a projection is ordered by.
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "description"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByDate, nil
	case SortByDate, SortByAmount, SortByDescription:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Desc, nil
	case Asc, Desc:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Sort returns a stably ordered copy of s. Equal keys keep their input order in
// both directions.
func Sort(s []transaction.Transaction, key SortKey, dir Direction) ([]transaction.Transaction, error) {
	if err := analytics.Check(s); err != nil {
		return nil, err
	}

	var compare func(a, b transaction.Transaction) int

	switch key {
	case SortByDate:
		compare = func(a, b transaction.Transaction) int { return a.OccurredOn.Compare(b.OccurredOn) }
	case SortByAmount:
		compare = func(a, b transaction.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortByDescription:
		fold := cases.Fold()
		compare = func(a, b transaction.Transaction) int {
			return cmp.Compare(fold.String(a.Description), fold.String(b.Description))
		}
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	switch dir {
	case Asc:
	case Desc:
		asc := compare
		compare = func(a, b transaction.Transaction) int { return asc(b, a) }
	default:
		return nil, fmt.Errorf("unknown sort direction %q", dir)
	}

	out := slices.Clone(s)
	slices.SortStableFunc(out, compare)

	return out, nil
}

// RecentCount is how many transactions the dashboard shows as recent.
const RecentCount = 6

// Recent returns the n most recently inserted transactions, newest date first.
func Recent(s []transaction.Transaction, n int) ([]transaction.Transaction, error) {
	if err := analytics.Check(s); err != nil {
		return nil, err
	}

	if n < 0 {
		n = 0
	}

	tail := s[max(len(s)-n, 0):]

	return Sort(tail, SortByDate, Desc)
}

package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// Window is one of the fixed look-back ranges used by the dashboard.
type Window string

const (
	WindowWeek    Window = "7d"
	WindowMonth   Window = "30d"
	WindowQuarter Window = "90d"
	WindowYear    Window = "1y"
)

// Windows lists every supported window, shortest first.
func Windows() []Window {
	return []Window{WindowWeek, WindowMonth, WindowQuarter, WindowYear}
}

func ParseWindow(s string) (Window, error) {
	if w := Window(s); w.Valid() {
		return w, nil
	}

	return "", fmt.Errorf("unknown window %q", s)
}

func (w Window) Valid() bool {
	switch w {
	case WindowWeek, WindowMonth, WindowQuarter, WindowYear:
		return true
	}

	return false
}

// Start returns the first calendar date included by w when anchored at ref.
// An unknown window has no start and yields the zero time.
func (w Window) Start(ref time.Time) time.Time {
	end := transaction.DateOf(ref)

	switch w {
	case WindowWeek:
		return end.AddDate(0, 0, -7)
	case WindowMonth:
		return end.AddDate(0, 0, -30)
	case WindowQuarter:
		return end.AddDate(0, 0, -90)
	case WindowYear:
		return end.AddDate(-1, 0, 0)
	}

	return time.Time{}
}

// Contains reports whether date falls in [w.Start(ref), ref], inclusive at both ends.
// An unknown window contains nothing.
func (w Window) Contains(ref, date time.Time) bool {
	if !w.Valid() {
		return false
	}

	d := transaction.DateOf(date)

	return !d.Before(w.Start(ref)) && !d.After(transaction.DateOf(ref))
}

// WindowedFilter keeps the transactions of s that occurred inside w anchored at ref.
// The input order is preserved.
func WindowedFilter(s []transaction.Transaction, ref time.Time, w Window) ([]transaction.Transaction, error) {
	if err := Check(s); err != nil {
		return nil, err
	}

	if _, err := ParseWindow(string(w)); err != nil {
		return nil, err
	}

	out := make([]transaction.Transaction, 0, len(s))

	for _, tx := range s {
		if w.Contains(ref, tx.OccurredOn) {
			out = append(out, tx)
		}
	}

	return out, nil
}

// MonthKey groups dates by calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthKeyOf(date time.Time) MonthKey {
	return MonthKey{Year: date.Year(), Month: date.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// First returns the first day of the month.
func (k MonthKey) First() time.Time {
	return transaction.Date(k.Year, k.Month, 1)
}

// WeekBlock returns the index of the 7-day block, counted back from ref, that date
// belongs to. Block 0 is [ref-6, ref], block 1 is [ref-13, ref-7] and so on.
// Dates after ref give negative blocks.
func WeekBlock(ref, date time.Time) int {
	days := daysBetween(transaction.DateOf(date), transaction.DateOf(ref))
	if days < 0 {
		return -((-days + 6) / 7)
	}

	return days / 7
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// Bucket is one point of a time series.
type Bucket struct {
	Label    string
	Start    time.Time
	End      time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

func (b Bucket) Net() decimal.Decimal {
	return b.Income.Sub(b.Expenses)
}

// Series buckets the transactions of s inside w into a chronological, zero-filled
// series: one bucket per day for 7d and 30d, one per 7-day block for 90d and one
// per calendar month for 1y.
func Series(s []transaction.Transaction, ref time.Time, w Window) ([]Bucket, error) {
	in, err := WindowedFilter(s, ref, w)
	if err != nil {
		return nil, err
	}

	start, end := w.Start(ref), transaction.DateOf(ref)

	var (
		buckets []Bucket
		index   func(date time.Time) int
	)

	switch w {
	case WindowWeek, WindowMonth:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			buckets = append(buckets, newBucket(transaction.FormatDate(d), d, d))
		}

		index = func(date time.Time) int { return daysBetween(start, date) }
	case WindowQuarter:
		blocks := WeekBlock(ref, start) + 1
		for b := blocks - 1; b >= 0; b-- {
			last := end.AddDate(0, 0, -7*b)
			first := last.AddDate(0, 0, -6)

			if first.Before(start) {
				first = start
			}

			buckets = append(buckets, newBucket(transaction.FormatDate(first), first, last))
		}

		index = func(date time.Time) int { return blocks - 1 - WeekBlock(ref, date) }
	default:
		first := MonthKeyOf(start)
		for k := first; !k.First().After(end); k = MonthKeyOf(k.First().AddDate(0, 1, 0)) {
			from, to := k.First(), k.First().AddDate(0, 1, -1)

			if from.Before(start) {
				from = start
			}

			if to.After(end) {
				to = end
			}

			buckets = append(buckets, newBucket(k.String(), from, to))
		}

		index = func(date time.Time) int {
			k := MonthKeyOf(date)
			return (k.Year-first.Year)*12 + int(k.Month) - int(first.Month)
		}
	}

	for _, tx := range in {
		b := &buckets[index(tx.OccurredOn)]

		switch tx.Kind {
		case transaction.KindIncome:
			b.Income = b.Income.Add(tx.Amount)
		case transaction.KindExpense:
			b.Expenses = b.Expenses.Add(tx.Amount)
		}
	}

	return buckets, nil
}

func newBucket(label string, start, end time.Time) Bucket {
	return Bucket{Label: label, Start: start, End: end, Income: decimal.Zero, Expenses: decimal.Zero}
}

// Package cgd reads the CSV exports of Caixa Geral de Depósitos.
package cgd

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/saldo/internal/encoding"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

const dateLayout = "02-01-2006"

// Parser detects which CGD export it is given (conta, extrato or cartão) from
// the header row and turns every movement into a candidate filed under
// "outros". Categorization happens later.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.Candidate, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, header, ok := detect(rows)
	if !ok {
		return nil, fmt.Errorf("no matching CGD format found: expected columns for conta, extrato, or cartão")
	}

	var out []transaction.Candidate

	for i, row := range rows[header+1:] {
		line := header + i + 2

		date, ok := cols.date(row, profile.Date)
		if !ok {
			continue
		}

		kind, amount, ok := cols.amount(row, profile)
		if !ok {
			continue
		}

		desc := cols.cell(row, profile.Desc)
		if desc == "" {
			return nil, fmt.Errorf("line %d: missing description", line)
		}

		out = append(out, transaction.Candidate{
			Kind:        kind,
			Description: truncate(desc, transaction.MaxDescriptionLength),
			Category:    transaction.CategoryOther,
			Amount:      amount,
			OccurredOn:  date,
		})
	}

	return out, nil
}

// columns maps header names to their position.
type columns map[string]int

func detect(rows [][]string) (Profile, columns, int, bool) {
	for i, row := range rows {
		cols := make(columns, len(row))

		for j, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = j
			}
		}

		for _, p := range profiles {
			if cols.has(p.columns()...) {
				return p, cols, i, true
			}
		}
	}

	return Profile{}, nil, 0, false
}

func (c columns) has(names ...string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}

	return true
}

func (c columns) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// date reports false for blank or unparseable cells, which is how footer
// and page-break rows look.
func (c columns) date(row []string, name string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, c.cell(row, name))
	if err != nil {
		return time.Time{}, false
	}

	return transaction.DateOf(t), true
}

func (c columns) amount(row []string, p Profile) (transaction.Kind, decimal.Decimal, bool) {
	if p.Layout == signed {
		d, ok := c.decimal(row, p.Amount)
		if !ok {
			return "", decimal.Zero, false
		}

		if d.IsNegative() {
			return transaction.KindExpense, d.Neg(), true
		}

		return transaction.KindIncome, d, true
	}

	if d, ok := c.decimal(row, p.Debit); ok {
		return transaction.KindExpense, d.Abs(), true
	}

	if d, ok := c.decimal(row, p.Credit); ok {
		return transaction.KindIncome, d.Abs(), true
	}

	return "", decimal.Zero, false
}

// decimal reports false for blank, malformed and zero amounts.
func (c columns) decimal(row []string, name string) (decimal.Decimal, bool) {
	s := c.cell(row, name)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return strings.TrimSpace(string(r[:n]))
}

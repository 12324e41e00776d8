package cgd

type amountLayout int

const (
	// signed is a single column where negative values are expenses.
	signed amountLayout = iota
	// split is a debit column for expenses and a credit column for income.
	split
)

// Profile is the column layout of one CGD export.
type Profile struct {
	Name   string
	Date   string
	Desc   string
	Layout amountLayout
	Amount string
	Debit  string
	Credit string
}

func (p Profile) columns() []string {
	if p.Layout == split {
		return []string{p.Date, p.Desc, p.Debit, p.Credit}
	}

	return []string{p.Date, p.Desc, p.Amount}
}

// profiles are tried in order, so one whose columns are a superset of
// another's must come first.
var profiles = []Profile{
	{Name: "cartão", Date: "Data", Desc: "Descrição", Layout: split, Debit: "Débito", Credit: "Crédito"},
	{Name: "extrato", Date: "Data mov.", Desc: "Descrição", Layout: signed, Amount: "Movimento"},
	{Name: "conta", Date: "Data mov.", Desc: "Descrição", Layout: signed, Amount: "Montante"},
}

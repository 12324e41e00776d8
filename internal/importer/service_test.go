package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/importer"
	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

const export = `Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;COMPRA PINGO DOCE LISBOA;-58,74;1.000,00
09-01-2026;09-01-2026;TFI Wise;8.608,52;1.058,74
`

func TestService_Import(t *testing.T) {
	ctx := context.Background()

	rules := categorize.NewService(categorize.NewMemoryRepository())
	require.NoError(t, rules.Learn(ctx, "user-1", categorize.Rule{Pattern: "pingo doce", Category: transaction.CategoryFood}))

	ctrl := gomock.NewController(t)
	p := ledger.NewMockPersistence(ctrl)
	p.EXPECT().PersistCreate(gomock.Any(), gomock.Any()).Return(nil)
	p.EXPECT().PersistCreate(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	store, err := ledger.New("user-1", nil, p)
	require.NoError(t, err)

	res, err := importer.NewService(rules).Import(ctx, "user-1", importer.BankCGD, strings.NewReader(export), store)
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, transaction.CategoryFood, res.Created[0].Category)
	assert.Equal(t, "user-1", res.Created[0].OwnerID)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Row)
	assert.ErrorIs(t, res.Rejected[0].Err, transaction.ErrPersistence)
	assert.Equal(t, transaction.CategoryOther, res.Rejected[0].Candidate.Category)

	assert.Equal(t, 1, store.Len())
}

func TestService_UnknownBank(t *testing.T) {
	_, err := importer.NewService(nil).Parse(context.Background(), "user-1", "revolut", strings.NewReader(export))
	assert.ErrorContains(t, err, "unknown bank")
}

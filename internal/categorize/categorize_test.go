package categorize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		rule      categorize.Rule
		setupMock func(m *categorize.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			rule: categorize.Rule{Pattern: "  PINGO DOCE ", Category: transaction.CategoryFood},
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().
					CreateRule(gomock.Any(), "user-1", categorize.Rule{Pattern: "PINGO DOCE", Category: transaction.CategoryFood}).
					Return(nil)
			},
		},
		{
			name:    "BlankPattern",
			rule:    categorize.Rule{Pattern: " ", Category: transaction.CategoryFood},
			wantErr: categorize.ErrInvalidRule,
		},
		{
			name:    "UnknownCategory",
			rule:    categorize.Rule{Pattern: "UBER", Category: "rides"},
			wantErr: categorize.ErrInvalidRule,
		},
		{
			name: "RepoError",
			rule: categorize.Rule{Pattern: "UBER", Category: transaction.CategoryTransport},
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().CreateRule(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := categorize.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := categorize.NewService(repo).Learn(context.Background(), "user-1", tt.rule)

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, categorize.ErrInvalidRule):
				assert.ErrorIs(t, err, categorize.ErrInvalidRule)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	repo := categorize.NewMemoryRepository()
	svc := categorize.NewService(repo)

	require.NoError(t, svc.Learn(ctx, "user-1", categorize.Rule{Pattern: "pingo", Category: transaction.CategoryFood}))
	require.NoError(t, svc.Learn(ctx, "user-1", categorize.Rule{
		Pattern:     "PINGO DOCE LISBOA",
		Category:    transaction.CategoryFood,
		Description: "Supermarket",
	}))
	require.NoError(t, svc.Learn(ctx, "user-2", categorize.Rule{Pattern: "COMPRA", Category: transaction.CategoryLeisure}))

	c := transaction.Candidate{
		Kind:        transaction.KindExpense,
		Description: "COMPRA PINGO DOCE LISBOA 123",
		Category:    transaction.CategoryOther,
		Amount:      decimal.RequireFromString("10"),
	}

	got, err := svc.Apply(ctx, "user-1", c)
	require.NoError(t, err)
	assert.Equal(t, transaction.CategoryFood, got.Category)
	assert.Equal(t, "Supermarket", got.Description)

	c.Description = "Pingo Doce Porto"
	got, err = svc.Apply(ctx, "user-1", c)
	require.NoError(t, err)
	assert.Equal(t, transaction.CategoryFood, got.Category)
	assert.Equal(t, "Pingo Doce Porto", got.Description)

	c.Description = "CINEMA"
	got, err = svc.Apply(ctx, "user-1", c)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

package accounts

import (
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewService(store, nil)

	user, err := service.CreateUser("alice")
	require.NoError(t, err)
	require.NotEmpty(t, user.UserID)
	require.Equal(t, "alice", user.Username)

	_, err = service.CreateUser("")
	require.Error(t, err)
}

func TestCredit(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewService(store, nil)

	user, err := service.CreateUser("alice")
	require.NoError(t, err)

	view, err := service.Credit(user.UserID, money.TON, "10.5")
	require.NoError(t, err)
	require.Equal(t, "10.5", view.Total)
	require.Equal(t, "0", view.Locked)
	require.Equal(t, "10.5", view.Available)

	// Credits accumulate.
	view, err = service.Credit(user.UserID, money.TON, "0.5")
	require.NoError(t, err)
	require.Equal(t, "11", view.Total)

	// A deposit transaction is recorded per credit.
	err = store.View(func(tx repository.ReadTx) error {
		txs := tx.Transactions(user.UserID)
		require.Len(t, txs, 2)
		require.Equal(t, model.TxDeposit, txs[0].Type)
		return nil
	})
	require.NoError(t, err)
}

func TestCredit_Validation(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewService(store, nil)

	user, err := service.CreateUser("alice")
	require.NoError(t, err)

	tests := []struct {
		name          string
		userID        string
		currency      money.Currency
		amount        string
		expectedError error
	}{
		{
			name:          "unknown_user",
			userID:        "ghost",
			currency:      money.TON,
			amount:        "1",
			expectedError: auctionerrors.ErrUserNotFound,
		},
		{
			name:          "unknown_currency",
			userID:        user.UserID,
			currency:      "BTC",
			amount:        "1",
			expectedError: auctionerrors.ErrInvalidCurrency,
		},
		{
			name:          "zero_amount",
			userID:        user.UserID,
			currency:      money.TON,
			amount:        "0",
			expectedError: auctionerrors.ErrInvalidAmount,
		},
		{
			name:          "malformed_amount",
			userID:        user.UserID,
			currency:      money.TON,
			amount:        "abc",
			expectedError: auctionerrors.ErrInvalidAmount,
		},
		{
			name:          "excess_precision",
			userID:        user.UserID,
			currency:      money.USDT,
			amount:        "1.0000001",
			expectedError: auctionerrors.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Credit(tt.userID, tt.currency, tt.amount)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestBalances(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewService(store, nil)

	user, err := service.CreateUser("alice")
	require.NoError(t, err)
	_, err = service.Credit(user.UserID, money.USDT, "100")
	require.NoError(t, err)

	balances, err := service.Balances(user.UserID)
	require.NoError(t, err)

	// Both supported currencies always appear.
	require.Len(t, balances, 2)
	require.Equal(t, "100", balances[money.USDT].Total)
	require.Equal(t, "0", balances[money.TON].Total)

	_, err = service.Balances("ghost")
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
}

func TestTransactions(t *testing.T) {
	store := repository.NewMemoryStore()
	service := NewService(store, nil)

	user, err := service.CreateUser("alice")
	require.NoError(t, err)

	_, err = service.Credit(user.UserID, money.TON, "10")
	require.NoError(t, err)

	// Seed a later bid lock so ordering is observable.
	err = store.Update(func(tx repository.Tx) error {
		units, err := money.ParseAmount("1.5", money.TON)
		if err != nil {
			return err
		}
		tx.AppendTransaction(model.Transaction{
			TransactionID: "tx-lock",
			UserID:        user.UserID,
			Type:          model.TxBidLock,
			Currency:      money.TON,
			Amount:        units,
			RefID:         "bid1",
			CreatedAt:     time.Now().UTC().Add(time.Minute),
		})
		return nil
	})
	require.NoError(t, err)

	views, err := service.Transactions(user.UserID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest first.
	require.Equal(t, "tx-lock", views[0].TransactionID)
	require.Equal(t, "bid_lock", views[0].Type)
	require.Equal(t, "TON", views[0].Currency)
	require.Equal(t, "1.5", views[0].Amount)
	require.Equal(t, "bid1", views[0].RefID)

	require.Equal(t, "deposit", views[1].Type)
	require.Equal(t, "10", views[1].Amount)
	require.Empty(t, views[1].RefID)

	_, err = service.Transactions("ghost")
	require.ErrorIs(t, err, auctionerrors.ErrUserNotFound)
}

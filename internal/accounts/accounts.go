// Package accounts manages users and direct balance credits. External
// payment-gateway settlement is out of scope; Credit is the engine-side
// entry point a deposit webhook or an operator would call.
package accounts

import (
	"fmt"
	"sort"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/ledger"
	model "auction-engine/internal/models"
	"auction-engine/internal/money"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// EventSink receives audit events. A nil sink disables auditing.
type EventSink interface {
	Append(eventType, userID, auctionID string, payload any)
}

// BalanceView is one formatted per-currency balance.
type BalanceView struct {
	Total     string `json:"total"`
	Locked    string `json:"locked"`
	Available string `json:"available"`
}

// Service manages users and their funds.
type Service struct {
	store  repository.Store
	events EventSink
}

// NewService creates an account service over the given store.
func NewService(store repository.Store, events EventSink) *Service {
	return &Service{store: store, events: events}
}

// CreateUser registers a participant with zero balances.
func (s *Service) CreateUser(username string) (model.User, error) {
	if username == "" {
		return model.User{}, fmt.Errorf("username is required: %w", auctionerrors.ErrInvalidAuction)
	}
	user := model.User{
		UserID:   utils.GenerateID(),
		Username: username,
		Balances: make(map[money.Currency]model.Balance),
	}
	err := s.store.Update(func(tx repository.Tx) error {
		tx.SaveUser(user)
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Credit adds funds to a user's balance and records a deposit
// transaction.
func (s *Service) Credit(userID string, currency money.Currency, amount string) (BalanceView, error) {
	if !currency.Valid() {
		return BalanceView{}, fmt.Errorf("currency %q: %w", currency, auctionerrors.ErrInvalidCurrency)
	}
	units, err := money.ParseAmount(amount, currency)
	if err != nil {
		return BalanceView{}, fmt.Errorf("%v: %w", err, auctionerrors.ErrInvalidAmount)
	}
	if units.Sign() <= 0 {
		return BalanceView{}, fmt.Errorf("credit amount must be positive: %w", auctionerrors.ErrInvalidAmount)
	}

	var view BalanceView
	err = s.store.Update(func(tx repository.Tx) error {
		user, err := tx.User(userID)
		if err != nil {
			return err
		}
		balance := user.Balances[currency]
		if err := ledger.ApplyDelta(&balance, units, money.Zero()); err != nil {
			return err
		}
		user.Balances[currency] = balance
		tx.SaveUser(user)

		tx.AppendTransaction(model.Transaction{
			TransactionID: utils.GenerateID(),
			UserID:        userID,
			Type:          model.TxDeposit,
			Currency:      currency,
			Amount:        units,
			CreatedAt:     time.Now().UTC(),
		})
		view = formatBalance(balance, currency)
		return nil
	})
	if err != nil {
		return BalanceView{}, err
	}
	if s.events != nil {
		s.events.Append("balance.credited", userID, "", map[string]any{
			"currency": currency,
			"amount":   money.FormatAmount(units, currency),
		})
	}
	return view, nil
}

// TransactionView is one formatted balance movement.
type TransactionView struct {
	TransactionID string    `json:"id"`
	Type          string    `json:"type"`
	Currency      string    `json:"currency"`
	Amount        string    `json:"amount"`
	RefID         string    `json:"refId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Transactions returns the user's balance movements newest first.
func (s *Service) Transactions(userID string) ([]TransactionView, error) {
	var out []TransactionView
	err := s.store.View(func(tx repository.ReadTx) error {
		if _, err := tx.User(userID); err != nil {
			return err
		}
		records := tx.Transactions(userID)
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
		for _, rec := range records {
			out = append(out, TransactionView{
				TransactionID: rec.TransactionID,
				Type:          string(rec.Type),
				Currency:      string(rec.Currency),
				Amount:        money.FormatAmount(rec.Amount, rec.Currency),
				RefID:         rec.RefID,
				CreatedAt:     rec.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Balances returns the user's formatted balance per supported currency.
func (s *Service) Balances(userID string) (map[money.Currency]BalanceView, error) {
	out := make(map[money.Currency]BalanceView)
	err := s.store.View(func(tx repository.ReadTx) error {
		user, err := tx.User(userID)
		if err != nil {
			return err
		}
		for _, c := range []money.Currency{money.TON, money.USDT} {
			out[c] = formatBalance(user.Balances[c], c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func formatBalance(b model.Balance, c money.Currency) BalanceView {
	return BalanceView{
		Total:     money.FormatAmount(b.Total, c),
		Locked:    money.FormatAmount(b.Locked, c),
		Available: money.FormatAmount(ledger.Available(b), c),
	}
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"game-wallet-gateway/internal/core/domain"
	"game-wallet-gateway/internal/core/ports"
	"game-wallet-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// accountGuard hands out one mutex per account id. Holding the mutex is what
// serializes every mutation for that account.
type accountGuard struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountGuard() *accountGuard {
	return &accountGuard{locks: make(map[string]*sync.Mutex)}
}

func (g *accountGuard) lock(accountID string) func() {
	g.mu.Lock()
	m, ok := g.locks[accountID]
	if !ok {
		m = &sync.Mutex{}
		g.locks[accountID] = m
	}
	g.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// lockPair acquires both account guards in id order so concurrent transfers
// between the same pair can never deadlock.
func (g *accountGuard) lockPair(a, b string) func() {
	ids := []string{a, b}
	sort.Strings(ids)
	first := g.lock(ids[0])
	second := g.lock(ids[1])
	return func() {
		second()
		first()
	}
}

type ledgerService struct {
	accounts       ports.AccountStore
	guard          *accountGuard
	currency       string
	initialBalance int64
	historyCap     int
	log            zerolog.Logger
	now            func() time.Time
}

func NewLedgerService(accounts ports.AccountStore, currency string, initialBalance int64, historyCap int, log zerolog.Logger) ports.LedgerService {
	return &ledgerService{
		accounts:       accounts,
		guard:          newAccountGuard(),
		currency:       currency,
		initialBalance: initialBalance,
		historyCap:     historyCap,
		log:            log.With().Str("component", "ledger_service").Logger(),
		now:            time.Now,
	}
}

// load fetches the account record, creating a fresh one with the configured
// starting balance the first time an account is seen.
func (s *ledgerService) load(ctx context.Context, accountID string) (*domain.AccountRecord, error) {
	rec, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, apperror.StorageError(err)
	}
	if rec == nil {
		rec = &domain.AccountRecord{
			Wallet: domain.Wallet{
				AccountID:   accountID,
				Balance:     s.initialBalance,
				Currency:    s.currency,
				LastUpdated: s.now(),
			},
		}
	}
	return rec, nil
}

// append records the transaction and trims the log to the history cap.
func (s *ledgerService) append(rec *domain.AccountRecord, tx domain.Transaction) {
	rec.Transactions = append(rec.Transactions, tx)
	if s.historyCap > 0 && len(rec.Transactions) > s.historyCap {
		rec.Transactions = rec.Transactions[len(rec.Transactions)-s.historyCap:]
	}
}

func (s *ledgerService) store(ctx context.Context, rec *domain.AccountRecord) error {
	if err := s.accounts.Put(ctx, rec); err != nil {
		return apperror.StorageError(err)
	}
	return nil
}

// debitGated reports whether a negative delta of this type must fit within
// the available balance. Loss settlements are imposed by the game server and
// may push the balance negative.
func debitGated(t domain.TransactionType) bool {
	return t == domain.TransactionTypeWithdraw || t == domain.TransactionTypeTransfer
}

func (s *ledgerService) ApplyDelta(ctx context.Context, d ports.LedgerDelta) (*domain.Transaction, error) {
	unlock := s.guard.lock(d.AccountID)
	defer unlock()

	rec, err := s.load(ctx, d.AccountID)
	if err != nil {
		return nil, err
	}

	if d.Amount < 0 && debitGated(d.Type) && rec.Wallet.Available() < -d.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now()
	tx := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   d.AccountID,
		Type:        d.Type,
		Amount:      d.Amount,
		TableID:     d.TableID,
		HandID:      d.HandID,
		CountryCode: d.CountryCode,
		Description: d.Description,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	rec.Wallet.Balance += d.Amount
	rec.Wallet.LastUpdated = now
	s.append(rec, tx)

	if err := s.store(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", d.AccountID).
		Str("type", string(d.Type)).
		Int64("amount", d.Amount).
		Int64("balance", rec.Wallet.Balance).
		Msg("ledger delta applied")
	return &tx, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromAccount, toAccount string, amount int64, countryCode, description string) (*domain.Transaction, error) {
	if fromAccount == toAccount {
		return nil, apperror.ErrSelfTransfer()
	}

	unlock := s.guard.lockPair(fromAccount, toAccount)
	defer unlock()

	src := domain.Transaction{
		ID:           uuid.New(),
		AccountID:    fromAccount,
		Type:         domain.TransactionTypeTransfer,
		Amount:       -amount,
		Counterparty: toAccount,
		CountryCode:  countryCode,
		Description:  description,
	}
	return s.commitTransferLocked(ctx, src)
}

// commitTransferLocked applies both sides of a transfer. Callers must hold
// both account guards.
func (s *ledgerService) commitTransferLocked(ctx context.Context, src domain.Transaction) (*domain.Transaction, error) {
	amount := -src.Amount
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	from, err := s.load(ctx, src.AccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.load(ctx, src.Counterparty)
	if err != nil {
		return nil, err
	}

	if from.Wallet.Available() < amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now()
	src.Status = domain.TransactionStatusCompleted
	src.CreatedAt = now

	dst := domain.Transaction{
		ID:           uuid.New(),
		AccountID:    src.Counterparty,
		Type:         domain.TransactionTypeTransfer,
		Amount:       amount,
		Counterparty: src.AccountID,
		CountryCode:  src.CountryCode,
		Description:  src.Description,
		Status:       domain.TransactionStatusCompleted,
		CreatedAt:    now,
	}

	// Snapshot the source record before mutating it so a failed credit can
	// roll the debit back.
	fromBefore := *from

	from.Wallet.Balance -= amount
	from.Wallet.LastUpdated = now
	s.append(from, src)

	to.Wallet.Balance += amount
	to.Wallet.LastUpdated = now
	s.append(to, dst)

	// Write the debited side first so a crash between the two writes can
	// never create money.
	if err := s.store(ctx, from); err != nil {
		return nil, err
	}
	if err := s.store(ctx, to); err != nil {
		// The debit is already persisted. Restore the source record so the
		// pair never loses value.
		if restoreErr := s.store(ctx, &fromBefore); restoreErr != nil {
			s.log.Error().
				Err(restoreErr).
				Str("from", src.AccountID).
				Str("to", src.Counterparty).
				Int64("amount", amount).
				Msg("transfer credit and debit rollback both failed, accounts need manual reconciliation")
			return nil, restoreErr
		}
		return nil, err
	}

	s.log.Info().
		Str("from", src.AccountID).
		Str("to", src.Counterparty).
		Int64("amount", amount).
		Msg("transfer applied")
	return &src, nil
}

func (s *ledgerService) Freeze(ctx context.Context, accountID, tableID string, amount int64, countryCode string) (*domain.Transaction, error) {
	unlock := s.guard.lock(accountID)
	defer unlock()

	rec, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if _, open := rec.OpenBuyIns[tableID]; open {
		return nil, apperror.ErrBuyInOpen(tableID)
	}
	if rec.Wallet.Available() < amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now()
	tx := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        domain.TransactionTypeBuyIn,
		Amount:      amount,
		TableID:     tableID,
		CountryCode: countryCode,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	rec.Wallet.Frozen += amount
	rec.Wallet.LastUpdated = now
	if rec.OpenBuyIns == nil {
		rec.OpenBuyIns = make(map[string]int64)
	}
	rec.OpenBuyIns[tableID] = amount
	s.append(rec, tx)

	if err := s.store(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", accountID).
		Str("table_id", tableID).
		Int64("amount", amount).
		Msg("buy-in frozen")
	return &tx, nil
}

func (s *ledgerService) Release(ctx context.Context, accountID, tableID string, countryCode string) (*domain.Transaction, error) {
	unlock := s.guard.lock(accountID)
	defer unlock()

	rec, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	amount, open := rec.OpenBuyIns[tableID]
	if !open {
		return nil, apperror.ErrNoOpenBuyIn(tableID)
	}

	now := s.now()
	tx := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        domain.TransactionTypeCashOut,
		Amount:      amount,
		TableID:     tableID,
		CountryCode: countryCode,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	rec.Wallet.Frozen -= amount
	rec.Wallet.LastUpdated = now
	delete(rec.OpenBuyIns, tableID)
	s.append(rec, tx)

	if err := s.store(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", accountID).
		Str("table_id", tableID).
		Int64("amount", amount).
		Msg("buy-in released")
	return &tx, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (*domain.Wallet, error) {
	unlock := s.guard.lock(accountID)
	defer unlock()

	rec, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	w := rec.Wallet
	return &w, nil
}

func (s *ledgerService) History(ctx context.Context, accountID string, limit int) ([]domain.Transaction, error) {
	unlock := s.guard.lock(accountID)
	defer unlock()

	rec, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, apperror.StorageError(err)
	}
	if rec == nil {
		return nil, apperror.ErrNotFound("account")
	}

	txs := rec.Transactions
	out := make([]domain.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, txs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *ledgerService) Commit(ctx context.Context, draft domain.Transaction) (*domain.Transaction, error) {
	if draft.Type == domain.TransactionTypeTransfer && draft.Counterparty != "" {
		unlock := s.guard.lockPair(draft.AccountID, draft.Counterparty)
		defer unlock()
		return s.commitTransferLocked(ctx, draft)
	}

	unlock := s.guard.lock(draft.AccountID)
	defer unlock()

	rec, err := s.load(ctx, draft.AccountID)
	if err != nil {
		return nil, err
	}

	// Available funds are re-checked at commit time: the balance may have
	// moved while the draft sat in the approval queue.
	if draft.Amount < 0 && debitGated(draft.Type) && rec.Wallet.Available() < -draft.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now()
	draft.Status = domain.TransactionStatusCompleted
	draft.CreatedAt = now

	rec.Wallet.Balance += draft.Amount
	rec.Wallet.LastUpdated = now
	s.append(rec, draft)

	if err := s.store(ctx, rec); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("account_id", draft.AccountID).
		Str("transaction_id", draft.ID.String()).
		Int64("amount", draft.Amount).
		Msg("approved draft committed")
	return &draft, nil
}

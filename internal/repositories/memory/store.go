// Package memory is an in-process store used for STORAGE_DRIVER=memory and tests.
// A single lock guards accounts and entries together so every write is atomic
// and every snapshot is consistent.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
)

// Store keeps the chart of accounts and the journal in memory.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]domain.Account
	codes         map[string]string // code -> accountID
	entries       map[string]domain.JournalEntry
	order         []string          // entry IDs by sequence
	idempotency   map[string]string // key -> entryID
	lastSequence  int64
	accountUsages map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		codes:         make(map[string]string),
		entries:       make(map[string]domain.JournalEntry),
		idempotency:   make(map[string]string),
		accountUsages: make(map[string]int),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.HealthChecker           = (*Store)(nil)
)

// Provider wires the store into every repository slot.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{AccountRepo: s, JournalRepo: s, Health: s}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// --- accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codes[code]
	if !ok {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listAccountsLocked(filter), nil
}

func (s *Store) listAccountsLocked(filter domain.AccountFilter) []domain.Account {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if filter.Matches(acc) {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *Store) ListAccountCodes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.codes))
	for code := range s.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, taken := s.codes[account.Code]; taken {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	s.accounts[account.AccountID] = account
	s.codes[account.Code] = account.AccountID
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if owner, taken := s.codes[account.Code]; taken && owner != account.AccountID {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	delete(s.codes, current.Code)
	s.codes[account.Code] = account.AccountID
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	acc.IsActive = false
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	s.accounts[accountID] = acc
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if s.accountUsages[accountID] > 0 {
		return fmt.Errorf("%w: account %s is referenced by journal lines", apperrors.ErrConflict, accountID)
	}
	delete(s.codes, acc.Code)
	delete(s.accounts, accountID)
	return nil
}

// --- journal ---

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return cloneEntry(e), nil
}

func (s *Store) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idempotency[key]
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
	}
	return cloneEntry(s.entries[id]), nil
}

func (s *Store) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.JournalEntry, 0)
	for _, id := range s.order {
		e := s.entries[id]
		if e.Sequence <= filter.AfterSequence || !matchesEntryFilter(e, filter) {
			continue
		}
		out = append(out, *cloneEntry(e))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func matchesEntryFilter(e domain.JournalEntry, filter domain.EntryFilter) bool {
	if filter.AccountID != "" && !e.References(filter.AccountID) {
		return false
	}
	if !filter.Range.Contains(e.Date) {
		return false
	}
	if doc := filter.RelatedDocument; doc != nil {
		if e.RelatedDocument == nil || *e.RelatedDocument != *doc {
			return false
		}
	}
	return true
}

func (s *Store) AccountHasEntries(ctx context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accountUsages[accountID] > 0, nil
}

func (s *Store) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(entry)
}

// insertLocked checks every precondition before mutating anything.
func (s *Store) insertLocked(entry *domain.JournalEntry) error {
	if _, exists := s.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	if entry.IdempotencyKey != "" {
		if _, used := s.idempotency[entry.IdempotencyKey]; used {
			return fmt.Errorf("%w: idempotency key %s", apperrors.ErrDuplicate, entry.IdempotencyKey)
		}
	}
	for _, l := range entry.Lines {
		if _, ok := s.accounts[l.AccountID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, l.AccountID)
		}
	}

	s.lastSequence++
	entry.Sequence = s.lastSequence
	s.entries[entry.EntryID] = *cloneEntry(*entry)
	s.order = append(s.order, entry.EntryID)
	if entry.IdempotencyKey != "" {
		s.idempotency[entry.IdempotencyKey] = entry.EntryID
	}
	for _, l := range entry.Lines {
		s.accountUsages[l.AccountID]++
	}
	return nil
}

func (s *Store) UpdateEntryDetails(ctx context.Context, entry domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[entry.EntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	if len(current.Lines) != len(entry.Lines) {
		return fmt.Errorf("%w: line count of entry %s cannot change", apperrors.ErrConflict, entry.EntryID)
	}
	updated := cloneEntry(current)
	updated.Description = entry.Description
	for i := range updated.Lines {
		updated.Lines[i].Memo = entry.Lines[i].Memo
	}
	s.entries[entry.EntryID] = *updated
	return nil
}

func (s *Store) SaveReversal(ctx context.Context, originalID string, reversal *domain.JournalEntry, replacement *domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.entries[originalID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, originalID)
	}
	if original.Status == domain.Reversed || original.ReversedBy != nil {
		return fmt.Errorf("%w: journal entry %s is already reversed", apperrors.ErrConflict, originalID)
	}
	if original.ReversalOf != nil {
		return fmt.Errorf("%w: journal entry %s is itself a reversal", apperrors.ErrConflict, originalID)
	}

	// Roll back the reversal if the replacement cannot be stored.
	snapshotSeq := s.lastSequence
	if err := s.insertLocked(reversal); err != nil {
		return err
	}
	if replacement != nil {
		if err := s.insertLocked(replacement); err != nil {
			s.removeLocked(reversal.EntryID)
			s.lastSequence = snapshotSeq
			return err
		}
	}

	reversalID := reversal.EntryID
	original.Status = domain.Reversed
	original.ReversedBy = &reversalID
	s.entries[originalID] = original
	return nil
}

func (s *Store) removeLocked(entryID string) {
	e, ok := s.entries[entryID]
	if !ok {
		return
	}
	delete(s.entries, entryID)
	if e.IdempotencyKey != "" {
		delete(s.idempotency, e.IdempotencyKey)
	}
	for _, l := range e.Lines {
		s.accountUsages[l.AccountID]--
	}
	for i, id := range s.order {
		if id == entryID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) Snapshot(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := domain.DateRange{End: filter.Range.End}
	entries := make([]domain.JournalEntry, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		if filter.AccountID != "" && !e.References(filter.AccountID) {
			continue
		}
		if !window.Contains(e.Date) {
			continue
		}
		entries = append(entries, *cloneEntry(e))
	}

	return domain.LedgerSnapshot{
		Accounts: s.listAccountsLocked(domain.AccountFilter{}),
		Entries:  entries,
	}, nil
}

func cloneEntry(e domain.JournalEntry) *domain.JournalEntry {
	c := e
	c.Lines = append([]domain.Line(nil), e.Lines...)
	if e.RelatedDocument != nil {
		doc := *e.RelatedDocument
		c.RelatedDocument = &doc
	}
	return &c
}

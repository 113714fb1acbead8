package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/bookkeeping"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/observability"
	"github.com/SscSPs/microlend_ledger/internal/utils/pagination"
)

// Field error codes added on top of the pure entry rules.
const (
	CodeAccountNotFound = "account_not_found"
	CodeAccountInactive = "account_inactive"
	CodeInvalidRange    = "invalid_range"
	CodeInvalidToken    = "invalid_token"
	CodeInvalidIndex    = "invalid_index"
)

// journalService validates, posts and corrects journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	metrics     *observability.Metrics
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalMetrics records posting events.
func WithJournalMetrics(m *observability.Metrics) JournalServiceOption {
	return func(s *journalService) {
		s.metrics = m
	}
}

// WithJournalClock overrides the clock used for CreatedAt.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) ValidateEntry(ctx context.Context, input domain.JournalEntryInput) (*domain.ValidatedEntry, error) {
	validated, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	return &validated, nil
}

// validate runs the entry rules and then checks every referenced account
// exists and is active. Problems from both stages are reported together.
func (s *journalService) validate(ctx context.Context, input domain.JournalEntryInput) (domain.ValidatedEntry, error) {
	validated, err := bookkeeping.ValidateEntry(input)

	verr := apperrors.NewValidationError()
	if err != nil {
		var ruleErr *apperrors.ValidationError
		if !errors.As(err, &ruleErr) {
			return domain.ValidatedEntry{}, err
		}
		verr.Fields = append(verr.Fields, ruleErr.Fields...)
	}

	ids := make([]string, 0, len(input.Lines))
	seen := make(map[string]bool, len(input.Lines))
	for _, l := range input.Lines {
		id := strings.TrimSpace(l.AccountID)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for entry validation")
		return domain.ValidatedEntry{}, err
	}
	for i, l := range input.Lines {
		id := strings.TrimSpace(l.AccountID)
		if id == "" {
			continue
		}
		field := fmt.Sprintf("lines[%d].accountID", i)
		acc, ok := accounts[id]
		switch {
		case !ok:
			verr.Add(field, CodeAccountNotFound, "account %s does not exist", id)
		case !acc.IsActive:
			verr.Add(field, CodeAccountInactive, "account %s (%s) is inactive", acc.Code, acc.Name)
		}
	}

	if verr.HasErrors() {
		s.metrics.ValidationFailed()
		s.LogDebug(ctx, "Journal entry failed validation", slog.Int("problems", len(verr.Fields)))
		return domain.ValidatedEntry{}, verr
	}
	return validated, nil
}

func (s *journalService) newEntry(v domain.ValidatedEntry, userID, idempotencyKey string) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         uuid.NewString(),
		Date:            v.Date,
		Description:     v.Description,
		Lines:           v.Lines,
		RelatedDocument: v.RelatedDocument,
		RecordedBy:      userID,
		Status:          domain.Posted,
		IdempotencyKey:  idempotencyKey,
		CreatedAt:       s.now().UTC(),
	}
}

// PostEntry validates and commits an entry. A repeated idempotency key returns
// the entry committed first with created=false.
func (s *journalService) PostEntry(ctx context.Context, input domain.JournalEntryInput, idempotencyKey string, userID string) (*domain.JournalEntry, bool, error) {
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" {
		existing, err := s.journalRepo.FindEntryByIdempotencyKey(ctx, idempotencyKey)
		if err == nil {
			s.metrics.IdempotentReplay()
			s.LogInfo(ctx, "Idempotent replay of journal entry", slog.String("entry_id", existing.EntryID))
			return existing, false, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up idempotency key")
			return nil, false, err
		}
	}

	validated, err := s.validate(ctx, input)
	if err != nil {
		return nil, false, err
	}

	entry := s.newEntry(validated, userID, idempotencyKey)
	if err := s.journalRepo.SaveEntry(ctx, &entry); err != nil {
		// Lost a race with a concurrent post carrying the same key.
		if idempotencyKey != "" && errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := s.journalRepo.FindEntryByIdempotencyKey(ctx, idempotencyKey)
			if findErr == nil {
				s.metrics.IdempotentReplay()
				return existing, false, nil
			}
		}
		s.logFailure(ctx, err, "Failed to save journal entry")
		return nil, false, err
	}

	s.metrics.EntryPosted()
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("sequence", entry.Sequence),
		slog.String("total", validated.Total.StringFixed(domain.MoneyPlaces)))
	return &entry, true, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

// ListEntries returns entries in posting order, one page at a time.
func (s *journalService) ListEntries(ctx context.Context, filter domain.EntryFilter, nextToken *string) (*domain.EntryPage, error) {
	if err := checkRange(filter.Range); err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, apperrors.NewValidationError(apperrors.FieldError{
				Field: "nextToken", Code: CodeInvalidToken, Message: "nextToken is not valid",
			})
		}
		filter.AfterSequence = seq
	}

	// One extra row tells us whether another page exists.
	filter.Limit = limit + 1
	entries, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, err
	}

	page := &domain.EntryPage{Entries: entries}
	if len(entries) > limit {
		page.Entries = entries[:limit]
		token := pagination.EncodeSequenceToken(page.Entries[limit-1].Sequence)
		page.NextToken = &token
	}
	return page, nil
}

// UpdateEntry edits the narrative of a posted entry. Anything that moves money
// (date, accounts, amounts, line count) is a conflict; use AmendEntry instead.
func (s *journalService) UpdateEntry(ctx context.Context, entryID string, patch domain.EntryPatch, userID string) (*domain.JournalEntry, error) {
	current, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find journal entry for update", slog.String("entry_id", entryID))
		return nil, err
	}

	if err := financialChange(*current, patch); err != nil {
		s.LogWarn(ctx, err, "Refused to change posted amounts", slog.String("entry_id", entryID))
		return nil, err
	}

	updated := *current
	updated.Lines = append([]domain.Line(nil), current.Lines...)

	verr := apperrors.NewValidationError()
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			verr.Add("description", bookkeeping.CodeRequired, "description is required")
		}
		updated.Description = description
	}
	for i, l := range patch.Lines {
		if l.Memo != nil {
			updated.Lines[i].Memo = strings.TrimSpace(*l.Memo)
		}
	}
	for i, memo := range patch.LineMemos {
		if i < 0 || i >= len(updated.Lines) {
			verr.Add(fmt.Sprintf("lines[%d].memo", i), CodeInvalidIndex, "entry has no line %d", i)
			continue
		}
		updated.Lines[i].Memo = strings.TrimSpace(memo)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if err := s.journalRepo.UpdateEntryDetails(ctx, updated); err != nil {
		s.logFailure(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry details updated", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return &updated, nil
}

// financialChange reports a ConflictError when patch would alter what the entry posted.
func financialChange(current domain.JournalEntry, patch domain.EntryPatch) error {
	conflict := func(what string) error {
		return fmt.Errorf("%w: posted entry %s cannot change its %s; reverse or amend it instead", apperrors.ErrConflict, current.EntryID, what)
	}

	if patch.Date != nil && !domain.DateOf(*patch.Date).Equal(domain.DateOf(current.Date)) {
		return conflict("date")
	}
	if patch.Lines == nil {
		return nil
	}
	if len(patch.Lines) != len(current.Lines) {
		return conflict("lines")
	}
	for i, l := range patch.Lines {
		posted := current.Lines[i]
		if strings.TrimSpace(l.AccountID) != posted.AccountID {
			return conflict("accounts")
		}
		if !l.Debit.Equal(posted.Debit) || !l.Credit.Equal(posted.Credit) {
			return conflict("amounts")
		}
	}
	return nil
}

// ReverseEntry posts the mirror image of an entry and marks the original reversed.
// The reversal is dated on date, or on the original's date when date is nil.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error) {
	original, err := s.reversible(ctx, entryID)
	if err != nil {
		return nil, err
	}

	reversal := s.reversalOf(*original, date, userID)
	if err := s.journalRepo.SaveReversal(ctx, original.EntryID, &reversal, nil); err != nil {
		s.logFailure(ctx, err, "Failed to save reversal", slog.String("entry_id", entryID))
		return nil, err
	}

	s.metrics.EntryPosted()
	s.metrics.EntryReversed()
	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID))
	return &reversal, nil
}

// AmendEntry replaces an entry: the original is reversed and the corrected
// entry posted in one atomic write.
func (s *journalService) AmendEntry(ctx context.Context, entryID string, input domain.JournalEntryInput, userID string) (*domain.JournalEntry, *domain.JournalEntry, error) {
	original, err := s.reversible(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	validated, err := s.validate(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if validated.RelatedDocument == nil {
		validated.RelatedDocument = original.RelatedDocument
	}

	reversal := s.reversalOf(*original, nil, userID)
	replacement := s.newEntry(validated, userID, "")
	if err := s.journalRepo.SaveReversal(ctx, original.EntryID, &reversal, &replacement); err != nil {
		s.logFailure(ctx, err, "Failed to save amendment", slog.String("entry_id", entryID))
		return nil, nil, err
	}

	s.metrics.EntryPosted()
	s.metrics.EntryPosted()
	s.metrics.EntryReversed()
	s.LogInfo(ctx, "Journal entry amended",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID),
		slog.String("replacement_id", replacement.EntryID))
	return &reversal, &replacement, nil
}

func (s *journalService) reversible(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	if original.Status == domain.Reversed || original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: journal entry %s is already reversed", apperrors.ErrConflict, entryID)
	}
	if original.ReversalOf != nil {
		return nil, fmt.Errorf("%w: journal entry %s is a reversal and cannot be reversed", apperrors.ErrConflict, entryID)
	}
	return original, nil
}

func (s *journalService) reversalOf(original domain.JournalEntry, date *time.Time, userID string) domain.JournalEntry {
	lines := make([]domain.Line, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.Line{AccountID: l.AccountID, Debit: l.Credit, Credit: l.Debit, Memo: l.Memo}
	}

	on := original.Date
	if date != nil && !date.IsZero() {
		on = domain.DateOf(*date)
	}

	originalID := original.EntryID
	return domain.JournalEntry{
		EntryID:         uuid.NewString(),
		Date:            on,
		Description:     "Reversal of: " + original.Description,
		Lines:           lines,
		RelatedDocument: original.RelatedDocument,
		RecordedBy:      userID,
		Status:          domain.Posted,
		ReversalOf:      &originalID,
		CreatedAt:       s.now().UTC(),
	}
}

// checkRange rejects a window whose start falls after its end.
func checkRange(r domain.DateRange) error {
	if r.Start != nil && r.End != nil && domain.DateOf(*r.Start).After(domain.DateOf(*r.End)) {
		return apperrors.NewValidationError(apperrors.FieldError{
			Field:   "startDate",
			Code:    CodeInvalidRange,
			Message: "startDate must not be after endDate",
		})
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/bookkeeping"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/utils/accounting"
)

// codeGenerationAttempts bounds retries when another writer takes a generated code first.
const codeGenerationAttempts = 3

// accountService is the account registry. It owns code generation and keeps
// the normal balance derived from the account type.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	entries     portsrepo.EntryReferenceChecker
	now         func() time.Time

	// codeMu serialises code generation within this process.
	codeMu sync.Mutex
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithAccountClock overrides the clock used for audit fields.
func WithAccountClock(now func() time.Time) ServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates the account registry. entries is consulted before
// an account is deleted.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, entries portsrepo.EntryReferenceChecker, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		entries:     entries,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, input domain.AccountInput, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)

	verr := apperrors.NewValidationError()
	if name == "" {
		verr.Add("name", bookkeeping.CodeRequired, "name is required")
	}
	normal, err := accounting.NormalBalanceFor(input.AccountType)
	if err != nil {
		verr.Add("accountType", "invalid_type", "account type must be one of %s", accountTypeList())
	} else if code != "" && !bookkeeping.CodeMatchesType(code, input.AccountType) {
		prefix, _ := bookkeeping.CodePrefix(input.AccountType)
		verr.Add("code", "prefix_mismatch", "code for %s accounts must start with %s", input.AccountType, prefix)
	}
	if verr.HasErrors() {
		s.LogWarn(ctx, verr, "Rejected account input", slog.String("name", input.Name))
		return nil, verr
	}

	now := s.now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Code:          code,
		Name:          name,
		AccountType:   input.AccountType,
		SubType:       strings.TrimSpace(input.SubType),
		NormalBalance: normal,
		Description:   strings.TrimSpace(input.Description),
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if code != "" {
		err = s.accountRepo.SaveAccount(ctx, account)
	} else {
		err = s.saveWithGeneratedCode(ctx, &account)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			err = fmt.Errorf("%w: account code %s is already in use", apperrors.ErrConflict, account.Code)
		}
		s.logFailure(ctx, err, "Failed to save account", slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

// saveWithGeneratedCode assigns the next free code in the account's bucket and
// stores the account, retrying when a concurrent writer claimed the code.
func (s *accountService) saveWithGeneratedCode(ctx context.Context, account *domain.Account) error {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()

	var err error
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		var existing []string
		existing, err = s.accountRepo.ListAccountCodes(ctx)
		if err != nil {
			return err
		}
		account.Code, err = bookkeeping.NextAccountCode(account.AccountType, existing)
		if err != nil {
			return err
		}
		err = s.accountRepo.SaveAccount(ctx, *account)
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		s.LogDebug(ctx, "Generated account code taken, retrying", slog.String("code", account.Code))
	}
	return err
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.AccountType != nil && !filter.AccountType.IsValid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "type",
			Code:    "invalid_type",
			Message: "account type must be one of " + accountTypeList(),
		})
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, patch domain.AccountPatch, userID string) (*domain.Account, error) {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find account for update", slog.String("account_id", accountID))
		return nil, err
	}

	verr := apperrors.NewValidationError()
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			verr.Add("name", bookkeeping.CodeRequired, "name cannot be blank")
		}
		account.Name = name
	}
	if patch.AccountType != nil {
		normal, err := accounting.NormalBalanceFor(*patch.AccountType)
		if err != nil {
			verr.Add("accountType", "invalid_type", "account type must be one of %s", accountTypeList())
		} else {
			account.AccountType = *patch.AccountType
			account.NormalBalance = normal
		}
	}
	if patch.SubType != nil {
		account.SubType = strings.TrimSpace(*patch.SubType)
	}
	if patch.Description != nil {
		account.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}

	explicitCode := false
	if patch.Code != nil {
		if code := strings.TrimSpace(*patch.Code); code != "" {
			explicitCode = true
			if bookkeeping.CodeMatchesType(code, account.AccountType) {
				account.Code = code
			} else {
				prefix, _ := bookkeeping.CodePrefix(account.AccountType)
				verr.Add("code", "prefix_mismatch", "code for %s accounts must start with %s", account.AccountType, prefix)
			}
		}
	}
	if verr.HasErrors() {
		s.LogWarn(ctx, verr, "Rejected account update", slog.String("account_id", accountID))
		return nil, verr
	}

	// A type change can strand the old code in the wrong bucket.
	if !explicitCode && !bookkeeping.CodeMatchesType(account.Code, account.AccountType) {
		existing, err := s.accountRepo.ListAccountCodes(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to list account codes", slog.String("account_id", accountID))
			return nil, err
		}
		if account.Code, err = bookkeeping.NextAccountCode(account.AccountType, existing); err != nil {
			s.logFailure(ctx, err, "Failed to generate account code", slog.String("account_id", accountID))
			return nil, err
		}
	}

	account.LastUpdatedAt = s.now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			err = fmt.Errorf("%w: account code %s is already in use", apperrors.ErrConflict, account.Code)
		}
		s.logFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", accountID),
		slog.String("code", account.Code))
	return account, nil
}

// DeleteAccount removes or, when soft, deactivates an account. Either way the
// account must not be referenced by any journal line; use UpdateAccount with
// IsActive false to retire an account that has history.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, soft bool, userID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		s.logFailure(ctx, err, "Failed to find account for delete", slog.String("account_id", accountID))
		return err
	}

	referenced, err := s.entries.AccountHasEntries(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account references", slog.String("account_id", accountID))
		return err
	}
	if referenced {
		err := fmt.Errorf("%w: account %s is referenced by journal entries; set isActive to false instead", apperrors.ErrConflict, accountID)
		s.LogWarn(ctx, err, "Refused to delete referenced account", slog.String("account_id", accountID), slog.Bool("soft", soft))
		return err
	}

	if soft {
		if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.now().UTC()); err != nil {
			s.logFailure(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
			return err
		}
		s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
		return nil
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.logFailure(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// SeedChart creates the given accounts when the registry is empty and
// returns how many were created. A non-empty registry is left untouched.
func (s *accountService) SeedChart(ctx context.Context, chart []domain.AccountInput, userID string) (int, error) {
	codes, err := s.accountRepo.ListAccountCodes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to inspect chart before seeding")
		return 0, err
	}
	if len(codes) > 0 {
		s.LogInfo(ctx, "Chart of accounts already present, skipping seed", slog.Int("accounts", len(codes)))
		return 0, nil
	}

	created := 0
	for _, input := range chart {
		if _, err := s.CreateAccount(ctx, input, userID); err != nil {
			return created, fmt.Errorf("seeding account %q: %w", input.Name, err)
		}
		created++
	}
	s.LogInfo(ctx, "Seeded chart of accounts", slog.Int("accounts", created))
	return created, nil
}

func accountTypeList() string {
	names := make([]string, len(domain.AccountTypes))
	for i, t := range domain.AccountTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// isClientError reports whether err was caused by the request rather than the system.
func isClientError(err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNotFound, apperrors.KindConflict, apperrors.KindDuplicate, apperrors.KindUnauthorized:
		return true
	}
	return false
}

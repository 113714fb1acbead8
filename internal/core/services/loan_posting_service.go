package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/microlend_ledger/internal/core/ports/services"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
	"github.com/SscSPs/microlend_ledger/internal/utils/accounting"
)

// Related document types for entries produced by loan servicing. Disbursements
// and principal adjustments carry RelatedDocumentLoan; repayments carry
// RelatedDocumentLoanRepayment so the lent principal can be read on its own.
const (
	RelatedDocumentLoan          = "loan"
	RelatedDocumentLoanRepayment = "loan_repayment"
)

// Field error codes for loan postings.
const (
	CodeNonPositive        = "non_positive"
	CodeUnchanged          = "unchanged"
	CodeExceedsOutstanding = "exceeds_outstanding"
	CodeNegativeLoanAmount = "negative_amount"
	CodeBelowRepaid        = "below_repaid"
)

// loanPostingService turns loan servicing events into journal entries so the
// ledger always carries the principal the loan book shows.
type loanPostingService struct {
	BaseService
	journal  portssvc.JournalSvcFacade
	accounts portsrepo.AccountReader
	entries  portsrepo.JournalReader
	codes    config.LoanAccountCodes
}

// NewLoanPostingService creates the loan posting service. Entries go through
// journal so they are validated like any other post.
func NewLoanPostingService(journal portssvc.JournalSvcFacade, accounts portsrepo.AccountReader, entries portsrepo.JournalReader, codes config.LoanAccountCodes) portssvc.LoanPostingService {
	return &loanPostingService{
		journal:  journal,
		accounts: accounts,
		entries:  entries,
		codes:    codes,
	}
}

var _ portssvc.LoanPostingService = (*loanPostingService)(nil)

type loanAccounts struct {
	receivable, cash, interest *domain.Account
}

func (s *loanPostingService) resolveAccounts(ctx context.Context) (loanAccounts, error) {
	var out loanAccounts
	for _, target := range []struct {
		code string
		dst  **domain.Account
	}{
		{s.codes.Receivable, &out.receivable},
		{s.codes.Cash, &out.cash},
		{s.codes.InterestIncome, &out.interest},
	} {
		acc, err := s.accounts.FindAccountByCode(ctx, target.code)
		if err != nil {
			s.LogError(ctx, err, "Loan posting account is not in the chart", slog.String("code", target.code))
			return loanAccounts{}, fmt.Errorf("loan posting account %s: %w", target.code, err)
		}
		*target.dst = acc
	}
	return out, nil
}

// receivableNet sums the net debits on the receivable account over the loan's
// entries tagged with docType. found is false when there are none.
func (s *loanPostingService) receivableNet(ctx context.Context, docType, loanID string, receivable domain.Account) (net decimal.Decimal, found bool, err error) {
	entries, err := s.entries.ListEntries(ctx, domain.EntryFilter{
		AccountID:       receivable.AccountID,
		RelatedDocument: &domain.RelatedDocument{Type: docType, ID: loanID},
	})
	if err != nil {
		return decimal.Zero, false, err
	}

	net = decimal.Zero
	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountID == receivable.AccountID {
				net = net.Add(accounting.NetDebit(l))
			}
		}
	}
	return net, len(entries) > 0, nil
}

type loanPosition struct {
	lent   decimal.Decimal // disbursements and principal adjustments
	repaid decimal.Decimal // principal portion of repayments
}

func (p loanPosition) outstanding() decimal.Decimal { return p.lent.Sub(p.repaid) }

// position reads the loan's principal from posted entries. A loan with no
// disbursement is not found.
func (s *loanPostingService) position(ctx context.Context, loanID string, receivable domain.Account) (loanPosition, error) {
	lent, found, err := s.receivableNet(ctx, RelatedDocumentLoan, loanID, receivable)
	if err != nil {
		s.LogError(ctx, err, "Failed to read loan principal", slog.String("loan_id", loanID))
		return loanPosition{}, err
	}
	if !found {
		return loanPosition{}, fmt.Errorf("%w: no disbursement recorded for loan %s", apperrors.ErrNotFound, loanID)
	}
	repayments, _, err := s.receivableNet(ctx, RelatedDocumentLoanRepayment, loanID, receivable)
	if err != nil {
		s.LogError(ctx, err, "Failed to read loan repayments", slog.String("loan_id", loanID))
		return loanPosition{}, err
	}
	return loanPosition{lent: lent, repaid: repayments.Neg()}, nil
}

func (s *loanPostingService) post(ctx context.Context, docType, loanID, description string, date time.Time, lines []domain.LineInput, userID string) (*domain.JournalEntry, error) {
	on := domain.DateOf(date)
	entry, _, err := s.journal.PostEntry(ctx, domain.JournalEntryInput{
		Date:            &on,
		Description:     description,
		Lines:           lines,
		RelatedDocument: &domain.RelatedDocument{Type: docType, ID: loanID},
	}, "", userID)
	return entry, err
}

func debitLine(acc *domain.Account, amount decimal.Decimal, memo string) domain.LineInput {
	return domain.LineInput{AccountID: acc.AccountID, Debit: amount, Credit: decimal.Zero, Memo: memo}
}

func creditLine(acc *domain.Account, amount decimal.Decimal, memo string) domain.LineInput {
	return domain.LineInput{AccountID: acc.AccountID, Debit: decimal.Zero, Credit: amount, Memo: memo}
}

func (s *loanPostingService) RecordDisbursement(ctx context.Context, loanID string, principal decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error) {
	if !principal.IsPositive() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field: "principal", Code: CodeNonPositive, Message: "principal must be greater than zero",
		})
	}
	accs, err := s.resolveAccounts(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.post(ctx, RelatedDocumentLoan, loanID, "Loan disbursement "+loanID, date, []domain.LineInput{
		debitLine(accs.receivable, principal, "principal"),
		creditLine(accs.cash, principal, "disbursed"),
	}, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Loan disbursement posted", slog.String("loan_id", loanID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

// AdjustPrincipal posts the difference between the principal lent on the loan
// (disbursements plus earlier adjustments, repayments excluded) and
// newPrincipal.
func (s *loanPostingService) AdjustPrincipal(ctx context.Context, loanID string, newPrincipal decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error) {
	if newPrincipal.IsNegative() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field: "principal", Code: CodeNegativeLoanAmount, Message: "principal must not be negative",
		})
	}
	accs, err := s.resolveAccounts(ctx)
	if err != nil {
		return nil, err
	}

	pos, err := s.position(ctx, loanID, *accs.receivable)
	if err != nil {
		return nil, err
	}
	carried := pos.lent

	diff := newPrincipal.Sub(carried)
	if accounting.WithinTolerance(diff, decimal.Zero) {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "principal",
			Code:    CodeUnchanged,
			Message: fmt.Sprintf("loan %s already carries principal %s", loanID, carried.StringFixed(domain.MoneyPlaces)),
		})
	}
	if newPrincipal.LessThan(pos.repaid) {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "principal",
			Code:    CodeBelowRepaid,
			Message: fmt.Sprintf("principal %s is below the %s already repaid", newPrincipal.StringFixed(domain.MoneyPlaces), pos.repaid.StringFixed(domain.MoneyPlaces)),
		})
	}

	description := fmt.Sprintf("Principal adjustment for loan %s: %s to %s",
		loanID, carried.StringFixed(domain.MoneyPlaces), newPrincipal.StringFixed(domain.MoneyPlaces))
	var lines []domain.LineInput
	if diff.IsPositive() {
		lines = []domain.LineInput{
			debitLine(accs.receivable, diff, "principal increase"),
			creditLine(accs.cash, diff, "additional disbursement"),
		}
	} else {
		lines = []domain.LineInput{
			debitLine(accs.cash, diff.Neg(), "disbursement returned"),
			creditLine(accs.receivable, diff.Neg(), "principal decrease"),
		}
	}

	entry, err := s.post(ctx, RelatedDocumentLoan, loanID, description, date, lines, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Loan principal adjusted",
		slog.String("loan_id", loanID),
		slog.String("from", carried.StringFixed(domain.MoneyPlaces)),
		slog.String("to", newPrincipal.StringFixed(domain.MoneyPlaces)))
	return entry, nil
}

func (s *loanPostingService) RecordRepayment(ctx context.Context, loanID string, principal, interest decimal.Decimal, date time.Time, userID string) (*domain.JournalEntry, error) {
	verr := apperrors.NewValidationError()
	if principal.IsNegative() {
		verr.Add("principal", CodeNegativeLoanAmount, "principal must not be negative")
	}
	if interest.IsNegative() {
		verr.Add("interest", CodeNegativeLoanAmount, "interest must not be negative")
	}
	total := principal.Add(interest)
	if !verr.HasErrors() && !total.IsPositive() {
		verr.Add("principal", CodeNonPositive, "repayment must be greater than zero")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	accs, err := s.resolveAccounts(ctx)
	if err != nil {
		return nil, err
	}
	pos, err := s.position(ctx, loanID, *accs.receivable)
	if err != nil {
		return nil, err
	}
	if outstanding := pos.outstanding(); principal.GreaterThan(outstanding) {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "principal",
			Code:    CodeExceedsOutstanding,
			Message: fmt.Sprintf("principal %s exceeds outstanding %s", principal.StringFixed(domain.MoneyPlaces), outstanding.StringFixed(domain.MoneyPlaces)),
		})
	}

	lines := []domain.LineInput{debitLine(accs.cash, total, "repayment received")}
	if principal.IsPositive() {
		lines = append(lines, creditLine(accs.receivable, principal, "principal"))
	}
	if interest.IsPositive() {
		lines = append(lines, creditLine(accs.interest, interest, "interest"))
	}

	entry, err := s.post(ctx, RelatedDocumentLoanRepayment, loanID, "Loan repayment "+loanID, date, lines, userID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Loan repayment posted", slog.String("loan_id", loanID), slog.String("entry_id", entry.EntryID))
	return entry, nil
}

func (s *loanPostingService) OutstandingPrincipal(ctx context.Context, loanID string) (decimal.Decimal, error) {
	accs, err := s.resolveAccounts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	pos, err := s.position(ctx, loanID, *accs.receivable)
	if err != nil {
		return decimal.Zero, err
	}
	return pos.outstanding(), nil
}

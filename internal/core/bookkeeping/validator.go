package bookkeeping

import (
	"fmt"
	"strings"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// Field error codes reported by ValidateEntry.
const (
	CodeRequired        = "required"
	CodeTooFewLines     = "too_few_lines"
	CodeBothSides       = "both_sides"
	CodeNoSide          = "no_side"
	CodeNegativeAmount  = "negative_amount"
	CodeTooManyDecimals = "too_many_decimals"
	CodeUnbalanced      = "unbalanced"
	CodeZeroTotal       = "zero_total"
)

// MinLines is the smallest number of lines a journal entry may carry.
const MinLines = 2

// ValidateEntry checks a proposed journal entry and returns its normalised form.
// Every violation is collected into one *apperrors.ValidationError.
func ValidateEntry(in domain.JournalEntryInput) (domain.ValidatedEntry, error) {
	verr := apperrors.NewValidationError()

	if in.Date == nil || in.Date.IsZero() {
		verr.Add("date", CodeRequired, "date is required")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		verr.Add("description", CodeRequired, "description is required")
	}

	if len(in.Lines) < MinLines {
		verr.Add("lines", CodeTooFewLines, "at least %d lines are required, got %d", MinLines, len(in.Lines))
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	lines := make([]domain.Line, 0, len(in.Lines))
	for i, l := range in.Lines {
		validateLine(verr, i, l)

		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
		lines = append(lines, domain.Line{
			AccountID: strings.TrimSpace(l.AccountID),
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      strings.TrimSpace(l.Memo),
		})
	}

	if !accounting.WithinTolerance(totalDebit, totalCredit) {
		diff := totalDebit.Sub(totalCredit).Abs()
		verr.Add("lines", CodeUnbalanced, "debits %s and credits %s differ by %s",
			totalDebit.StringFixed(domain.MoneyPlaces), totalCredit.StringFixed(domain.MoneyPlaces), diff.StringFixed(domain.MoneyPlaces))
	}

	if !totalDebit.IsPositive() {
		verr.Add("lines", CodeZeroTotal, "entry total must be greater than zero")
	}

	if verr.HasErrors() {
		return domain.ValidatedEntry{}, verr
	}

	return domain.ValidatedEntry{
		Date:            domain.DateOf(*in.Date),
		Description:     description,
		Lines:           lines,
		RelatedDocument: normaliseRelatedDocument(in.RelatedDocument),
		Total:           totalDebit,
	}, nil
}

func validateLine(verr *apperrors.ValidationError, i int, l domain.LineInput) {
	field := fmt.Sprintf("lines[%d]", i)

	if strings.TrimSpace(l.AccountID) == "" {
		verr.Add(field+".accountID", CodeRequired, "account is required")
	}

	negative := false
	if l.Debit.IsNegative() {
		verr.Add(field+".debit", CodeNegativeAmount, "debit must not be negative")
		negative = true
	}
	if l.Credit.IsNegative() {
		verr.Add(field+".credit", CodeNegativeAmount, "credit must not be negative")
		negative = true
	}
	if !domain.HasMoneyPrecision(l.Debit) {
		verr.Add(field+".debit", CodeTooManyDecimals, "debit %s has more than %d decimal places", l.Debit, domain.MoneyPlaces)
	}
	if !domain.HasMoneyPrecision(l.Credit) {
		verr.Add(field+".credit", CodeTooManyDecimals, "credit %s has more than %d decimal places", l.Credit, domain.MoneyPlaces)
	}
	if negative {
		return
	}

	switch hasDebit, hasCredit := l.Debit.IsPositive(), l.Credit.IsPositive(); {
	case hasDebit && hasCredit:
		verr.Add(field, CodeBothSides, "line must have either a debit or a credit, not both")
	case !hasDebit && !hasCredit:
		verr.Add(field, CodeNoSide, "line must have a debit or a credit amount")
	}
}

// normaliseRelatedDocument drops a half-filled reference entirely.
func normaliseRelatedDocument(doc *domain.RelatedDocument) *domain.RelatedDocument {
	if doc == nil {
		return nil
	}
	docType, docID := strings.TrimSpace(doc.Type), strings.TrimSpace(doc.ID)
	if docType == "" || docID == "" {
		return nil
	}
	return &domain.RelatedDocument{Type: docType, ID: docID}
}

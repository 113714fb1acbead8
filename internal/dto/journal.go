package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// LineRequest is one proposed journal line. Amounts accept JSON numbers or
// strings; a missing side is zero.
type LineRequest struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit" swaggertype:"string" example:"100.00"`
	Credit    decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
	Memo      string          `json:"memo" binding:"max=512"`
}

// RelatedDocumentRequest links an entry to a business document such as a loan.
type RelatedDocumentRequest struct {
	Type string `json:"type" binding:"max=64"`
	ID   string `json:"id" binding:"max=128"`
}

// JournalEntryRequest defines a proposed journal entry. Balance and line
// rules are checked by the entry validator so every problem is reported at once.
type JournalEntryRequest struct {
	Date            string                  `json:"date" binding:"omitempty,isodate"`
	Description     string                  `json:"description" binding:"max=1024"`
	Lines           []LineRequest           `json:"lines" binding:"dive"`
	RelatedDocument *RelatedDocumentRequest `json:"relatedDocument"`
}

func toLineInputs(lines []LineRequest) []domain.LineInput {
	if lines == nil {
		return nil
	}
	out := make([]domain.LineInput, len(lines))
	for i, l := range lines {
		out[i] = domain.LineInput{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit, Memo: l.Memo}
	}
	return out
}

// ToDomain converts the request to validator input.
func (r JournalEntryRequest) ToDomain() domain.JournalEntryInput {
	input := domain.JournalEntryInput{
		Date:        parseOptionalDate(r.Date),
		Description: r.Description,
		Lines:       toLineInputs(r.Lines),
	}
	if r.RelatedDocument != nil {
		input.RelatedDocument = &domain.RelatedDocument{Type: r.RelatedDocument.Type, ID: r.RelatedDocument.ID}
	}
	return input
}

// UpdateEntryRequest carries narrative edits to a posted entry. Date and
// lines may be echoed back unchanged; any financial difference is refused.
type UpdateEntryRequest struct {
	Description *string             `json:"description" binding:"omitempty,max=1024"`
	Date        *string             `json:"date" binding:"omitempty,isodate"`
	Lines       []UpdateLineRequest `json:"lines" binding:"omitempty,dive"`
	LineMemos   map[int]string      `json:"lineMemos"`
}

// UpdateLineRequest echoes a posted line; only memo may differ, and an
// omitted memo keeps the posted one.
type UpdateLineRequest struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit" swaggertype:"string" example:"100.00"`
	Credit    decimal.Decimal `json:"credit" swaggertype:"string" example:"0"`
	Memo      *string         `json:"memo" binding:"omitempty,max=512"`
}

// ToDomain converts the request to an entry patch.
func (r UpdateEntryRequest) ToDomain() domain.EntryPatch {
	patch := domain.EntryPatch{
		Description: r.Description,
		LineMemos:   r.LineMemos,
	}
	if r.Lines != nil {
		patch.Lines = make([]domain.LinePatch, len(r.Lines))
		for i, l := range r.Lines {
			patch.Lines[i] = domain.LinePatch{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit, Memo: l.Memo}
		}
	}
	if r.Date != nil {
		patch.Date = parseOptionalDate(*r.Date)
	}
	return patch
}

// ReverseEntryRequest optionally dates the reversal; it defaults to the original's date.
type ReverseEntryRequest struct {
	Date string `json:"date" binding:"omitempty,isodate"`
}

// ToDomain returns the requested reversal date, nil when omitted.
func (r ReverseEntryRequest) ToDomain() *time.Time {
	return parseOptionalDate(r.Date)
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	StartDate   string `form:"startDate" binding:"omitempty,isodate"`
	EndDate     string `form:"endDate" binding:"omitempty,isodate"`
	AccountID   string `form:"accountID"`
	RelatedType string `form:"relatedType"`
	RelatedID   string `form:"relatedID"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken   string `form:"nextToken"`
}

// ToDomain converts the query to an entry filter and optional page token.
func (p ListEntriesParams) ToDomain() (domain.EntryFilter, *string) {
	filter := domain.EntryFilter{
		AccountID: p.AccountID,
		Range:     domain.DateRange{Start: parseOptionalDate(p.StartDate), End: parseOptionalDate(p.EndDate)},
		Limit:     p.Limit,
	}
	if p.RelatedType != "" && p.RelatedID != "" {
		filter.RelatedDocument = &domain.RelatedDocument{Type: p.RelatedType, ID: p.RelatedID}
	}
	var token *string
	if p.NextToken != "" {
		token = &p.NextToken
	}
	return filter, token
}

// LineResponse is a posted line with amounts fixed to two places.
type LineResponse struct {
	AccountID string `json:"accountID"`
	Debit     string `json:"debit"`
	Credit    string `json:"credit"`
	Memo      string `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                  `json:"entryID"`
	Sequence        int64                   `json:"sequence"`
	Date            string                  `json:"date"`
	Description     string                  `json:"description"`
	Lines           []LineResponse          `json:"lines"`
	Total           string                  `json:"total"`
	RelatedDocument *domain.RelatedDocument `json:"relatedDocument,omitempty"`
	RecordedBy      string                  `json:"recordedBy"`
	Status          domain.EntryStatus      `json:"status"`
	ReversalOf      *string                 `json:"reversalOf,omitempty"`
	ReversedBy      *string                 `json:"reversedBy,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

func toLineResponses(lines []domain.Line) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{AccountID: l.AccountID, Debit: money(l.Debit), Credit: money(l.Credit), Memo: l.Memo}
	}
	return out
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		Sequence:        e.Sequence,
		Date:            formatDate(e.Date),
		Description:     e.Description,
		Lines:           toLineResponses(e.Lines),
		Total:           money(e.TotalDebits()),
		RelatedDocument: e.RelatedDocument,
		RecordedBy:      e.RecordedBy,
		Status:          e.Status,
		ReversalOf:      e.ReversalOf,
		ReversedBy:      e.ReversedBy,
		CreatedAt:       e.CreatedAt,
	}
}

// ListEntriesResponse is one page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListEntriesResponse converts a page of entries.
func ToListEntriesResponse(page *domain.EntryPage) ListEntriesResponse {
	res := ListEntriesResponse{Entries: make([]JournalEntryResponse, len(page.Entries)), NextToken: page.NextToken}
	for i := range page.Entries {
		res.Entries[i] = ToJournalEntryResponse(&page.Entries[i])
	}
	return res
}

// ValidatedEntryResponse echoes the normalised entry a post would commit.
type ValidatedEntryResponse struct {
	Valid           bool                    `json:"valid"`
	Date            string                  `json:"date"`
	Description     string                  `json:"description"`
	Lines           []LineResponse          `json:"lines"`
	Total           string                  `json:"total"`
	RelatedDocument *domain.RelatedDocument `json:"relatedDocument,omitempty"`
}

// ToValidatedEntryResponse converts a validated entry.
func ToValidatedEntryResponse(v *domain.ValidatedEntry) ValidatedEntryResponse {
	return ValidatedEntryResponse{
		Valid:           true,
		Date:            formatDate(v.Date),
		Description:     v.Description,
		Lines:           toLineResponses(v.Lines),
		Total:           money(v.Total),
		RelatedDocument: v.RelatedDocument,
	}
}

// AmendEntryResponse returns both halves of an amendment.
type AmendEntryResponse struct {
	Reversal    JournalEntryResponse `json:"reversal"`
	Replacement JournalEntryResponse `json:"replacement"`
}

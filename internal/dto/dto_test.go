package dto_test

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/dto"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, dto.RegisterValidators(v))
	return v
}

func TestRegisterValidators_CustomTagsAndJSONNames(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(dto.CreateAccountRequest{Name: "Cash", AccountType: "INCOME"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "accountType", verrs[0].Field())
	assert.Equal(t, "accounttype", verrs[0].Tag())

	assert.NoError(t, v.Struct(dto.CreateAccountRequest{Name: "Cash", AccountType: "REVENUE"}))

	err = v.Struct(dto.PeriodParams{StartDate: "2024-13-01", EndDate: "2024-01-31"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "startDate", verrs[0].Field())
	assert.Equal(t, "isodate", verrs[0].Tag())
}

func TestJournalEntryRequest_ToDomain(t *testing.T) {
	req := dto.JournalEntryRequest{
		Date:        "2024-03-05",
		Description: "Disbursement",
		Lines: []dto.LineRequest{
			{AccountID: "a", Debit: decimal.RequireFromString("10.50")},
			{AccountID: "b", Credit: decimal.RequireFromString("10.50"), Memo: "cash out"},
		},
		RelatedDocument: &dto.RelatedDocumentRequest{Type: "loan", ID: "L-1"},
	}

	in := req.ToDomain()
	require.NotNil(t, in.Date)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *in.Date)
	assert.Len(t, in.Lines, 2)
	assert.True(t, in.Lines[1].Debit.IsZero())
	assert.Equal(t, "cash out", in.Lines[1].Memo)
	assert.Equal(t, &domain.RelatedDocument{Type: "loan", ID: "L-1"}, in.RelatedDocument)

	assert.Nil(t, dto.JournalEntryRequest{}.ToDomain().Date)
}

func TestUpdateEntryRequest_OmittedMemoStaysNil(t *testing.T) {
	memo := "new memo"
	patch := dto.UpdateEntryRequest{
		Lines: []dto.UpdateLineRequest{
			{AccountID: "a", Debit: decimal.NewFromInt(5)},
			{AccountID: "b", Credit: decimal.NewFromInt(5), Memo: &memo},
		},
	}.ToDomain()

	require.Len(t, patch.Lines, 2)
	assert.Nil(t, patch.Lines[0].Memo)
	assert.Equal(t, &memo, patch.Lines[1].Memo)
	assert.Nil(t, dto.UpdateEntryRequest{}.ToDomain().Lines)
}

func TestToJournalEntryResponse_FixesMoneyToTwoPlaces(t *testing.T) {
	entry := &domain.JournalEntry{
		EntryID: "je-1",
		Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Lines: []domain.Line{
			{AccountID: "a", Debit: decimal.NewFromInt(5), Credit: decimal.Zero},
			{AccountID: "b", Debit: decimal.Zero, Credit: decimal.NewFromInt(5)},
		},
		Status: domain.Posted,
	}

	res := dto.ToJournalEntryResponse(entry)
	assert.Equal(t, "2024-01-02", res.Date)
	assert.Equal(t, "5.00", res.Total)
	assert.Equal(t, "5.00", res.Lines[0].Debit)
	assert.Equal(t, "0.00", res.Lines[0].Credit)
}

func TestListEntriesParams_ToDomain(t *testing.T) {
	filter, token := dto.ListEntriesParams{AccountID: "a", RelatedType: "loan", Limit: 5}.ToDomain()
	assert.Nil(t, filter.RelatedDocument, "half a document reference is ignored")
	assert.Equal(t, 5, filter.Limit)
	assert.Nil(t, token)

	_, token = dto.ListEntriesParams{NextToken: "abc"}.ToDomain()
	require.NotNil(t, token)
	assert.Equal(t, "abc", *token)
}

func TestAsOfParams_DefaultsToToday(t *testing.T) {
	now := time.Date(2024, 6, 30, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), dto.AsOfParams{}.Date(now))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), dto.AsOfParams{AsOf: "2024-01-01"}.Date(now))
}

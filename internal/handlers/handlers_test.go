package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/microlend_ledger/internal/core/chart"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/core/services"
	"github.com/SscSPs/microlend_ledger/internal/dto"
	"github.com/SscSPs/microlend_ledger/internal/handlers"
	"github.com/SscSPs/microlend_ledger/internal/middleware"
	"github.com/SscSPs/microlend_ledger/internal/observability"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
	"github.com/SscSPs/microlend_ledger/internal/repositories/memory"
)

type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Fields []struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	} `json:"fields"`
}

func (b errorBody) codes() map[string]string {
	out := make(map[string]string, len(b.Fields))
	for _, f := range b.Fields {
		out[f.Field] = f.Code
	}
	return out
}

type HandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	token    string
	accounts map[string]string // code -> accountID
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:    "test-secret-key-that-is-long-enough",
		JWTIssuer:    "ledger-test",
		LoanAccounts: config.LoanAccountCodes{Receivable: "1100", Cash: "1001", InterestIncome: "4001"},
	}

	store := memory.NewStore()
	metrics := observability.NewMetrics()
	container := services.NewServiceContainer(cfg, store.Provider(), metrics)
	_, err := container.Account.SeedChart(context.Background(), chart.Default(), "seed")
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.router.Use(metrics.Middleware())
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container, handlers.Dependencies{
		Metrics:   metrics,
		Readiness: []handlers.ReadinessCheck{{Name: "store", Check: store.Ping}},
	}))

	suite.token, err = middleware.IssueToken(middleware.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, "officer-7", time.Hour)
	suite.Require().NoError(err)

	all, err := container.Account.ListAccounts(context.Background(), domain.AccountFilter{})
	suite.Require().NoError(err)
	suite.accounts = make(map[string]string, len(all))
	for _, acc := range all {
		suite.accounts[acc.Code] = acc.AccountID
	}
}

func (suite *HandlerTestSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (suite *HandlerTestSuite) transfer(date, description, debitCode, creditCode, amount string) map[string]any {
	return map[string]any{
		"date":        date,
		"description": description,
		"lines": []map[string]any{
			{"accountID": suite.accounts[debitCode], "debit": amount},
			{"accountID": suite.accounts[creditCode], "credit": amount},
		},
	}
}

func (suite *HandlerTestSuite) TestAuthRequired() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_GeneratesCodeAndDerivesNormalBalance() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name":          "Mobile Money Float",
		"accountType":   "ASSET",
		"normalBalance": "CREDIT",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var acc dto.AccountResponse
	suite.decode(w, &acc)
	suite.Equal("1201", acc.Code)
	suite.Equal(domain.DebitNormal, acc.NormalBalance)
	suite.Equal("officer-7", acc.CreatedBy)

	w = suite.do(http.MethodGet, "/api/v1/accounts/"+acc.AccountID, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingErrorsListFields() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", map[string]any{"accountType": "STOCK"})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body errorBody
	suite.decode(w, &body)
	suite.Equal("validation", body.Kind)
	codes := body.codes()
	suite.Equal("required", codes["name"])
	suite.Equal("accounttype", codes["accountType"])
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteAccount_WithEntriesConflicts() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodDelete, "/api/v1/accounts/"+suite.accounts["1001"], nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/accounts/"+suite.accounts["1001"]+"?soft=true", nil)
	suite.Equal(http.StatusConflict, w.Code)

	// Retiring an account with history goes through an update.
	w = suite.do(http.MethodPut, "/api/v1/accounts/"+suite.accounts["1001"], map[string]any{"isActive": false})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var acc map[string]any
	suite.decode(w, &acc)
	suite.Equal(false, acc["isActive"])

	w = suite.do(http.MethodDelete, "/api/v1/accounts/"+suite.accounts["5100"]+"?soft=true", nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_ReportsEveryProblem() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", map[string]any{
		"date": "2024-01-01",
		"lines": []map[string]any{
			{"accountID": suite.accounts["1001"], "debit": "100"},
			{"accountID": suite.accounts["3001"], "credit": "90"},
		},
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body errorBody
	suite.decode(w, &body)
	codes := body.codes()
	suite.Equal("required", codes["description"])
	suite.Equal("unbalanced", codes["lines"])
}

func (suite *HandlerTestSuite) TestPostEntry_BadDateFailsBinding() {
	entry := suite.transfer("01/02/2024", "Capital", "1001", "3001", "10")
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", entry)
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body errorBody
	suite.decode(w, &body)
	suite.Equal("isodate", body.codes()["date"])
}

func (suite *HandlerTestSuite) TestPostEntry_IdempotencyKeyReplays() {
	entry := suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000")

	first := suite.do(http.MethodPost, "/api/v1/journal-entries", entry, handlers.IdempotencyKeyHeader, "abc")
	suite.Require().Equal(http.StatusCreated, first.Code, first.Body.String())
	second := suite.do(http.MethodPost, "/api/v1/journal-entries", entry, handlers.IdempotencyKeyHeader, "abc")
	suite.Require().Equal(http.StatusOK, second.Code)

	var a, b dto.JournalEntryResponse
	suite.decode(first, &a)
	suite.decode(second, &b)
	suite.Equal(a.EntryID, b.EntryID)
	suite.Equal("1000.00", a.Total)
	suite.Equal("officer-7", a.RecordedBy)
}

func (suite *HandlerTestSuite) TestValidateEntry_DoesNotPost() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries/validate", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var validated dto.ValidatedEntryResponse
	suite.decode(w, &validated)
	suite.True(validated.Valid)
	suite.Equal("1000.00", validated.Total)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries", nil)
	var page dto.ListEntriesResponse
	suite.decode(w, &page)
	suite.Empty(page.Entries)
}

func (suite *HandlerTestSuite) TestListEntries_Paginates() {
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer(date, "Capital "+date, "1001", "3001", "10"))
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?limit=2", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListEntriesResponse
	suite.decode(w, &page)
	suite.Len(page.Entries, 2)
	suite.Require().NotNil(page.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries?limit=2&nextToken="+*page.NextToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var rest dto.ListEntriesResponse
	suite.decode(w, &rest)
	suite.Len(rest.Entries, 1)
	suite.Nil(rest.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries?nextToken=bm90LWEtdG9rZW4=", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEntry_OnlyNarrative() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	var entry dto.JournalEntryResponse
	suite.decode(w, &entry)

	w = suite.do(http.MethodPut, "/api/v1/journal-entries/"+entry.EntryID, map[string]any{"description": "Owner capital"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.JournalEntryResponse
	suite.decode(w, &updated)
	suite.Equal("Owner capital", updated.Description)

	w = suite.do(http.MethodPut, "/api/v1/journal-entries/"+entry.EntryID, map[string]any{"date": "2024-02-01"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteEntry_Reverses() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	var entry dto.JournalEntryResponse
	suite.decode(w, &entry)

	w = suite.do(http.MethodDelete, "/api/v1/journal-entries/"+entry.EntryID, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal dto.JournalEntryResponse
	suite.decode(w, &reversal)
	suite.Require().NotNil(reversal.ReversalOf)
	suite.Equal(entry.EntryID, *reversal.ReversalOf)
	suite.Equal("2024-01-01", reversal.Date)

	w = suite.do(http.MethodGet, "/api/v1/journal-entries/"+entry.EntryID, nil)
	var original dto.JournalEntryResponse
	suite.decode(w, &original)
	suite.Equal(domain.Reversed, original.Status)

	w = suite.do(http.MethodPost, "/api/v1/journal-entries/"+entry.EntryID+"/reverse", map[string]any{"date": "2024-01-05"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestAmendEntry() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	var entry dto.JournalEntryResponse
	suite.decode(w, &entry)

	w = suite.do(http.MethodPost, "/api/v1/journal-entries/"+entry.EntryID+"/amend", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1200"))
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var amended dto.AmendEntryResponse
	suite.decode(w, &amended)
	suite.Equal("1000.00", amended.Reversal.Total)
	suite.Equal("1200.00", amended.Replacement.Total)

	w = suite.do(http.MethodGet, "/api/v1/accounts/"+suite.accounts["1001"]+"/ledger", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var ledger dto.LedgerResponse
	suite.decode(w, &ledger)
	suite.Len(ledger.Rows, 3)
	suite.Equal("1200.00", ledger.ClosingBalance)
}

func (suite *HandlerTestSuite) TestLoanLifecycleAndReports() {
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/loans/L-1/disbursements", map[string]any{"principal": "600", "date": "2024-01-10"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPut, "/api/v1/loans/L-1/principal", map[string]any{"principal": "500", "date": "2024-01-12"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/loans/L-1/repayments", map[string]any{"principal": "100", "interest": "20", "date": "2024-01-31"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/loans/L-1/principal", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var principal dto.OutstandingPrincipalResponse
	suite.decode(w, &principal)
	suite.Equal("400.00", principal.Principal)

	w = suite.do(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2024-01-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var bs dto.BalanceSheetResponse
	suite.decode(w, &bs)
	suite.Equal("1020.00", bs.TotalAssets)
	suite.Equal("1000.00", bs.TotalEquity)
	suite.Equal("20.00", bs.NetIncomeToDate)

	w = suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-01-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var tb dto.TrialBalanceResponse
	suite.decode(w, &tb)
	suite.True(tb.IsBalanced)
	suite.Equal(tb.TotalDebits, tb.TotalCredits)

	w = suite.do(http.MethodGet, "/api/v1/reports/income-statement?startDate=2024-01-01&endDate=2024-01-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var is dto.IncomeStatementResponse
	suite.decode(w, &is)
	suite.Equal("20.00", is.NetIncome)
}

func (suite *HandlerTestSuite) TestIncomeStatement_RequiresPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/reports/income-statement?startDate=2024-01-01", nil)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	var body errorBody
	suite.decode(w, &body)
	suite.Equal("required", body.codes()["endDate"])

	w = suite.do(http.MethodGet, "/api/v1/reports/income-statement?startDate=2024-02-01&endDate=2024-01-01", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestProbesAndMetrics() {
	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		suite.Equal(http.StatusOK, w.Code, path)
	}

	suite.do(http.MethodPost, "/api/v1/journal-entries", suite.transfer("2024-01-01", "Capital", "1001", "3001", "1000"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "ledger_entries_posted_total 1")
	suite.Contains(w.Body.String(), `route="/api/v1/journal-entries"`)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func TestReadyz_ReportsFailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	err := handlers.RegisterRoutes(r, &config.Config{JWTSecret: "x"}, services.NewServiceContainer(&config.Config{}, memory.NewStore().Provider(), nil), handlers.Dependencies{
		Readiness: []handlers.ReadinessCheck{
			{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

package chart_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/microlend_ledger/internal/core/bookkeeping"
	"github.com/SscSPs/microlend_ledger/internal/core/chart"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

func TestDefault_CodesMatchTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, acc := range chart.Default() {
		assert.True(t, bookkeeping.CodeMatchesType(acc.Code, acc.AccountType), "code %s for %s", acc.Code, acc.AccountType)
		assert.False(t, seen[acc.Code], "duplicate code %s", acc.Code)
		seen[acc.Code] = true
	}
	for _, code := range []string{"1001", "1100", "4001"} {
		assert.True(t, seen[code], "loan posting account %s missing", code)
	}
}

const sampleChart = `
assets:
  - code: "1001"
    name: Cash
  - name: Loans Receivable
    subType: current
liabilities:
  - name: Member Savings
revenue:
  - code: "4001"
    name: Interest Income
    description: Interest on loans
`

func TestParse(t *testing.T) {
	accounts, err := chart.Parse([]byte(sampleChart))
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	assert.Equal(t, domain.AccountInput{Code: "1001", Name: "Cash", AccountType: domain.Asset}, accounts[0])
	assert.Equal(t, domain.AccountInput{Name: "Loans Receivable", AccountType: domain.Asset, SubType: "current"}, accounts[1])
	assert.Equal(t, domain.Liability, accounts[2].AccountType)
	assert.Equal(t, "Interest on loans", accounts[3].Description)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "assets:\n  - name: Cash\n    normalBalance: CREDIT\n"},
		{"missing name", "equity:\n  - code: \"3001\"\n"},
		{"empty", "assets: []\n"},
		{"not yaml", "assets: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chart.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleChart), 0o600))

	accounts, err := chart.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, accounts, 4)

	_, err = chart.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

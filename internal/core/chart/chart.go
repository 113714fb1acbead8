// Package chart supplies the chart of accounts used to seed an empty registry,
// either built in or read from a YAML file.
package chart

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// Default returns the built-in chart for a microlending portal. Its codes
// match the default loan posting configuration.
func Default() []domain.AccountInput {
	return []domain.AccountInput{
		{Code: "1001", Name: "Cash", AccountType: domain.Asset, SubType: "current", Description: "Operating bank account"},
		{Code: "1100", Name: "Loans Receivable", AccountType: domain.Asset, SubType: "current", Description: "Principal outstanding on member loans"},
		{Code: "1200", Name: "Interest Receivable", AccountType: domain.Asset, SubType: "current"},
		{Code: "2001", Name: "Member Savings", AccountType: domain.Liability, SubType: "current", Description: "Deposits held for members"},
		{Code: "2100", Name: "Borrowings", AccountType: domain.Liability, SubType: "long_term"},
		{Code: "3001", Name: "Share Capital", AccountType: domain.Equity},
		{Code: "3100", Name: "Retained Earnings", AccountType: domain.Equity},
		{Code: "4001", Name: "Interest Income", AccountType: domain.Revenue},
		{Code: "4100", Name: "Fee Income", AccountType: domain.Revenue, Description: "Processing and late fees"},
		{Code: "5001", Name: "Loan Loss Expense", AccountType: domain.Expense},
		{Code: "5100", Name: "Operating Expenses", AccountType: domain.Expense},
	}
}

// fileAccount is one account as written in a chart file.
type fileAccount struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	SubType     string `yaml:"subType"`
	Description string `yaml:"description"`
}

// fileChart groups accounts by type, mirroring the layout of a balance sheet
// followed by an income statement.
type fileChart struct {
	Assets      []fileAccount `yaml:"assets"`
	Liabilities []fileAccount `yaml:"liabilities"`
	Equity      []fileAccount `yaml:"equity"`
	Revenue     []fileAccount `yaml:"revenue"`
	Expenses    []fileAccount `yaml:"expenses"`
}

// LoadFile reads a YAML chart file.
func LoadFile(path string) ([]domain.AccountInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML chart. Unknown keys are rejected so typos surface early.
func Parse(data []byte) ([]domain.AccountInput, error) {
	var fc fileChart
	if err := decodeStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse chart YAML: %w", err)
	}

	groups := []struct {
		accountType domain.AccountType
		accounts    []fileAccount
	}{
		{domain.Asset, fc.Assets},
		{domain.Liability, fc.Liabilities},
		{domain.Equity, fc.Equity},
		{domain.Revenue, fc.Revenue},
		{domain.Expense, fc.Expenses},
	}

	var out []domain.AccountInput
	for _, g := range groups {
		for i, a := range g.accounts {
			if a.Name == "" {
				return nil, fmt.Errorf("chart %s entry %d: name is required", g.accountType, i)
			}
			out = append(out, domain.AccountInput{
				Code:        a.Code,
				Name:        a.Name,
				AccountType: g.accountType,
				SubType:     a.SubType,
				Description: a.Description,
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chart file defines no accounts")
	}
	return out, nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

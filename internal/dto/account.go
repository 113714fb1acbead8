package dto

import (
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// A normalBalance sent by older clients is accepted and ignored; it is always
// derived from accountType.
type CreateAccountRequest struct {
	Code          string `json:"code" binding:"omitempty,max=16"` // Optional; generated when blank
	Name          string `json:"name" binding:"required,max=255"`
	AccountType   string `json:"accountType" binding:"required,accounttype"`
	SubType       string `json:"subType" binding:"max=64"`
	Description   string `json:"description" binding:"max=1024"`
	NormalBalance string `json:"normalBalance"`
}

// ToDomain converts the request to the registry input.
func (r CreateAccountRequest) ToDomain() domain.AccountInput {
	return domain.AccountInput{
		Code:        r.Code,
		Name:        r.Name,
		AccountType: domain.AccountType(r.AccountType),
		SubType:     r.SubType,
		Description: r.Description,
	}
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code          *string `json:"code" binding:"omitempty,max=16"`
	Name          *string `json:"name" binding:"omitempty,max=255"`
	AccountType   *string `json:"accountType" binding:"omitempty,accounttype"`
	SubType       *string `json:"subType" binding:"omitempty,max=64"`
	Description   *string `json:"description" binding:"omitempty,max=1024"`
	IsActive      *bool   `json:"isActive"`
	NormalBalance *string `json:"normalBalance"` // Ignored
}

// ToDomain converts the request to a registry patch.
func (r UpdateAccountRequest) ToDomain() domain.AccountPatch {
	patch := domain.AccountPatch{
		Code:        r.Code,
		Name:        r.Name,
		SubType:     r.SubType,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
	if r.AccountType != nil {
		t := domain.AccountType(*r.AccountType)
		patch.AccountType = &t
	}
	return patch
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Type       string `form:"type" binding:"omitempty,accounttype"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ToDomain converts the query to a registry filter.
func (p ListAccountsParams) ToDomain() domain.AccountFilter {
	filter := domain.AccountFilter{ActiveOnly: p.ActiveOnly}
	if p.Type != "" {
		t := domain.AccountType(p.Type)
		filter.AccountType = &t
	}
	return filter
}

// DeleteAccountParams selects between removal and deactivation.
type DeleteAccountParams struct {
	Soft bool `form:"soft"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	SubType       string               `json:"subType,omitempty"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	Description   string               `json:"description,omitempty"`
	IsActive      bool                 `json:"isActive"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		SubType:       acc.SubType,
		NormalBalance: acc.NormalBalance,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

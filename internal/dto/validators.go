package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// RegisterValidators adds the ledger's custom binding tags to v and makes
// validation errors report JSON (or query) field names.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation("accounttype", validateAccountType); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", validateISODate)
}

// validateAccountType accepts ASSET, LIABILITY, EQUITY, REVENUE or EXPENSE.
func validateAccountType(fl validator.FieldLevel) bool {
	return domain.AccountType(fl.Field().String()).IsValid()
}

// validateISODate accepts a calendar date in YYYY-MM-DD form.
func validateISODate(fl validator.FieldLevel) bool {
	_, err := domain.ParseDate(fl.Field().String())
	return err == nil
}

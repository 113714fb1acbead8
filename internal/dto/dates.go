package dto

import (
	"time"

	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// parseOptionalDate parses s when set. Callers validate the format with the
// isodate tag first, so a parse failure yields nil.
func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

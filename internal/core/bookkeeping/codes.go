package bookkeeping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
)

// maxCodeSequence is the number of codes a type bucket can hold.
const maxCodeSequence = 999

var codePrefixes = map[domain.AccountType]string{
	domain.Asset:     "1",
	domain.Liability: "2",
	domain.Equity:    "3",
	domain.Revenue:   "4",
	domain.Expense:   "5",
}

// CodePrefix returns the leading digit reserved for an account type.
func CodePrefix(accountType domain.AccountType) (string, error) {
	prefix, ok := codePrefixes[accountType]
	if !ok {
		return "", fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrValidation, accountType)
	}
	return prefix, nil
}

// CodeMatchesType reports whether code sits in the bucket of accountType.
func CodeMatchesType(code string, accountType domain.AccountType) bool {
	prefix, ok := codePrefixes[accountType]
	return ok && strings.HasPrefix(code, prefix)
}

// codeSequence extracts the sequence of a generated-form code ("1042" -> 42).
func codeSequence(code, prefix string) (int, bool) {
	if len(code) != len(prefix)+3 || !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(code[len(prefix):])
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// NextAccountCode generates the next free code in the bucket of accountType.
// It continues after the highest sequence in use and falls back to the lowest
// gap once the top of the bucket is taken.
func NextAccountCode(accountType domain.AccountType, existing []string) (string, error) {
	prefix, err := CodePrefix(accountType)
	if err != nil {
		return "", err
	}

	used := make(map[int]bool)
	highest := 0
	for _, code := range existing {
		seq, ok := codeSequence(code, prefix)
		if !ok {
			continue
		}
		used[seq] = true
		if seq > highest {
			highest = seq
		}
	}

	if highest < maxCodeSequence {
		return formatCode(prefix, highest+1), nil
	}
	for seq := 1; seq <= maxCodeSequence; seq++ {
		if !used[seq] {
			return formatCode(prefix, seq), nil
		}
	}
	return "", fmt.Errorf("%w: no account codes left for type %s", apperrors.ErrConflict, accountType)
}

func formatCode(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}

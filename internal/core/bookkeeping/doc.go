// Package bookkeeping holds the double-entry rules of the ledger: account code
// generation, journal entry validation, ledger projection and the financial
// reports. Everything here is pure and works on data fetched by the caller.
package bookkeeping

package mapping

import (
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	"github.com/SscSPs/microlend_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its row and line models
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	m := models.JournalEntry{
		EntryID:        d.EntryID,
		Sequence:       d.Sequence,
		EntryDate:      d.Date,
		Description:    d.Description,
		Status:         string(d.Status),
		ReversalOf:     d.ReversalOf,
		ReversedBy:     d.ReversedBy,
		IdempotencyKey: nullableString(d.IdempotencyKey),
		RecordedBy:     d.RecordedBy,
		CreatedAt:      d.CreatedAt,
	}
	if d.RelatedDocument != nil {
		m.RelatedDocumentType = nullableString(d.RelatedDocument.Type)
		m.RelatedDocumentID = nullableString(d.RelatedDocument.ID)
	}

	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			EntryID:   d.EntryID,
			LineIndex: i,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      nullableString(l.Memo),
		}
	}
	return m, lines
}

// ToDomainJournalEntry converts a row and its lines (ordered by line_index) to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:        m.EntryID,
		Sequence:       m.Sequence,
		Date:           domain.DateOf(m.EntryDate),
		Description:    m.Description,
		Status:         domain.EntryStatus(m.Status),
		ReversalOf:     m.ReversalOf,
		ReversedBy:     m.ReversedBy,
		IdempotencyKey: derefString(m.IdempotencyKey),
		RecordedBy:     m.RecordedBy,
		CreatedAt:      m.CreatedAt,
		Lines:          make([]domain.Line, len(lines)),
	}
	if m.RelatedDocumentType != nil && m.RelatedDocumentID != nil {
		d.RelatedDocument = &domain.RelatedDocument{Type: *m.RelatedDocumentType, ID: *m.RelatedDocumentID}
	}
	for i, l := range lines {
		d.Lines[i] = domain.Line{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      derefString(l.Memo),
		}
	}
	return d
}

package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/microlend_ledger/internal/models"
	"github.com/SscSPs/microlend_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, sequence, entry_date, description, related_document_type, related_document_id,
	status, reversal_of, reversed_by, idempotency_key, recorded_by, created_at`

var snapshotTxOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// entryQuery builds the WHERE clause shared by listings and snapshots.
func entryQuery(filter domain.EntryFilter, applyStart bool) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.AfterSequence > 0 {
		add("e.sequence > $%d", filter.AfterSequence)
	}
	if filter.AccountID != "" {
		add("EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id::text = $%d)", filter.AccountID)
	}
	if applyStart && filter.Range.Start != nil {
		add("e.entry_date >= $%d", domain.DateOf(*filter.Range.Start))
	}
	if filter.Range.End != nil {
		add("e.entry_date <= $%d", domain.DateOf(*filter.Range.End))
	}
	if doc := filter.RelatedDocument; doc != nil {
		add("e.related_document_type = $%d", doc.Type)
		add("e.related_document_id = $%d", doc.ID)
	}

	query := `SELECT ` + prefixed("e.", entryColumns) + ` FROM journal_entries e`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.sequence"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return query, args
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// loadEntries runs an entry query and attaches the lines of every returned entry.
func loadEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal entries", err)
	}
	if len(modelEntries) == 0 {
		return []domain.JournalEntry{}, nil
	}

	ids := make([]string, len(modelEntries))
	for i, m := range modelEntries {
		ids[i] = m.EntryID
	}
	lineRows, err := q.Query(ctx, `
		SELECT entry_id, line_index, account_id, debit, credit, memo
		FROM journal_lines
		WHERE entry_id::text = ANY($1)
		ORDER BY entry_id, line_index`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	modelLines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal lines", err)
	}

	linesByEntry := make(map[string][]models.JournalLine, len(modelEntries))
	for _, l := range modelLines {
		linesByEntry[l.EntryID] = append(linesByEntry[l.EntryID], l)
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m, linesByEntry[m.EntryID])
	}
	return entries, nil
}

func (r *PgxJournalRepository) findOne(ctx context.Context, where string, arg any, what string) (*domain.JournalEntry, error) {
	entries, err := loadEntries(ctx, r.Pool, `SELECT `+entryColumns+` FROM journal_entries WHERE `+where, arg)
	if err != nil {
		return nil, wrapQueryError(err, what)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return &entries[0], nil
}

// FindEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "entry_id::text = $1", entryID, "journal entry "+entryID)
}

// FindEntryByIdempotencyKey retrieves the entry first posted under key.
func (r *PgxJournalRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "idempotency_key = $1", key, "idempotency key "+key)
}

// ListEntries retrieves entries ordered by sequence.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.JournalEntry, error) {
	query, args := entryQuery(filter, true)
	return loadEntries(ctx, r.Pool, query, args...)
}

// AccountHasEntries reports whether any line references accountID.
func (r *PgxJournalRepository) AccountHasEntries(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id::text = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check journal lines for account "+accountID, err)
	}
	return exists, nil
}

// insertEntry writes the entry row and its lines and sets entry.Sequence.
func insertEntry(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	m, lines := mapping.ToModelJournalEntry(*entry)

	err := tx.QueryRow(ctx, `
		INSERT INTO journal_entries (
			entry_id, entry_date, description, related_document_type, related_document_id,
			status, reversal_of, reversed_by, idempotency_key, recorded_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING sequence;`,
		m.EntryID, m.EntryDate, m.Description, m.RelatedDocumentType, m.RelatedDocumentID,
		m.Status, m.ReversalOf, m.ReversedBy, m.IdempotencyKey, m.RecordedBy, m.CreatedAt,
	).Scan(&entry.Sequence)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: journal entry %s or its idempotency key already exists", apperrors.ErrDuplicate, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO journal_lines (entry_id, line_index, account_id, debit, credit, memo)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			l.EntryID, l.LineIndex, l.AccountID, l.Debit, l.Credit, l.Memo,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation, pgInvalidTextRepr:
			return fmt.Errorf("%w: a line of journal entry %s references an unknown account", apperrors.ErrNotFound, m.EntryID)
		}
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+m.EntryID, err)
	}
	return nil
}

// SaveEntry persists an entry and its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return insertEntry(ctx, tx, entry)
	})
}

// UpdateEntryDetails rewrites description and line memos.
func (r *PgxJournalRepository) UpdateEntryDetails(ctx context.Context, entry domain.JournalEntry) error {
	m, lines := mapping.ToModelJournalEntry(entry)

	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE journal_entries SET description = $2 WHERE entry_id::text = $1;`, m.EntryID, m.Description)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update journal entry "+m.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, m.EntryID)
		}

		batch := &pgx.Batch{}
		for _, l := range lines {
			batch.Queue(`UPDATE journal_lines SET memo = $3 WHERE entry_id::text = $1 AND line_index = $2;`, l.EntryID, l.LineIndex, l.Memo)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to update memos of journal entry "+m.EntryID, err)
		}
		return nil
	})
}

// SaveReversal posts reversal (and replacement when given) and marks the original reversed.
// The original row is locked first so concurrent reversals serialise.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, originalID string, reversal *domain.JournalEntry, replacement *domain.JournalEntry) error {
	return r.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var status string
		var reversalOf, reversedBy *string
		err := tx.QueryRow(ctx, `
			SELECT status, reversal_of::text, reversed_by::text FROM journal_entries
			WHERE entry_id::text = $1 FOR UPDATE;`, originalID).Scan(&status, &reversalOf, &reversedBy)
		if err != nil {
			return wrapQueryError(err, "journal entry "+originalID)
		}
		if domain.EntryStatus(status) == domain.Reversed || reversedBy != nil {
			return fmt.Errorf("%w: journal entry %s is already reversed", apperrors.ErrConflict, originalID)
		}
		if reversalOf != nil {
			return fmt.Errorf("%w: journal entry %s is itself a reversal", apperrors.ErrConflict, originalID)
		}

		if err := insertEntry(ctx, tx, reversal); err != nil {
			return err
		}
		if replacement != nil {
			if err := insertEntry(ctx, tx, replacement); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE journal_entries SET status = $2, reversed_by = $3 WHERE entry_id::text = $1;`,
			originalID, string(domain.Reversed), reversal.EntryID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark journal entry "+originalID+" reversed", err)
		}
		return nil
	})
}

// Snapshot reads accounts and entries inside one repeatable-read transaction.
func (r *PgxJournalRepository) Snapshot(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSnapshot, error) {
	var snap domain.LedgerSnapshot
	err := r.inTx(ctx, snapshotTxOptions, func(tx pgx.Tx) error {
		accounts, err := listAccounts(ctx, tx, domain.AccountFilter{})
		if err != nil {
			return err
		}
		query, args := entryQuery(domain.EntryFilter{AccountID: filter.AccountID, Range: domain.DateRange{End: filter.Range.End}}, false)
		entries, err := loadEntries(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		snap = domain.LedgerSnapshot{Accounts: accounts, Entries: entries}
		return nil
	})
	return snap, err
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/darkstore_ledger/internal/models"
	"github.com/SscSPs/darkstore_ledger/internal/utils/mapping"
	"github.com/SscSPs/darkstore_ledger/internal/utils/pagination"
)

const (
	journalColumns = `journal_id, entry_date, reference, memo, status, source_module,
		idempotency_key, reverses_journal_id, sequence, created_at, created_by`
	lineColumns   = `journal_id, line_number, account_code, description, debit, credit`
	ledgerColumns = `sequence, journal_id, line_number, account_code, account_name, account_type, account_tag,
		debit, credit, entry_date, reference, description, source_module, created_at, created_by`
)

// PgxLedgerRepository stores journal entries, their lines and the derived ledger rows.
// Tables are append-only; the schema rejects UPDATE and DELETE.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new ledger store backed by PostgreSQL.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerStore
var _ portsrepo.LedgerStore = (*PgxLedgerRepository)(nil)

// AppendEntry writes the entry header, its lines and its ledger rows in a single transaction.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.JournalEntry, rows []domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Insert the journal entry header
	modelEntry := mapping.ToModelJournalEntry(entry)
	headerQuery := `
		INSERT INTO journal_entries (
			journal_id, entry_date, reference, memo, status, source_module,
			idempotency_key, reverses_journal_id, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, headerQuery,
		modelEntry.JournalID,
		modelEntry.EntryDate,
		modelEntry.Reference,
		modelEntry.Memo,
		modelEntry.Status,
		modelEntry.SourceModule,
		modelEntry.IdempotencyKey,
		modelEntry.ReversesJournalID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
	)
	if err != nil {
		return mapWriteError(err, "failed to insert journal entry "+modelEntry.JournalID)
	}

	// 2. Queue lines and ledger rows in one round trip
	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_entry_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	for _, line := range mapping.ToModelJournalEntryLines(entry) {
		batch.Queue(lineQuery, line.JournalID, line.LineNumber, line.AccountCode, line.Description, line.Debit, line.Credit)
	}

	ledgerQuery := `
		INSERT INTO ledger_entries (
			journal_id, line_number, account_code, account_name, account_type, account_tag,
			debit, credit, entry_date, reference, description, source_module, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, row := range rows {
		m := mapping.ToModelLedgerEntry(row)
		batch.Queue(ledgerQuery,
			m.JournalID, m.LineNumber, m.AccountCode, m.AccountName, m.AccountType, m.AccountTag,
			m.Debit, m.Credit, m.EntryDate, m.Reference, m.Description, m.SourceModule,
			m.CreatedAt, m.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	// Important: Close the batch results to check for errors in each command
	if err := br.Close(); err != nil {
		return mapWriteError(err, "failed to insert lines for journal entry "+modelEntry.JournalID)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry and its lines.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `journal_id = $1`, journalID)
}

// FindEntryByIdempotencyKey retrieves the entry posted under key.
func (r *PgxLedgerRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `idempotency_key = $1`, key)
}

func (r *PgxLedgerRepository) findEntry(ctx context.Context, where string, arg string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE ` + where + `;`
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to find journal entry", err)
	}
	header, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("failed to scan journal entry", err)
	}

	lines, err := r.findLines(ctx, []string{header.JournalID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(header, lines[header.JournalID])
	return &entry, nil
}

// findLines loads the lines of every given entry, grouped by journal id.
func (r *PgxLedgerRepository) findLines(ctx context.Context, journalIDs []string) (map[string][]models.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE journal_id = ANY($1) ORDER BY journal_id, line_number;`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query journal entry lines", err)
	}
	modelLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan journal entry lines", err)
	}

	grouped := make(map[string][]models.JournalEntryLine, len(journalIDs))
	for _, line := range modelLines {
		grouped[line.JournalID] = append(grouped[line.JournalID], line)
	}
	return grouped, nil
}

// QueryLedgerEntries retrieves ledger rows matching filter ordered by date, then sequence.
func (r *PgxLedgerRepository) QueryLedgerEntries(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.AccountCode != "" {
		args = append(args, filter.AccountCode)
		clauses = append(clauses, "account_code = $"+strconv.Itoa(len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, "entry_date >= $"+strconv.Itoa(len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, "entry_date <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY entry_date, sequence;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query ledger entries", err)
	}
	modelRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, apperrors.NewStorageError("failed to scan ledger entries", err)
	}

	entries := make([]domain.LedgerEntry, len(modelRows))
	for i, m := range modelRows {
		entries[i] = mapping.ToDomainLedgerEntry(m)
	}
	return entries, nil
}

// ListEntries retrieves a newest-first page of journal entries using token-based pagination.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, limit int, nextToken *string, sourceModule domain.SourceModule) ([]domain.JournalEntry, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // one extra row tells us whether another page exists

	var (
		clauses []string
		args    []any
	)
	if sourceModule != "" {
		args = append(args, string(sourceModule))
		clauses = append(clauses, "source_module = $"+strconv.Itoa(len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastSequence, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastDate, lastSequence)
		clauses = append(clauses, fmt.Sprintf("(entry_date, sequence) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + journalColumns + ` FROM journal_entries`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, fetchLimit)
	query += " ORDER BY entry_date DESC, sequence DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to list journal entries", err)
	}
	headers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to scan journal entries", err)
	}

	var nextTokenVal *string
	if len(headers) > limit {
		last := headers[limit-1] // The *actual* last item of the *current* page
		token := pagination.EncodeToken(last.EntryDate, last.Sequence)
		nextTokenVal = &token
		headers = headers[:limit]
	}
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.JournalID])
	}
	return entries, nextTokenVal, nil
}

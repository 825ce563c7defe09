package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bendahara-app/bendahara/internal/billing"
	"github.com/bendahara-app/bendahara/internal/platform/db"
)

// ErrDuplicate indicates the same invoice was archived twice.
var ErrDuplicate = errors.New("invoice: duplicate archive entry")

// Archive persists issued-invoice records.
type Archive interface {
	Insert(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// Repository provides PostgreSQL backed persistence for the archive.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one archive record. The per-category entered amounts
// are kept as a JSON document; nothing ever queries by category.
func (r *Repository) Insert(ctx context.Context, record Record) error {
	masuk, err := json.Marshal(record.Masuk)
	if err != nil {
		return fmt.Errorf("invoice: encode masuk: %w", err)
	}

	query := `
		INSERT INTO tagihan_arsip (
			id, nisn, nama, semester, periode, masuk,
			total_masuk, tunggakan, pdf_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			record.ID,
			record.NISN,
			record.Nama,
			record.Semester,
			record.Periode,
			masuk,
			record.TotalMasuk,
			record.Tunggakan,
			record.PDFName,
			record.CreatedAt,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("invoice: insert archive: %w", err)
	}
	return nil
}

// ListRecent returns the latest archive entries, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, nisn, nama, semester, periode, masuk,
		       total_masuk, tunggakan, pdf_name, created_at
		FROM tagihan_arsip
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("invoice: list archive: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			record Record
			masuk  []byte
		)
		if err := rows.Scan(
			&record.ID,
			&record.NISN,
			&record.Nama,
			&record.Semester,
			&record.Periode,
			&masuk,
			&record.TotalMasuk,
			&record.Tunggakan,
			&record.PDFName,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("invoice: scan archive: %w", err)
		}
		record.Masuk = make(map[billing.Category]int64)
		if err := json.Unmarshal(masuk, &record.Masuk); err != nil {
			return nil, fmt.Errorf("invoice: decode masuk: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Summarize reports how many invoices were archived since the cutoff
// and their combined entered amount.
func (r *Repository) Summarize(ctx context.Context, since time.Time) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_masuk), 0)
		FROM tagihan_arsip
		WHERE created_at >= $1`

	var count, total int64
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count, &total); err != nil {
		return 0, 0, fmt.Errorf("invoice: summarize archive: %w", err)
	}
	return count, total, nil
}

var _ Archive = (*Repository)(nil)

package pengeluaran

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bendahara-app/bendahara/internal/platform/db"
)

// Record is one ledger line, persisted after the upstream accepted the
// expense. The upstream stays the system of record; the ledger exists
// so the entry page can show what was submitted from here.
type Record struct {
	ID        uuid.UUID
	Deskripsi string
	Kategori  string
	Satuan    int64
	Kuantitas int
	Total     int64
	StrukName string
	Tanggal   time.Time
	CreatedAt time.Time
}

// Ledger persists submitted expense entries.
type Ledger interface {
	Insert(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// Repository provides PostgreSQL backed persistence for the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores one ledger record.
func (r *Repository) Insert(ctx context.Context, record Record) error {
	query := `
		INSERT INTO buku_pengeluaran (
			id, deskripsi, kategori, satuan, kuantitas,
			total, struk_name, tanggal, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			record.ID,
			record.Deskripsi,
			record.Kategori,
			record.Satuan,
			record.Kuantitas,
			record.Total,
			record.StrukName,
			record.Tanggal,
			record.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("pengeluaran: insert ledger: %w", err)
	}
	return nil
}

// ListRecent returns the latest ledger entries, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, deskripsi, kategori, satuan, kuantitas,
		       total, struk_name, tanggal, created_at
		FROM buku_pengeluaran
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pengeluaran: list ledger: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID,
			&record.Deskripsi,
			&record.Kategori,
			&record.Satuan,
			&record.Kuantitas,
			&record.Total,
			&record.StrukName,
			&record.Tanggal,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pengeluaran: scan ledger: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ Ledger = (*Repository)(nil)

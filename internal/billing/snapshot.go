// Package billing holds the billing snapshot model shared by the invoice
// and monitoring flows: the eight fee categories, the remaining-balance
// derivation and the Rupiah formatting rules.
package billing

import "time"

// Siswa carries the read-only student identity fields of a snapshot.
type Siswa struct {
	NISN    string
	Nama    string
	Jenjang string
	Program string
}

// Snapshot is the per-session billing state for one student. It is
// assembled from an upstream lookup plus user input and never persisted
// as a whole; only the issued invoice record survives it.
type Snapshot struct {
	Siswa Siswa

	// Total holds the amount already billed per category, as reported
	// by the upstream. Masuk holds the amount entered for the current
	// invoice; a blank field counts as zero.
	Total map[Category]int64
	Masuk map[Category]int64

	// Tunggakan is the prior-year carry-forward, not split by category.
	Tunggakan int64

	Semester      string
	Periode       string
	TanggalTerbit time.Time
	JatuhTempo    time.Time
	Catatan       string
}

// NewSnapshot returns a snapshot with empty amount maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Total: make(map[Category]int64),
		Masuk: make(map[Category]int64),
	}
}

// Sisa derives the remaining balance for one category. Missing entries
// count as zero. The result is intentionally not clamped: entering more
// than was billed yields a negative balance, matching the existing
// behaviour the rest of the system expects.
func (s *Snapshot) Sisa(c Category) int64 {
	return s.Total[c] - s.Masuk[c]
}

// Baris is one rendered table row of the snapshot.
type Baris struct {
	Kategori Category
	Total    int64
	Masuk    int64
	Sisa     int64
}

// Rows materialises the snapshot in the fixed category order, pokok
// categories first, then bulanan.
func (s *Snapshot) Rows() []Baris {
	cats := AllCategories()
	rows := make([]Baris, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, Baris{
			Kategori: c,
			Total:    s.Total[c],
			Masuk:    s.Masuk[c],
			Sisa:     s.Sisa(c),
		})
	}
	return rows
}

// TotalMasuk sums the entered amounts over all categories.
func (s *Snapshot) TotalMasuk() int64 {
	var sum int64
	for _, c := range AllCategories() {
		sum += s.Masuk[c]
	}
	return sum
}

// TotalSisa sums the remaining balances over all categories.
func (s *Snapshot) TotalSisa() int64 {
	var sum int64
	for _, c := range AllCategories() {
		sum += s.Sisa(c)
	}
	return sum
}

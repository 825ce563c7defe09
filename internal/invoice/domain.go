package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/bendahara-app/bendahara/internal/billing"
)

// Record is the archived trace of one issued invoice. The upstream
// keeps its own copy of the NISN/amount pair; this archive exists so
// the back office can answer "what did we issue, when" without asking
// the upstream. Derived sisa values are deliberately absent: they are
// display-only and never stored.
type Record struct {
	ID         uuid.UUID
	NISN       string
	Nama       string
	Semester   string
	Periode    string
	Masuk      map[billing.Category]int64
	TotalMasuk int64
	Tunggakan  int64
	PDFName    string
	CreatedAt  time.Time
}

// IssueInput is the validated form payload for issuing an invoice.
type IssueInput struct {
	NISN       string `validate:"required"`
	Semester   string
	Periode    string
	JatuhTempo time.Time
	Catatan    string

	// Masuk holds the amount entered per category; blank form fields
	// arrive as zero.
	Masuk map[billing.Category]int64
}

// Issued is the outcome of a successful issue: the archive record plus
// the generated document ready for download.
type Issued struct {
	Record   Record
	PDF      []byte
	FileName string
}

// Package monitoring renders the per-category payment listings. All
// four pages share one list pipeline parameterized by a PageConfig;
// only the upstream path, title and filter options differ.
package monitoring

import (
	"context"
	"net/url"
	"strings"

	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/upstream"
)

// PageConfig describes one monitoring listing.
type PageConfig struct {
	Slug           string
	Judul          string
	Path           string
	JenjangOptions []string
}

// Pages lists the monitoring screens in sidebar order.
var Pages = []PageConfig{
	{Slug: "praxis", Judul: "Monitoring Praxis", Path: "monitoring-praxis", JenjangOptions: []string{"SD", "SMP", "SMA"}},
	{Slug: "techno", Judul: "Monitoring TechnoNatura", Path: "monitoring-techno", JenjangOptions: []string{"SD", "SMP", "SMA"}},
	{Slug: "boarding", Judul: "Monitoring Boarding & Konsumsi", Path: "monitoring-boarding", JenjangOptions: []string{"SMP", "SMA"}},
	{Slug: "ekstra", Judul: "Monitoring Ekstrakurikuler", Path: "monitoring-ekstra", JenjangOptions: []string{"SD", "SMP", "SMA"}},
}

// PageBySlug resolves a configured page, or nil.
func PageBySlug(slug string) *PageConfig {
	for i := range Pages {
		if Pages[i].Slug == slug {
			return &Pages[i]
		}
	}
	return nil
}

// ListPort is the slice of the upstream client the listings need.
type ListPort interface {
	FetchMonitoring(ctx context.Context, path string, query url.Values) ([]upstream.MonitoringEntry, error)
}

// Row is a listing entry plus its highlight state.
type Row struct {
	upstream.MonitoringEntry
	Highlight bool
}

// Service fetches and filters monitoring listings.
type Service struct {
	upstream ListPort
	signals  *shared.SignalStore
}

// NewService builds a Service instance.
func NewService(up ListPort, signals *shared.SignalStore) *Service {
	return &Service{upstream: up, signals: signals}
}

// List fetches all pages of one listing, applies the name and jenjang
// filters and marks the row matching a pending highlight signal. The
// name filter is a case-insensitive substring match; jenjang matches
// exactly.
func (s *Service) List(ctx context.Context, userID string, page PageConfig, query, jenjang string) ([]Row, error) {
	entries, err := s.upstream.FetchMonitoring(ctx, page.Path, nil)
	if err != nil {
		return nil, err
	}

	highlight := ""
	if s.signals != nil {
		highlight = s.signals.Highlight(ctx, userID, page.Slug)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(entry.Nama), needle) {
			continue
		}
		if jenjang != "" && entry.Jenjang != jenjang {
			continue
		}
		rows = append(rows, Row{
			MonitoringEntry: entry,
			Highlight:       highlight != "" && entry.Nama == highlight,
		})
	}
	return rows, nil
}

// MarkEdited records that a row was just created or edited so the next
// listing render highlights it.
func (s *Service) MarkEdited(ctx context.Context, userID, slug, nama string) error {
	if s.signals == nil {
		return nil
	}
	return s.signals.SetHighlight(ctx, userID, slug, nama)
}

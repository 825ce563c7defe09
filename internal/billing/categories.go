package billing

// Category identifies one of the eight fixed billing categories.
type Category string

const (
	CategoryKBM          Category = "kbm"
	CategorySPP          Category = "spp"
	CategoryPemeliharaan Category = "pemeliharaan"
	CategorySumbangan    Category = "sumbangan"
	CategoryKonsumsi     Category = "konsumsi"
	CategoryBoarding     Category = "boarding"
	CategoryEkstra       Category = "ekstra"
	CategoryUangBelanja  Category = "uang_belanja"
)

// PokokCategories lists the core fee categories in display order.
var PokokCategories = []Category{
	CategoryKBM,
	CategorySPP,
	CategoryPemeliharaan,
	CategorySumbangan,
}

// BulananCategories lists the recurring fee categories in display order.
var BulananCategories = []Category{
	CategoryKonsumsi,
	CategoryBoarding,
	CategoryEkstra,
	CategoryUangBelanja,
}

// AllCategories returns every category, pokok first then bulanan.
// The order is load-bearing: tables and the generated PDF rely on it.
func AllCategories() []Category {
	out := make([]Category, 0, len(PokokCategories)+len(BulananCategories))
	out = append(out, PokokCategories...)
	out = append(out, BulananCategories...)
	return out
}

var categoryLabels = map[Category]string{
	CategoryKBM:          "KBM",
	CategorySPP:          "SPP",
	CategoryPemeliharaan: "Pemeliharaan",
	CategorySumbangan:    "Sumbangan",
	CategoryKonsumsi:     "Konsumsi",
	CategoryBoarding:     "Boarding",
	CategoryEkstra:       "Ekstra",
	CategoryUangBelanja:  "Uang Belanja",
}

// Label returns the display label for a category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

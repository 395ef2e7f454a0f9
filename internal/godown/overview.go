// Package godown derives the stock overview from the independently-stored
// godown collections. Nothing here caches: every call is a full rescan, which
// is fine at the few hundred records these collections hold.
package godown

import (
	"math"
	"sort"
	"time"

	"azizpoultry/a/domain"
)

// InvoiceStock is the bird count remaining attributed to one inward invoice.
type InvoiceStock struct {
	Invoice string `json:"invoice"`
	Birds   int64  `json:"birds"`
}

// Overview is the point-in-time stock snapshot.
type Overview struct {
	TotalInward    int64          `json:"totalInward"`
	TotalSold      int64          `json:"totalSold"`
	TotalMortality int64          `json:"totalMortality"`
	AvailableBirds int64          `json:"availableBirds"`
	StockByInvoice []InvoiceStock `json:"stockByInvoice"`
	// AverageAgeDays is null when no inward entry carries a date.
	AverageAgeDays *int  `json:"averageAgeDays"`
	Capacity       int64 `json:"capacity"`
	UtilizationPct int64 `json:"utilizationPct"`
}

const dateLayout = "2006-01-02"

// Compute reduces the three collections into an Overview. The collections
// share no key; they are joined purely by summation, and malformed or missing
// numerics have already been coerced to zero at decode time.
func Compute(entries []domain.GodownInwardEntry, sales []domain.GodownSale, morts []domain.GodownMortality, capacity int64, now time.Time) Overview {
	o := Overview{Capacity: capacity}

	for _, e := range entries {
		o.TotalInward += int64(e.NumberOfBirds)
	}
	for _, s := range sales {
		o.TotalSold += int64(s.NumberOfBirds)
	}
	for _, m := range morts {
		o.TotalMortality += int64(m.NumberOfBirdsDied)
	}

	o.AvailableBirds = o.TotalInward - o.TotalSold - o.TotalMortality
	if o.AvailableBirds < 0 {
		o.AvailableBirds = 0
	}

	o.StockByInvoice = stockByInvoice(entries)
	o.AverageAgeDays = averageAgeDays(entries, now)
	o.UtilizationPct = utilization(o.AvailableBirds, capacity)
	return o
}

func stockByInvoice(entries []domain.GodownInwardEntry) []InvoiceStock {
	byInvoice := make(map[string]int64)
	for _, e := range entries {
		byInvoice[e.ReferenceNo] += int64(e.NumberOfBirds)
	}
	stocks := make([]InvoiceStock, 0, len(byInvoice))
	for invoice, birds := range byInvoice {
		stocks = append(stocks, InvoiceStock{Invoice: invoice, Birds: birds})
	}
	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].Birds != stocks[j].Birds {
			return stocks[i].Birds > stocks[j].Birds
		}
		return stocks[i].Invoice < stocks[j].Invoice
	})
	return stocks
}

func averageAgeDays(entries []domain.GodownInwardEntry, now time.Time) *int {
	var (
		totalDays int
		dated     int
	)
	for _, e := range entries {
		d, err := time.Parse(dateLayout, e.EntryDate)
		if err != nil {
			continue
		}
		// Plain now-minus-entryDate arithmetic; a future-dated entry
		// contributes a negative age rather than being clamped.
		totalDays += int(now.Sub(d).Hours() / 24)
		dated++
	}
	if dated == 0 {
		return nil
	}
	avg := int(math.Round(float64(totalDays) / float64(dated)))
	return &avg
}

func utilization(available, capacity int64) int64 {
	if capacity <= 0 {
		return 0
	}
	pct := int64(math.Round(100 * float64(available) / float64(capacity)))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

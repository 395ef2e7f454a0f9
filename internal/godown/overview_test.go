package godown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"azizpoultry/a/domain"
)

func inward(invoice string, birds int64) domain.GodownInwardEntry {
	return domain.GodownInwardEntry{ReferenceNo: invoice, NumberOfBirds: domain.LooseInt(birds)}
}

func TestComputeAvailableBirds(t *testing.T) {
	o := Compute(
		[]domain.GodownInwardEntry{inward("A", 100), inward("B", 50)},
		[]domain.GodownSale{{NumberOfBirds: 30}},
		[]domain.GodownMortality{{NumberOfBirdsDied: 5}},
		5000, time.Now())

	assert.Equal(t, int64(150), o.TotalInward)
	assert.Equal(t, int64(30), o.TotalSold)
	assert.Equal(t, int64(5), o.TotalMortality)
	assert.Equal(t, int64(115), o.AvailableBirds)
}

func TestComputeAvailableNeverNegative(t *testing.T) {
	o := Compute(
		[]domain.GodownInwardEntry{inward("A", 10)},
		[]domain.GodownSale{{NumberOfBirds: 20}},
		[]domain.GodownMortality{{NumberOfBirdsDied: 5}},
		5000, time.Now())

	assert.Equal(t, int64(0), o.AvailableBirds)
	assert.Equal(t, int64(0), o.UtilizationPct)
}

func TestComputeUtilizationClamped(t *testing.T) {
	o := Compute(
		[]domain.GodownInwardEntry{inward("A", 115)},
		nil, nil, 100, time.Now())

	assert.Equal(t, int64(115), o.AvailableBirds)
	assert.Equal(t, int64(100), o.UtilizationPct)
}

func TestComputeUtilizationRounds(t *testing.T) {
	o := Compute(
		[]domain.GodownInwardEntry{inward("A", 333)},
		nil, nil, 1000, time.Now())

	assert.Equal(t, int64(33), o.UtilizationPct)
}

func TestStockByInvoiceGroupsAndSorts(t *testing.T) {
	o := Compute(
		[]domain.GodownInwardEntry{inward("A", 10), inward("B", 5), inward("A", 20)},
		nil, nil, 5000, time.Now())

	require.Len(t, o.StockByInvoice, 2)
	assert.Equal(t, InvoiceStock{Invoice: "A", Birds: 30}, o.StockByInvoice[0])
	assert.Equal(t, InvoiceStock{Invoice: "B", Birds: 5}, o.StockByInvoice[1])
}

func TestAverageAgeDays(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.GodownInwardEntry{
		{EntryDate: "2026-08-30", NumberOfBirds: 10}, // 2 days old
		{EntryDate: "2026-08-28", NumberOfBirds: 10}, // 4 days old
		{EntryDate: "not-a-date", NumberOfBirds: 10}, // skipped
	}

	o := Compute(entries, nil, nil, 5000, now)
	require.NotNil(t, o.AverageAgeDays)
	assert.Equal(t, 3, *o.AverageAgeDays)
}

func TestAverageAgeCountsFutureDatesNegatively(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.GodownInwardEntry{
		{EntryDate: "2026-09-03", NumberOfBirds: 10}, // -2 days
		{EntryDate: "2026-08-28", NumberOfBirds: 10}, // 4 days
	}

	o := Compute(entries, nil, nil, 5000, now)
	require.NotNil(t, o.AverageAgeDays)
	assert.Equal(t, 1, *o.AverageAgeDays)
}

func TestAverageAgeUnavailableWithoutDates(t *testing.T) {
	o := Compute([]domain.GodownInwardEntry{{NumberOfBirds: 10}}, nil, nil, 5000, time.Now())
	assert.Nil(t, o.AverageAgeDays)
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"azizpoultry/a/domain"
	"azizpoultry/a/internal/godown"
	"azizpoultry/a/internal/localstore"
)

// Godown collections mirror what the browser screens keep in localStorage:
// each handler is the server-side rendition of one form's save/delete event.

func (h *Handler) godownOverview(w http.ResponseWriter, r *http.Request) {
	entries, err := localstore.List[domain.GodownInwardEntry](h.store, localstore.KeyInwardEntries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	sales, err := localstore.List[domain.GodownSale](h.store, localstore.KeyGodownSales)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	morts, err := localstore.List[domain.GodownMortality](h.store, localstore.KeyMortality)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	capacity, err := h.store.Capacity()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, godown.Compute(entries, sales, morts, capacity, time.Now()))
}

func (h *Handler) getCapacity(w http.ResponseWriter, r *http.Request) {
	capacity, err := h.store.Capacity()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"capacity": capacity})
}

func (h *Handler) setCapacity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Capacity int64 `json:"capacity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if req.Capacity <= 0 {
		respondError(w, http.StatusBadRequest, "Validation error", "capacity must be a positive number")
		return
	}
	if err := h.store.SetCapacity(req.Capacity); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"capacity": req.Capacity})
}

// Inward entries

func (h *Handler) listInwardEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := localstore.List[domain.GodownInwardEntry](h.store, localstore.KeyInwardEntries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, entries)
}

func (h *Handler) createInwardEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.GodownInwardEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if entry.EntryDate == "" || entry.ReferenceNo == "" || entry.CageID == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "entryDate, referenceNo and cageId are required")
		return
	}
	entry.ID = h.store.NewID()
	entry.Amount = entry.WeightKg * entry.RatePerKg
	if err := localstore.Append(h.store, localstore.KeyInwardEntries, entry); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusCreated, entry)
}

func (h *Handler) updateInwardEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.GodownInwardEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if entry.EntryDate == "" || entry.ReferenceNo == "" || entry.CageID == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "entryDate, referenceNo and cageId are required")
		return
	}
	entry.ID = chi.URLParam(r, "id")
	entry.Amount = entry.WeightKg * entry.RatePerKg
	found, err := localstore.Replace(h.store, localstore.KeyInwardEntries, entry.ID, entry,
		func(e domain.GodownInwardEntry) string { return e.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Inward entry not found")
		return
	}
	respondData(w, http.StatusOK, entry)
}

func (h *Handler) deleteInwardEntry(w http.ResponseWriter, r *http.Request) {
	found, err := localstore.Remove(h.store, localstore.KeyInwardEntries, chi.URLParam(r, "id"),
		func(e domain.GodownInwardEntry) string { return e.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Inward entry not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Inward entry deleted successfully"})
}

// Godown sales

func (h *Handler) listGodownSales(w http.ResponseWriter, r *http.Request) {
	sales, err := localstore.List[domain.GodownSale](h.store, localstore.KeyGodownSales)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, sales)
}

func (h *Handler) createGodownSale(w http.ResponseWriter, r *http.Request) {
	var sale domain.GodownSale
	if err := decodeJSON(r, &sale); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if sale.SaleDate == "" || sale.InvoiceNo == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "saleDate and invoiceNo are required")
		return
	}
	sale.ID = h.store.NewID()
	sale.Amount = domain.LooseFloat(float64(sale.NumberOfBirds)) * sale.RatePerKg
	if err := localstore.Append(h.store, localstore.KeyGodownSales, sale); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusCreated, sale)
}

func (h *Handler) updateGodownSale(w http.ResponseWriter, r *http.Request) {
	var sale domain.GodownSale
	if err := decodeJSON(r, &sale); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if sale.SaleDate == "" || sale.InvoiceNo == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "saleDate and invoiceNo are required")
		return
	}
	sale.ID = chi.URLParam(r, "id")
	sale.Amount = domain.LooseFloat(float64(sale.NumberOfBirds)) * sale.RatePerKg
	found, err := localstore.Replace(h.store, localstore.KeyGodownSales, sale.ID, sale,
		func(s domain.GodownSale) string { return s.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Godown sale not found")
		return
	}
	respondData(w, http.StatusOK, sale)
}

func (h *Handler) deleteGodownSale(w http.ResponseWriter, r *http.Request) {
	found, err := localstore.Remove(h.store, localstore.KeyGodownSales, chi.URLParam(r, "id"),
		func(s domain.GodownSale) string { return s.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Godown sale not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Godown sale deleted successfully"})
}

// Mortality records

func (h *Handler) listMortality(w http.ResponseWriter, r *http.Request) {
	records, err := localstore.List[domain.GodownMortality](h.store, localstore.KeyMortality)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, records)
}

func (h *Handler) createMortality(w http.ResponseWriter, r *http.Request) {
	var record domain.GodownMortality
	if err := decodeJSON(r, &record); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if record.Date == "" || record.CageID == "" || record.NumberOfBirdsDied == 0 {
		respondError(w, http.StatusBadRequest, "Validation error", "date, cageId and numberOfBirdsDied are required")
		return
	}
	record.ID = h.store.NewID()
	if err := localstore.Append(h.store, localstore.KeyMortality, record); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusCreated, record)
}

func (h *Handler) updateMortality(w http.ResponseWriter, r *http.Request) {
	var record domain.GodownMortality
	if err := decodeJSON(r, &record); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if record.Date == "" || record.CageID == "" || record.NumberOfBirdsDied == 0 {
		respondError(w, http.StatusBadRequest, "Validation error", "date, cageId and numberOfBirdsDied are required")
		return
	}
	record.ID = chi.URLParam(r, "id")
	found, err := localstore.Replace(h.store, localstore.KeyMortality, record.ID, record,
		func(m domain.GodownMortality) string { return m.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Mortality record not found")
		return
	}
	respondData(w, http.StatusOK, record)
}

func (h *Handler) deleteMortality(w http.ResponseWriter, r *http.Request) {
	found, err := localstore.Remove(h.store, localstore.KeyMortality, chi.URLParam(r, "id"),
		func(m domain.GodownMortality) string { return m.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Mortality record not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Mortality record deleted successfully"})
}

// Legacy godown items

func (h *Handler) listGodownItems(w http.ResponseWriter, r *http.Request) {
	items, err := localstore.List[domain.GodownItem](h.store, localstore.KeyGodownItems)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusOK, items)
}

func (h *Handler) createGodownItem(w http.ResponseWriter, r *http.Request) {
	var item domain.GodownItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if item.OrderNumber == "" || item.SupplierName == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "orderNumber and supplierName are required")
		return
	}
	item.ID = h.store.NewID()
	item.TotalValue = domain.LooseFloat(float64(item.NoOfBirds)) * item.PurchaseRate
	item.LastUpdated = time.Now().Format("2006-01-02")
	if err := localstore.Append(h.store, localstore.KeyGodownItems, item); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	respondData(w, http.StatusCreated, item)
}

func (h *Handler) updateGodownItem(w http.ResponseWriter, r *http.Request) {
	var item domain.GodownItem
	if err := decodeJSON(r, &item); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}
	if item.OrderNumber == "" || item.SupplierName == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "orderNumber and supplierName are required")
		return
	}
	item.ID = chi.URLParam(r, "id")
	item.TotalValue = domain.LooseFloat(float64(item.NoOfBirds)) * item.PurchaseRate
	item.LastUpdated = time.Now().Format("2006-01-02")
	found, err := localstore.Replace(h.store, localstore.KeyGodownItems, item.ID, item,
		func(i domain.GodownItem) string { return i.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Godown item not found")
		return
	}
	respondData(w, http.StatusOK, item)
}

func (h *Handler) deleteGodownItem(w http.ResponseWriter, r *http.Request) {
	found, err := localstore.Remove(h.store, localstore.KeyGodownItems, chi.URLParam(r, "id"),
		func(i domain.GodownItem) string { return i.ID })
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "Not found", "Godown item not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Godown item deleted successfully"})
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"azizpoultry/a/domain"
	"azizpoultry/a/internal/localstore"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db     *sqlx.DB
	store  *localstore.Store
	log    *zap.Logger
	secret string
}

// New constructs a Handler.
func New(db *sqlx.DB, store *localstore.Store, log *zap.Logger, secret string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{db: db, store: store, log: log, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Change "*" to a list of allowed domains (e.g., ["http://localhost:3000"])
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Group(func(protected chi.Router) {
				protected.Use(h.authMiddleware)
				protected.Get("/me", h.me)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", h.listPurchases)
			r.Post("/", h.createPurchase)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.listSales)
			r.Post("/", h.createSale)
			r.Delete("/", h.deleteSale)
		})

		r.Route("/godown", func(r chi.Router) {
			r.Get("/overview", h.godownOverview)
			r.Get("/capacity", h.getCapacity)
			r.Put("/capacity", h.setCapacity)

			r.Route("/inward", func(r chi.Router) {
				r.Get("/", h.listInwardEntries)
				r.Post("/", h.createInwardEntry)
				r.Put("/{id}", h.updateInwardEntry)
				r.Delete("/{id}", h.deleteInwardEntry)
			})
			r.Route("/sales", func(r chi.Router) {
				r.Get("/", h.listGodownSales)
				r.Post("/", h.createGodownSale)
				r.Put("/{id}", h.updateGodownSale)
				r.Delete("/{id}", h.deleteGodownSale)
			})
			r.Route("/mortality", func(r chi.Router) {
				r.Get("/", h.listMortality)
				r.Post("/", h.createMortality)
				r.Put("/{id}", h.updateMortality)
				r.Delete("/{id}", h.deleteMortality)
			})
			r.Route("/items", func(r chi.Router) {
				r.Get("/", h.listGodownItems)
				r.Post("/", h.createGodownItem)
				r.Put("/{id}", h.updateGodownItem)
				r.Delete("/{id}", h.deleteGodownItem)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr))
	})
}

// Product handlers

type productRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := h.db.Select(&products, `SELECT * FROM products ORDER BY created_at DESC`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch products", err.Error())
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondData(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "Product name is required")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		respondError(w, http.StatusBadRequest, "Validation error", "Price must be a non-negative number")
		return
	}

	res, err := h.db.Exec(`INSERT INTO products (name, category, price) VALUES (?, ?, ?)`,
		name, nullIfEmpty(req.Category), req.Price)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create product", err.Error())
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create product", err.Error())
		return
	}

	var product domain.Product
	if err := h.db.Get(&product, `SELECT * FROM products WHERE id = ?`, id); err != nil {
		// Read-back failed; echo the input with the generated id.
		h.log.Warn("unable to read back created product", zap.Int64("id", id), zap.Error(err))
		product = domain.Product{ID: id, Name: name, Category: nullIfEmpty(req.Category), Price: req.Price}
	}
	respondData(w, http.StatusCreated, product)
}

// Purchase handlers

type purchaseRequest struct {
	PurchaseInvoiceNo string            `json:"purchaseInvoiceNo"`
	PurchaseDate      string            `json:"purchaseDate"`
	FarmerName        string            `json:"farmerName"`
	FarmerMobile      string            `json:"farmerMobile"`
	FarmLocation      string            `json:"farmLocation"`
	VehicleNo         string            `json:"vehicleNo"`
	PurchaseType      string            `json:"purchaseType"`
	Notes             string            `json:"notes"`
	BirdType          string            `json:"birdType"`
	NumberOfCages     domain.LooseInt   `json:"numberOfCages"`
	NumberOfBirds     domain.LooseInt   `json:"numberOfBirds"`
	RatePerKg         domain.LooseFloat `json:"ratePerKg"`
	TotalAmount       domain.LooseFloat `json:"totalAmount"`

	// Legacy fields for backward compatibility.
	Supplier     string            `json:"supplier"`
	Date         string            `json:"date"`
	Description  string            `json:"description"`
	BirdQuantity domain.LooseInt   `json:"birdQuantity"`
	CageQuantity domain.LooseInt   `json:"cageQuantity"`
	UnitCost     domain.LooseFloat `json:"unitCost"`
	Status       string            `json:"status"`
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	var purchases []domain.Purchase
	if err := h.db.Select(&purchases, `SELECT * FROM purchases ORDER BY date DESC, created_at DESC`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch purchases", err.Error())
		return
	}
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	respondData(w, http.StatusOK, purchases)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON", "Request body must be valid JSON")
		return
	}

	hasCurrent := req.PurchaseInvoiceNo != "" && req.PurchaseDate != "" && req.FarmerName != ""
	hasLegacy := req.Supplier != "" && req.Date != "" && req.Description != ""
	if !hasCurrent && !hasLegacy {
		respondError(w, http.StatusBadRequest, "Validation error", "Missing required fields")
		return
	}

	var count int64
	if err := h.db.Get(&count, `SELECT COUNT(*) FROM purchases`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create purchase order", err.Error())
		return
	}

	orderNumber := req.PurchaseInvoiceNo
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("PO-%03d", count+1)
	}

	supplier := firstNonEmpty(req.FarmerName, req.Supplier)
	date := firstNonEmpty(req.PurchaseDate, req.Date)
	birds := int64(req.NumberOfBirds)
	if birds == 0 {
		birds = int64(req.BirdQuantity)
	}
	cages := int64(req.NumberOfCages)
	if cages == 0 {
		cages = int64(req.CageQuantity)
	}
	unitCost := float64(req.RatePerKg)
	if unitCost == 0 {
		unitCost = float64(req.UnitCost)
	}
	total := float64(req.TotalAmount)
	if total == 0 {
		total = float64(birds) * unitCost
	}
	description := req.Description
	if description == "" {
		description = strings.TrimSpace(fmt.Sprintf("%s - %d birds", req.BirdType, birds))
	}
	status := req.Status
	if status == "" {
		status = "pending"
	}

	res, err := h.db.Exec(`INSERT INTO purchases (orderNumber, supplier, date, description, birdQuantity, cageQuantity, unitCost, totalValue, status, notes)
	        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderNumber, strings.TrimSpace(supplier), date, strings.TrimSpace(description),
		birds, cages, unitCost, total, status, nullIfEmpty(req.Notes))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create purchase order", err.Error())
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create purchase order", err.Error())
		return
	}

	var purchase domain.Purchase
	if err := h.db.Get(&purchase, `SELECT * FROM purchases WHERE id = ?`, id); err != nil {
		h.log.Warn("unable to read back created purchase", zap.Int64("id", id), zap.Error(err))
		purchase = domain.Purchase{
			ID:           id,
			OrderNumber:  orderNumber,
			Supplier:     strings.TrimSpace(supplier),
			Date:         date,
			Description:  strings.TrimSpace(description),
			BirdQuantity: birds,
			CageQuantity: cages,
			UnitCost:     unitCost,
			TotalValue:   total,
			Status:       status,
			Notes:        nullIfEmpty(req.Notes),
		}
	}
	respondData(w, http.StatusCreated, purchase)
}

// Sale handlers

var paymentModes = map[string]bool{"Cash": true, "Credit": true, "Online": true}

type saleRequest struct {
	SaleInvoiceNo      string            `json:"saleInvoiceNo"`
	ShopName           string            `json:"shopName"`
	OwnerName          string            `json:"ownerName"`
	Phone              string            `json:"phone"`
	Address            string            `json:"address"`
	SaleMode           string            `json:"saleMode"`
	VehicleNo          string            `json:"vehicleNo"`
	SalePayment        string            `json:"salePayment"`
	Notes              string            `json:"notes"`
	BirdType           string            `json:"birdType"`
	NumberOfCages      domain.LooseInt   `json:"numberOfCages"`
	NumberOfBirds      domain.LooseInt   `json:"numberOfBirds"`
	AverageWeight      domain.LooseFloat `json:"averageWeight"`
	TotalWeight        domain.LooseFloat `json:"totalWeight"`
	RatePerKg          domain.LooseFloat `json:"ratePerKg"`
	TotalAmount        domain.LooseFloat `json:"totalAmount"`
	TransportCharges   domain.LooseFloat `json:"transportCharges"`
	LoadingCharges     domain.LooseFloat `json:"loadingCharges"`
	Commission         domain.LooseFloat `json:"commission"`
	OtherCharges       domain.LooseFloat `json:"otherCharges"`
	Deductions         domain.LooseFloat `json:"deductions"`
	TotalInvoice       domain.LooseFloat `json:"totalInvoice"`
	AdvancePaid        domain.LooseFloat `json:"advancePaid"`
	CreditBalance      domain.LooseFloat `json:"creditBalance"`
	TotalPaymentMade   domain.LooseFloat `json:"totalPaymentMade"`
	OutstandingPayment domain.LooseFloat `json:"outstandingPayment"`
	PaymentMode        string            `json:"paymentMode"`
	BalanceAmount      domain.LooseFloat `json:"balanceAmount"`
	SaleDate           string            `json:"saleDate"`

	// Legacy fields for backward compatibility.
	Customer      string            `json:"customer"`
	Date          string            `json:"date"`
	UnitPrice     domain.LooseFloat `json:"unitPrice"`
	PaymentStatus string            `json:"paymentStatus"`
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	exists, err := h.tableExists("sales")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error", err.Error())
		return
	}
	if !exists {
		respondData(w, http.StatusOK, []domain.Sale{})
		return
	}

	var sales []domain.Sale
	if err := h.db.Select(&sales, `SELECT * FROM sales ORDER BY created_at DESC`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch sales", err.Error())
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SortKey() > sales[j].SortKey()
	})
	respondData(w, http.StatusOK, sales)
}

// createSale deliberately has no validation path: the trading screens depend
// on sales never being rejected, so every field is optional and numerics
// coerce to zero. Only a store failure produces an error response.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}

	numCages := int64(req.NumberOfCages)
	numBirds := int64(req.NumberOfBirds)
	if numBirds == 0 {
		// A cage carries 16 birds unless counted explicitly.
		numBirds = numCages * 16
	}
	rate := float64(req.RatePerKg)
	if rate == 0 {
		rate = float64(req.UnitPrice)
	}
	shopName := firstNonEmpty(req.ShopName, req.Customer)
	salePayment := firstNonEmpty(req.SalePayment, req.PaymentStatus, "Paid")
	saleDate := firstNonEmpty(req.SaleDate, req.Date, time.Now().Format("2006-01-02"))

	var paymentMode *string
	if pm := strings.TrimSpace(req.PaymentMode); paymentModes[pm] {
		paymentMode = &pm
	}

	res, err := h.db.Exec(`INSERT INTO sales (
	        saleInvoiceNo, shopName, ownerName, phone, address, saleMode, vehicleNo, salePayment, notes,
	        birdType, numberOfCages, numberOfBirds, averageWeight, totalWeight,
	        ratePerKg, totalAmount, transportCharges, loadingCharges, commission,
	        otherCharges, deductions, totalInvoice, advancePaid, creditBalance,
	        totalPaymentMade, outstandingPayment, paymentMode, balanceAmount, saleDate,
	        created_at
	    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		req.SaleInvoiceNo, shopName, req.OwnerName, req.Phone, req.Address,
		req.SaleMode, req.VehicleNo, salePayment, req.Notes, req.BirdType,
		numCages, numBirds, float64(req.AverageWeight), float64(req.TotalWeight),
		rate, float64(req.TotalAmount), float64(req.TransportCharges), float64(req.LoadingCharges),
		float64(req.Commission), float64(req.OtherCharges), float64(req.Deductions),
		float64(req.TotalInvoice), float64(req.AdvancePaid), float64(req.CreditBalance),
		float64(req.TotalPaymentMade), float64(req.OutstandingPayment), paymentMode,
		float64(req.BalanceAmount), saleDate)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create sale", err.Error())
		return
	}
	id, err := res.LastInsertId()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create sale", err.Error())
		return
	}

	var sale domain.Sale
	if err := h.db.Get(&sale, `SELECT * FROM sales WHERE id = ?`, id); err != nil {
		h.log.Warn("unable to read back created sale", zap.Int64("id", id), zap.Error(err))
		sale = domain.Sale{
			ID:                 id,
			SaleInvoiceNo:      strPtr(req.SaleInvoiceNo),
			ShopName:           strPtr(shopName),
			OwnerName:          strPtr(req.OwnerName),
			Phone:              strPtr(req.Phone),
			Address:            strPtr(req.Address),
			SaleMode:           strPtr(req.SaleMode),
			VehicleNo:          strPtr(req.VehicleNo),
			SalePayment:        strPtr(salePayment),
			Notes:              strPtr(req.Notes),
			BirdType:           strPtr(req.BirdType),
			NumberOfCages:      intPtr(numCages),
			NumberOfBirds:      intPtr(numBirds),
			AverageWeight:      floatPtr(float64(req.AverageWeight)),
			TotalWeight:        floatPtr(float64(req.TotalWeight)),
			RatePerKg:          floatPtr(rate),
			TotalAmount:        floatPtr(float64(req.TotalAmount)),
			TransportCharges:   floatPtr(float64(req.TransportCharges)),
			LoadingCharges:     floatPtr(float64(req.LoadingCharges)),
			Commission:         floatPtr(float64(req.Commission)),
			OtherCharges:       floatPtr(float64(req.OtherCharges)),
			Deductions:         floatPtr(float64(req.Deductions)),
			TotalInvoice:       floatPtr(float64(req.TotalInvoice)),
			AdvancePaid:        floatPtr(float64(req.AdvancePaid)),
			CreditBalance:      floatPtr(float64(req.CreditBalance)),
			TotalPaymentMade:   floatPtr(float64(req.TotalPaymentMade)),
			OutstandingPayment: floatPtr(float64(req.OutstandingPayment)),
			PaymentMode:        paymentMode,
			BalanceAmount:      floatPtr(float64(req.BalanceAmount)),
			SaleDate:           strPtr(saleDate),
		}
	}
	respondData(w, http.StatusCreated, sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Validation error", "Sale ID is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM sales WHERE id = ?`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete sale", err.Error())
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete sale", err.Error())
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "Not found", "Sale not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sale deleted successfully"})
}

func (h *Handler) tableExists(name string) (bool, error) {
	var n int
	err := h.db.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	return n > 0, err
}

// Helpers

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func strPtr(s string) *string { return &s }

func intPtr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, map[string]any{"success": true, "data": data})
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, map[string]string{"error": kind, "message": message})
}

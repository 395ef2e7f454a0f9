package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"azizpoultry/a/domain"
	"azizpoultry/a/internal/localstore"
	"azizpoultry/a/internal/schema"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func newTestHandler(t *testing.T) (*Handler, *sqlx.DB) {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.Migrate(db, zap.NewNop()))

	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)

	return New(db, store, zap.NewNop(), "test_secret"), db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func rowCount(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

// Products

func TestCreateAndListProducts(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/products", map[string]any{
		"name": "Broiler", "category": "Birds", "price": 120.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	var created domain.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Broiler", created.Name)
	assert.NotEmpty(t, created.CreatedAt)

	rec = doJSON(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Broiler", listed[0].Name)
}

func TestCreateProductIgnoresUnknownFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/products", map[string]any{
		"name": "Broiler", "quantity": 5, "sku": "B-100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "Broiler", created.Name)
}

func TestCreateProductRejectsBlankName(t *testing.T) {
	h, db := newTestHandler(t)
	router := h.Router()

	for _, name := range []string{"", "   "} {
		rec := doJSON(t, router, http.MethodPost, "/api/products", map[string]any{"name": name})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation error", decodeEnvelope(t, rec).Error)
	}
	assert.Equal(t, 0, rowCount(t, db, "products"))
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	h, db := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/products", map[string]any{
		"name": "Broiler", "price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, rowCount(t, db, "products"))
}

func TestCreateProductRejectsMalformedJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON", decodeEnvelope(t, rec).Error)
}

// Sales

func TestCreateSaleCoercesLooseNumerics(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
		"saleInvoiceNo": "INV-1",
		"shopName":      "City Traders",
		"numberOfCages": "2",
		"ratePerKg":     "not a number",
		"totalAmount":   "1540.50",
		"paymentMode":   "Cheque",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale domain.Sale
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sale))
	require.NotNil(t, sale.NumberOfBirds)
	assert.Equal(t, int64(32), *sale.NumberOfBirds) // 2 cages * 16
	require.NotNil(t, sale.RatePerKg)
	assert.Equal(t, float64(0), *sale.RatePerKg)
	require.NotNil(t, sale.TotalAmount)
	assert.Equal(t, 1540.50, *sale.TotalAmount)
	assert.Nil(t, sale.PaymentMode) // invalid mode stored as NULL, not rejected
	assert.NotEmpty(t, sale.CreatedAt)
}

func TestCreateSaleHonorsLegacyFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/sales", map[string]any{
		"customer":      "Old Shop",
		"unitPrice":     95,
		"paymentStatus": "Pending",
		"date":          "2026-08-15",
		"paymentMode":   "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale domain.Sale
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sale))
	require.NotNil(t, sale.ShopName)
	assert.Equal(t, "Old Shop", *sale.ShopName)
	require.NotNil(t, sale.RatePerKg)
	assert.Equal(t, float64(95), *sale.RatePerKg)
	require.NotNil(t, sale.SalePayment)
	assert.Equal(t, "Pending", *sale.SalePayment)
	require.NotNil(t, sale.SaleDate)
	assert.Equal(t, "2026-08-15", *sale.SaleDate)
	require.NotNil(t, sale.PaymentMode)
	assert.Equal(t, "Cash", *sale.PaymentMode)
}

func TestListSalesSortsBySaleDate(t *testing.T) {
	h, _ := newTestHandler(t)
	router := h.Router()

	for _, date := range []string{"2026-01-05", "2026-03-01", "2026-02-10"} {
		rec := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{"saleDate": date})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sales []domain.Sale
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sales))
	require.Len(t, sales, 3)
	assert.Equal(t, "2026-03-01", *sales[0].SaleDate)
	assert.Equal(t, "2026-02-10", *sales[1].SaleDate)
	assert.Equal(t, "2026-01-05", *sales[2].SaleDate)
}

func TestListSalesWithoutTableReturnsEmptyArray(t *testing.T) {
	h, db := newTestHandler(t)
	_, err := db.Exec(`DROP TABLE sales`)
	require.NoError(t, err)

	rec := doJSON(t, h.Router(), http.MethodGet, "/api/sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"data":[]`))
}

func TestDeleteSale(t *testing.T) {
	h, db := newTestHandler(t)
	router := h.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{"saleInvoiceNo": "INV-9"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sale domain.Sale
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &sale))

	// Missing id.
	rec = doJSON(t, router, http.MethodDelete, "/api/sales", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown id leaves the row count unchanged.
	rec = doJSON(t, router, http.MethodDelete, "/api/sales?id=99999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, rowCount(t, db, "sales"))

	rec = doJSON(t, router, http.MethodDelete, "/api/sales?id=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, rowCount(t, db, "sales"))
}

// Purchases

func TestCreatePurchaseFromLegacyFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/purchases", map[string]any{
		"supplier":     "Ahmed Khan",
		"date":         "2026-08-01",
		"description":  "Broiler - 200 birds",
		"birdQuantity": 200,
		"unitCost":     85,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var purchase domain.Purchase
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &purchase))
	assert.Equal(t, "PO-001", purchase.OrderNumber)
	assert.Equal(t, "Ahmed Khan", purchase.Supplier)
	assert.Equal(t, int64(200), purchase.BirdQuantity)
	assert.Equal(t, float64(200*85), purchase.TotalValue)
	assert.Equal(t, "pending", purchase.Status)
}

func TestCreatePurchaseFromInvoiceFields(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/purchases", map[string]any{
		"purchaseInvoiceNo": "PINV-7",
		"purchaseDate":      "2026-08-20",
		"farmerName":        "Mohammed Ali",
		"birdType":          "Broiler",
		"numberOfCages":     10,
		"numberOfBirds":     160,
		"ratePerKg":         90,
		"totalAmount":       14400,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var purchase domain.Purchase
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &purchase))
	assert.Equal(t, "PINV-7", purchase.OrderNumber)
	assert.Equal(t, "Mohammed Ali", purchase.Supplier)
	assert.Equal(t, "Broiler - 160 birds", purchase.Description)
	assert.Equal(t, int64(160), purchase.BirdQuantity)
	assert.Equal(t, float64(14400), purchase.TotalValue)
}

func TestCreatePurchaseRequiresFields(t *testing.T) {
	h, db := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodPost, "/api/purchases", map[string]any{"notes": "incomplete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, rowCount(t, db, "purchases"))
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doJSON(t, h.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

package domain

// Sale is the wide trade record. Rows created before a column was migrated in
// carry NULL there, so every optional field is a pointer.
type Sale struct {
	ID                 int64    `db:"id" json:"id"`
	SaleInvoiceNo      *string  `db:"saleInvoiceNo" json:"saleInvoiceNo"`
	ShopName           *string  `db:"shopName" json:"shopName"`
	OwnerName          *string  `db:"ownerName" json:"ownerName"`
	Phone              *string  `db:"phone" json:"phone"`
	Address            *string  `db:"address" json:"address"`
	SaleMode           *string  `db:"saleMode" json:"saleMode"`
	VehicleNo          *string  `db:"vehicleNo" json:"vehicleNo"`
	SalePayment        *string  `db:"salePayment" json:"salePayment"`
	Notes              *string  `db:"notes" json:"notes"`
	BirdType           *string  `db:"birdType" json:"birdType"`
	NumberOfCages      *int64   `db:"numberOfCages" json:"numberOfCages"`
	NumberOfBirds      *int64   `db:"numberOfBirds" json:"numberOfBirds"`
	AverageWeight      *float64 `db:"averageWeight" json:"averageWeight"`
	TotalWeight        *float64 `db:"totalWeight" json:"totalWeight"`
	RatePerKg          *float64 `db:"ratePerKg" json:"ratePerKg"`
	TotalAmount        *float64 `db:"totalAmount" json:"totalAmount"`
	TransportCharges   *float64 `db:"transportCharges" json:"transportCharges"`
	LoadingCharges     *float64 `db:"loadingCharges" json:"loadingCharges"`
	Commission         *float64 `db:"commission" json:"commission"`
	OtherCharges       *float64 `db:"otherCharges" json:"otherCharges"`
	Deductions         *float64 `db:"deductions" json:"deductions"`
	TotalInvoice       *float64 `db:"totalInvoice" json:"totalInvoice"`
	AdvancePaid        *float64 `db:"advancePaid" json:"advancePaid"`
	CreditBalance      *float64 `db:"creditBalance" json:"creditBalance"`
	TotalPaymentMade   *float64 `db:"totalPaymentMade" json:"totalPaymentMade"`
	OutstandingPayment *float64 `db:"outstandingPayment" json:"outstandingPayment"`
	PaymentMode        *string  `db:"paymentMode" json:"paymentMode"`
	BalanceAmount      *float64 `db:"balanceAmount" json:"balanceAmount"`
	SaleDate           *string  `db:"saleDate" json:"saleDate"`
	CreatedAt          string   `db:"created_at" json:"created_at"`
}

// SortKey is the date used when ordering sales newest-first.
func (s Sale) SortKey() string {
	if s.SaleDate != nil && *s.SaleDate != "" {
		return *s.SaleDate
	}
	return s.CreatedAt
}

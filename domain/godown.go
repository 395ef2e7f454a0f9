package domain

// Godown records live in the JSON localstore, not the relational tables.
// Ids are client-generated millisecond-timestamp strings.

type GodownInwardEntry struct {
	ID            string     `json:"id"`
	EntryDate     string     `json:"entryDate"`
	ReferenceNo   string     `json:"referenceNo"`
	Source        string     `json:"source"`
	CageID        string     `json:"cageId"`
	NumberOfBirds LooseInt   `json:"numberOfBirds"`
	WeightKg      LooseFloat `json:"weightKg"`
	RatePerKg     LooseFloat `json:"ratePerKg"`
	Amount        LooseFloat `json:"amount"`
	Notes         string     `json:"notes"`
}

type GodownSale struct {
	ID            string     `json:"id"`
	SaleDate      string     `json:"saleDate"`
	InvoiceNo     string     `json:"invoiceNo"`
	CustomerName  string     `json:"customerName"`
	CageID        string     `json:"cageId"`
	NumberOfBirds LooseInt   `json:"numberOfBirds"`
	RatePerKg     LooseFloat `json:"ratePerKg"`
	Amount        LooseFloat `json:"amount"`
	Notes         string     `json:"notes"`
}

type GodownMortality struct {
	ID                string   `json:"id"`
	Date              string   `json:"date"`
	ReferenceNo       string   `json:"referenceNo"`
	CageID            string   `json:"cageId"`
	NumberOfBirdsDied LooseInt `json:"numberOfBirdsDied"`
	Cause             string   `json:"cause"`
	Notes             string   `json:"notes"`
}

// GodownItem is the legacy godown collection kept for older installs.
type GodownItem struct {
	ID           string     `json:"id"`
	OrderNumber  string     `json:"orderNumber"`
	SupplierName string     `json:"supplierName"`
	NoOfCages    LooseInt   `json:"noOfCages"`
	NoOfBirds    LooseInt   `json:"noOfBirds"`
	PurchaseRate LooseFloat `json:"purchaseRate"`
	TotalValue   LooseFloat `json:"totalValue"`
	LastUpdated  string     `json:"lastUpdated"`
}

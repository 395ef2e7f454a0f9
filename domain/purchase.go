package domain

type Purchase struct {
	ID           int64   `db:"id" json:"id"`
	OrderNumber  string  `db:"orderNumber" json:"orderNumber"`
	Supplier     string  `db:"supplier" json:"supplier"`
	Date         string  `db:"date" json:"date"`
	Description  string  `db:"description" json:"description"`
	BirdQuantity int64   `db:"birdQuantity" json:"birdQuantity"`
	CageQuantity int64   `db:"cageQuantity" json:"cageQuantity"`
	UnitCost     float64 `db:"unitCost" json:"unitCost"`
	TotalValue   float64 `db:"totalValue" json:"totalValue"`
	Status       string  `db:"status" json:"status"`
	Notes        *string `db:"notes" json:"notes"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

package domain

type Product struct {
	ID        int64    `db:"id" json:"id"`
	Name      string   `db:"name" json:"name"`
	Category  *string  `db:"category" json:"category"`
	Price     *float64 `db:"price" json:"price"`
	CreatedAt string   `db:"created_at" json:"created_at"`
}

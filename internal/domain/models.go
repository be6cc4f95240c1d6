package domain

// Order statuses. An order is created Pending and only moves via the
// admin status-update endpoint.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	ImageURL    string  `db:"image_url" json:"imageUrl"`
	Category    string  `db:"category" json:"category"`
	Stock       int     `db:"stock" json:"stock"`
	Available   bool    `db:"available" json:"isAvailable"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt,omitempty"`
}

type Cart struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

type CartItem struct {
	CartID    string `db:"cart_id" json:"-"`
	ProductID string `db:"product_id" json:"productId"`
	Quantity  int    `db:"quantity" json:"quantity"`
	CreatedAt string `db:"created_at" json:"-"`
}

type Order struct {
	ID              string  `db:"id" json:"id"`
	UserID          string  `db:"user_id" json:"userId"`
	Total           float64 `db:"total" json:"totalAmount"`
	Status          string  `db:"status" json:"status"`
	ShippingAddress string  `db:"shipping_address" json:"shippingAddress"`
	PaymentMethod   string  `db:"payment_method" json:"paymentMethod"`
	CreatedAt       string  `db:"created_at" json:"createdAt"`
}

// OrderItem is the immutable per-line snapshot captured at order time.
// Price is the unit price read during validation, never re-derived from
// the catalog afterwards.
type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

package repos

import (
	"fmt"

	"tradewind/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderItemRow is an order line expanded with current product details for
// history reads. Price and quantity are the captured snapshot; name and
// image come from the catalog and may be empty if the product was deleted.
type OrderItemRow struct {
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	ImageURL  string  `db:"image_url" json:"imageUrl"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Price     float64 `db:"price" json:"price"`
	Subtotal  float64 `db:"subtotal" json:"subtotal"`
}

// InsufficientStock is returned when a conditional decrement finds less
// stock than the order needs.
type InsufficientStock struct{ ProductID string }

func (e InsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

// Place persists the order header and its line snapshot, and decrements
// stock for every line, in one transaction. Each decrement is guarded with
// a stock >= quantity condition, so a concurrent order for the same product
// aborts the whole transaction instead of overselling. Availability is
// recomputed from the new stock value in the same statement.
func (r *OrderRepo) Place(o *domain.Order, lines []domain.OrderItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id,user_id,total,status,shipping_address,payment_method)
	  VALUES(?,?,?,?,?,?)
	`, o.ID, o.UserID, o.Total, o.Status, o.ShippingAddress, o.PaymentMethod); err != nil {
		return err
	}

	for _, it := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,quantity,price)
		  VALUES(?,?,?,?)
		`, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}
		res, err := tx.Exec(`
		  UPDATE products
		  SET stock = stock - ?, available = (stock - ? > 0), updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock >= ?
		`, it.Quantity, it.Quantity, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return InsufficientStock{ProductID: it.ProductID}
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id,user_id,total,status,shipping_address,payment_method,created_at
	  FROM orders WHERE id = ?
	`, id)
	return o, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT id,user_id,total,status,shipping_address,payment_method,created_at
	  FROM orders WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC, id
	`, userID)
	return out, err
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT id,user_id,total,status,shipping_address,payment_method,created_at
	  FROM orders
	  ORDER BY datetime(created_at) DESC, id
	`)
	return out, err
}

// Items returns the order's line snapshot expanded with product details.
func (r *OrderRepo) Items(orderID string) ([]OrderItemRow, error) {
	out := []OrderItemRow{}
	err := r.db.Select(&out, `
	  SELECT oi.product_id,
	         COALESCE(p.name,'')      AS name,
	         COALESCE(p.image_url,'') AS image_url,
	         oi.quantity, oi.price, (oi.quantity * oi.price) AS subtotal
	  FROM order_items oi LEFT JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY oi.rowid
	`, orderID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) (int64, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *OrderRepo) UpdateShipping(id, address string) (int64, error) {
	res, err := r.db.Exec(`UPDATE orders SET shipping_address = ? WHERE id = ?`, address, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

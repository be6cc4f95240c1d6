package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartItemRow is a line item expanded with the referenced product's details,
// for cart reads.
type CartItemRow struct {
	ProductID   string  `db:"product_id" json:"productId"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	ImageURL    string  `db:"image_url" json:"imageUrl"`
	Quantity    int     `db:"quantity" json:"quantity"`
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
}

// EnsureCart returns the user's cart id, creating the cart lazily on first
// use. One active cart per user.
func (r *CartRepo) EnsureCart(userID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID); err == nil {
		return cartID, nil
	}
	cartID = uuid.NewString()
	_, err := r.db.Exec(`INSERT INTO carts(id,user_id) VALUES(?,?)`, cartID, userID)
	if err != nil {
		return "", err
	}
	return cartID, nil
}

// CartID looks up the user's cart without creating one.
func (r *CartRepo) CartID(userID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID)
	return cartID, err
}

// AddItem merges by product identity: adding an already-present product
// increments its quantity instead of duplicating the line.
func (r *CartRepo) AddItem(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,quantity)
		VALUES(?,?,?)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET quantity = quantity + excluded.quantity
	`, cartID, productID, qty)
	return err
}

// SetQuantity overwrites a line's quantity. Returns rows affected so the
// caller can distinguish a missing line.
func (r *CartRepo) SetQuantity(cartID, productID string, qty int) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET quantity = ? WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RemoveItem filters a line out by product identity. Removing an absent
// line is a silent no-op.
func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID)
	return err
}

// Items returns the cart's lines in insertion order, expanded with product
// details.
func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	rows := []CartItemRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.name, p.description, p.price, p.image_url,
	         ci.quantity, (ci.quantity * p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.rowid
	`, cartID)
	return rows, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

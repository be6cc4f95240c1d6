package repos

import (
	"tradewind/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// Filter is the catalog list query: case-insensitive substring on name,
// exact category, inclusive price bounds. Nil price pointers mean unbounded.
type Filter struct {
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

const selectCols = `
  id, name, description, price, image_url, category, stock, available,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,description,price,image_url,category,stock,available)
	  VALUES(?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Stock, p.Stock > 0)
	return err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+selectCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// Update overwrites the mutable fields and recomputes availability from the
// new stock value in the same write.
func (r *ProductRepo) Update(p *domain.Product) (int64, error) {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, price=?, image_url=?, category=?, stock=?,
	      available = (? > 0), updated_at = CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.Price, p.ImageURL, p.Category, p.Stock, p.Stock, p.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *ProductRepo) Delete(id string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (f Filter) where() (string, []any) {
	where := `1=1`
	args := []any{}
	if f.Search != "" {
		where += ` AND LOWER(name) LIKE '%' || LOWER(?) || '%'`
		args = append(args, f.Search)
	}
	if f.Category != "" {
		where += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.MinPrice != nil {
		where += ` AND price >= ?`
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where += ` AND price <= ?`
		args = append(args, *f.MaxPrice)
	}
	return where, args
}

func (r *ProductRepo) Count(f Filter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE `+where, args...)
	return n, err
}

func (r *ProductRepo) List(f Filter, limit, offset int) ([]domain.Product, error) {
	where, args := f.where()
	sql := `SELECT` + selectCols + ` FROM products WHERE ` + where + `
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	err := r.db.Select(&out, sql, args...)
	return out, err
}

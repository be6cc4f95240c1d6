package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tradewind/internal/cache"
	"tradewind/internal/domain"
	"tradewind/internal/repos"

	"github.com/google/uuid"
)

// PageSize is the fixed catalog page size.
const PageSize = 10

type CatalogService struct {
	Prods *repos.ProductRepo
	Cache *cache.Catalog
}

func NewCatalogService(prods *repos.ProductRepo, c *cache.Catalog) *CatalogService {
	return &CatalogService{Prods: prods, Cache: c}
}

// CatalogPage is the list response shape: the page of products plus the
// current page number and total page count over the filtered set.
type CatalogPage struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

func sig(f repos.Filter, page int) string {
	min, max := "", ""
	if f.MinPrice != nil {
		min = fmt.Sprintf("%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		max = fmt.Sprintf("%g", *f.MaxPrice)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d", f.Search, f.Category, min, max, page)
}

// List serves a filtered catalog page, from the Redis cache when warm.
func (s *CatalogService) List(ctx context.Context, f repos.Filter, page int) (CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	key := sig(f, page)
	if b, ok := s.Cache.Get(ctx, key); ok {
		var cached CatalogPage
		if json.Unmarshal(b, &cached) == nil {
			return cached, nil
		}
	}

	count, err := s.Prods.Count(f)
	if err != nil {
		return CatalogPage{}, err
	}
	products, err := s.Prods.List(f, PageSize, PageSize*(page-1))
	if err != nil {
		return CatalogPage{}, err
	}
	out := CatalogPage{
		Products: products,
		Page:     page,
		Pages:    (count + PageSize - 1) / PageSize,
	}
	if b, err := json.Marshal(out); err == nil {
		s.Cache.Put(ctx, key, b)
	}
	return out, nil
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	ImageURL    string
}

// Create persists a catalog entry; availability derives from stock at
// insert time.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (domain.Product, error) {
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Stock:       in.Stock,
		Available:   in.Stock > 0,
	}
	if err := s.Prods.Create(&p); err != nil {
		return domain.Product{}, err
	}
	s.Cache.Bump(ctx)
	return s.Get(p.ID)
}

// Update overwrites the entry; the availability flag is recomputed from the
// new stock inside the same write. Empty ImageURL keeps the current image.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	cur, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}
	if in.ImageURL == "" {
		in.ImageURL = cur.ImageURL
	}
	p := domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Stock:       in.Stock,
	}
	n, err := s.Prods.Update(&p)
	if err != nil {
		return domain.Product{}, err
	}
	if n == 0 {
		return domain.Product{}, ErrNotFound
	}
	s.Cache.Bump(ctx)
	return s.Get(id)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	n, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.Cache.Bump(ctx)
	return nil
}

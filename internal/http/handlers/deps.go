package handlers

import (
	"time"

	"tradewind/internal/cache"
	"tradewind/internal/media"
	"tradewind/internal/notify"
	"tradewind/internal/repos"
	"tradewind/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AdminHandler   *AdminHandler
}

func NewDeps(db *sqlx.DB, jwtSecret string, ttl time.Duration, c *cache.Catalog, up media.Uploader, mail notify.Mailer) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo, jwtSecret, ttl)
	userSvc := services.NewUserService(userRepo)
	catalogSvc := services.NewCatalogService(prodRepo, c)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, prodRepo, userRepo, mail, c)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc, Media: up},
		ProductHandler: &ProductHandler{Catalog: catalogSvc, Media: up},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
		AdminHandler:   &AdminHandler{Users: userSvc},
	}
}

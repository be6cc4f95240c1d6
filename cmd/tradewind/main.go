package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"tradewind/internal/cache"
	"tradewind/internal/config"
	"tradewind/internal/http/handlers"
	applog "tradewind/internal/log"
	"tradewind/internal/media"
	"tradewind/internal/notify"
	"tradewind/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Optional Redis catalog cache; nil disables it.
	var catalogCache *cache.Catalog
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewCatalog(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		log.Printf("[cache] redis at %s", cfg.RedisAddr)
	}

	// Image store: Cloudinary when configured, local disk otherwise.
	var uploader media.Uploader
	localUploads := false
	if cfg.CloudinaryURL != "" {
		uploader, err = media.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			log.Fatalf("[media] cloudinary: %v", err)
		}
	} else {
		uploader = media.LocalDisk{Dir: cfg.UploadDir}
		localUploads = true
		log.Printf("[media] storing uploads under %s", cfg.UploadDir)
	}

	// Mail: SMTP when configured, otherwise a stub whose failures the
	// best-effort senders log.
	var mailer notify.Mailer = notify.Disabled{}
	if cfg.SMTPHost != "" {
		mailer = notify.SMTP{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.MailFrom,
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": "Something went wrong. Please try again."})
		},
	})
	// Image uploads are the largest request bodies
	app.Server().MaxRequestBodySize = 8 << 20 // 8 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many requests, retry soon."})
		},
	}))

	if localUploads {
		app.Static("/uploads", cfg.UploadDir)
	}

	deps := handlers.NewDeps(db, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour,
		catalogCache, uploader, mailer)
	user := handlers.RequireUser(deps.Auth)
	admin := handlers.RequireAdmin()

	// Auth (login throttled separately)
	app.Post("/api/auth/register", deps.AuthHandler.Register)
	app.Post("/api/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)

	// Catalog
	app.Get("/api/products", deps.ProductHandler.List)
	app.Get("/api/products/:id", deps.ProductHandler.Get)
	app.Post("/api/products", user, admin, deps.ProductHandler.Create)
	app.Put("/api/products/:id", user, admin, deps.ProductHandler.Update)
	app.Delete("/api/products/:id", user, admin, deps.ProductHandler.Delete)

	// Cart
	app.Post("/api/cart/add", user, deps.CartHandler.Add)
	app.Put("/api/cart/update", user, deps.CartHandler.Update)
	app.Delete("/api/cart/remove", user, deps.CartHandler.Remove)
	app.Get("/api/cart", user, deps.CartHandler.View)
	app.Get("/api/cart/:userId", user, deps.CartHandler.ViewFor)

	// Orders
	app.Post("/api/orders", user, deps.OrderHandler.Place)
	app.Get("/api/orders", user, deps.OrderHandler.History)
	app.Put("/api/orders/:id", user, admin, deps.OrderHandler.UpdateStatus)
	app.Post("/api/order/confirm", user, deps.OrderHandler.Confirm)
	app.Post("/api/order/update-shipping", user, deps.OrderHandler.UpdateShipping)

	// Admin
	app.Get("/api/admin/orders", user, admin, deps.OrderHandler.All)
	app.Get("/api/admin/users", user, admin, deps.AdminHandler.ListUsers)
	app.Delete("/api/admin/users/:id", user, admin, deps.AdminHandler.DeleteUser)
	app.Put("/api/admin/users/:id", user, deps.AdminHandler.UpdateUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

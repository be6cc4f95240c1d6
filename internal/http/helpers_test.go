package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"tradewind/internal/http/handlers"
	"tradewind/internal/notify"
	"tradewind/internal/repos"
)

// fakeUploader stands in for the image store; it never touches disk.
type fakeUploader struct{ uploads int }

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, filename string) (string, error) {
	io.Copy(io.Discard, r)
	f.uploads++
	return "/uploads/fake-" + filename, nil
}

// newTestApp mounts the full API route table against an in-memory database,
// a fake image store and a disabled mailer.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}

	deps := handlers.NewDeps(db, "test-secret", time.Hour, nil, &fakeUploader{}, notify.Disabled{})
	user := handlers.RequireUser(deps.Auth)
	admin := handlers.RequireAdmin()

	app := fiber.New()
	app.Post("/api/auth/register", deps.AuthHandler.Register)
	app.Post("/api/auth/login", deps.AuthHandler.Login)

	app.Get("/api/products", deps.ProductHandler.List)
	app.Get("/api/products/:id", deps.ProductHandler.Get)
	app.Post("/api/products", user, admin, deps.ProductHandler.Create)
	app.Put("/api/products/:id", user, admin, deps.ProductHandler.Update)
	app.Delete("/api/products/:id", user, admin, deps.ProductHandler.Delete)

	app.Post("/api/cart/add", user, deps.CartHandler.Add)
	app.Put("/api/cart/update", user, deps.CartHandler.Update)
	app.Delete("/api/cart/remove", user, deps.CartHandler.Remove)
	app.Get("/api/cart", user, deps.CartHandler.View)
	app.Get("/api/cart/:userId", user, deps.CartHandler.ViewFor)

	app.Post("/api/orders", user, deps.OrderHandler.Place)
	app.Get("/api/orders", user, deps.OrderHandler.History)
	app.Put("/api/orders/:id", user, admin, deps.OrderHandler.UpdateStatus)
	app.Post("/api/order/confirm", user, deps.OrderHandler.Confirm)
	app.Post("/api/order/update-shipping", user, deps.OrderHandler.UpdateShipping)

	app.Get("/api/admin/orders", user, admin, deps.OrderHandler.All)
	app.Get("/api/admin/users", user, admin, deps.AdminHandler.ListUsers)
	app.Delete("/api/admin/users/:id", user, admin, deps.AdminHandler.DeleteUser)
	app.Put("/api/admin/users/:id", user, deps.AdminHandler.UpdateUser)

	return app, db
}

func jsonReq(method, path, token string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// registerReq builds the multipart registration form, including the
// mandatory profile image.
func registerReq(t *testing.T, name, email, role string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":     name,
		"email":    email,
		"password": "Passw0rd!x",
		"address":  "1 Main St",
		"phone":    "+1 555 0100",
		"role":     role,
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	fw, _ := w.CreateFormFile("profileImage", "avatar.png")
	fw.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest("POST", "/api/auth/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// signUp registers and logs a user in, returning the bearer token and id.
func signUp(t *testing.T, app *fiber.App, email, role string) (token, id string) {
	t.Helper()
	// generous timeout: register and login both run bcrypt
	resp, err := app.Test(registerReq(t, "Tester", email, role), 15000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: got %d", email, resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("POST", "/api/auth/login", "",
		map[string]string{"email": email, "password": "Passw0rd!x"}), 15000)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("login %s: no token", email)
	}
	return body.Token, body.User.ID
}

// addProduct creates a catalog entry through the admin API.
func addProduct(t *testing.T, app *fiber.App, adminToken, name, price, stock string) string {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("name", name)
	w.WriteField("price", price)
	w.WriteField("stock", stock)
	w.WriteField("category", "widgets")
	fw, _ := w.CreateFormFile("image", "p.png")
	fw.Write([]byte("png-bytes"))
	w.Close()

	req := httptest.NewRequest("POST", "/api/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: got %d", resp.StatusCode)
	}
	var body struct {
		Product struct {
			ID string `json:"id"`
		} `json:"product"`
	}
	decode(t, resp, &body)
	return body.Product.ID
}

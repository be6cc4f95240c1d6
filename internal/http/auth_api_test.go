package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradewind/internal/domain"
)

func TestRegister_HappyPathAndDuplicate(t *testing.T) {
	app, db := newTestApp(t)

	resp, err := app.Test(registerReq(t, "Alice", "alice@shop.test", domain.RoleCustomer), 15000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	if body.User.ID == "" || body.User.Email != "alice@shop.test" {
		t.Fatalf("bad register body: %+v", body)
	}

	// the hash, not the password, is what hits the database
	var hash string
	if err := db.Get(&hash, `SELECT password_hash FROM users WHERE email='alice@shop.test'`); err != nil {
		t.Fatal(err)
	}
	if hash == "Passw0rd!x" || hash == "" {
		t.Fatalf("bad stored hash: %q", hash)
	}

	resp, err = app.Test(registerReq(t, "Mallory", "alice@shop.test", domain.RoleCustomer), 15000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email: want 409, got %d", resp.StatusCode)
	}
}

func TestRegister_MissingImageRejected(t *testing.T) {
	app, _ := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": "Alice", "email": "alice@shop.test", "password": "Passw0rd!x",
		"address": "1 Main St", "phone": "+1 555 0100", "role": domain.RoleCustomer,
	} {
		w.WriteField(k, v)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/api/auth/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing profile image: want 400, got %d", resp.StatusCode)
	}
	var body struct {
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	if body.Message != "Profile image is required." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestLogin_FailureModes(t *testing.T) {
	app, _ := newTestApp(t)
	signUp(t, app, "alice@shop.test", domain.RoleCustomer)

	resp, err := app.Test(jsonReq("POST", "/api/auth/login", "",
		map[string]string{"email": "ghost@shop.test", "password": "whatever1"}), 15000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown email: want 404, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("POST", "/api/auth/login", "",
		map[string]string{"email": "alice@shop.test", "password": "wrongpass1"}), 15000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: want 401, got %d", resp.StatusCode)
	}
}

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tradewind/internal/domain"
)

func TestProtectedRoutes_RequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cart", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: want 401, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: want 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/cart", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: want 401, got %d", resp.StatusCode)
	}
}

func TestAdminRoutes_RejectCustomers(t *testing.T) {
	app, _ := newTestApp(t)
	customer, _ := signUp(t, app, "cust@shop.test", domain.RoleCustomer)
	admin, _ := signUp(t, app, "admin@shop.test", domain.RoleAdmin)

	resp, err := app.Test(jsonReq("GET", "/api/admin/users", customer, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer on admin route: want 403, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/api/admin/users", admin, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin on admin route: want 200, got %d", resp.StatusCode)
	}

	// product writes are admin-gated as well
	resp, err = app.Test(jsonReq("DELETE", "/api/products/some-id", customer, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer deleting product: want 403, got %d", resp.StatusCode)
	}
}

func TestCartOfOtherUser_OwnerOrAdminOnly(t *testing.T) {
	app, _ := newTestApp(t)
	alice, aliceID := signUp(t, app, "alice@shop.test", domain.RoleCustomer)
	bob, _ := signUp(t, app, "bob@shop.test", domain.RoleCustomer)
	admin, _ := signUp(t, app, "admin@shop.test", domain.RoleAdmin)

	// give alice a cart
	productID := addProduct(t, app, admin, "Widget", "9.99", "5")
	resp, err := app.Test(jsonReq("POST", "/api/cart/add", alice,
		map[string]any{"productId": productID, "quantity": 1}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cart add: want 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/api/cart/"+aliceID, bob, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("other customer reading cart: want 403, got %d", resp.StatusCode)
	}

	for _, token := range []string{alice, admin} {
		resp, err = app.Test(jsonReq("GET", "/api/cart/"+aliceID, token, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("owner/admin reading cart: want 200, got %d", resp.StatusCode)
		}
	}
}

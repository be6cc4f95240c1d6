package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradewind/internal/domain"
	"tradewind/internal/repos"
	"tradewind/internal/services"
)

func authSvc(t *testing.T) (*services.AuthService, *services.UserService) {
	t.Helper()
	db := memdb(t)
	users := repos.NewUserRepo(db)
	return services.NewAuthService(users, "test-secret", time.Hour), services.NewUserService(users)
}

func register(t *testing.T, svc *services.AuthService, email, role string) *domain.User {
	t.Helper()
	u, err := svc.Register(services.RegisterInput{
		Name: "Alice", Email: email, Password: "Passw0rd!x", Address: "1 Main St",
		Phone: "+1 555 0100", Role: role, ImageURL: "/uploads/a.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestRegisterLogin_RoundTrip(t *testing.T) {
	svc, _ := authSvc(t)
	u := register(t, svc, "alice@shop.test", domain.RoleCustomer)
	if u.Hash == "Passw0rd!x" {
		t.Fatal("password stored in plaintext")
	}

	got, token, err := svc.Login("alice@shop.test", "Passw0rd!x")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("bad login result: id=%s token=%q", got.ID, token)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.ID != u.ID || claims.Role != domain.RoleCustomer || claims.Email != "alice@shop.test" {
		t.Fatalf("bad claims: %+v", claims)
	}
}

func TestLogin_DistinctFailures(t *testing.T) {
	svc, _ := authSvc(t)
	register(t, svc, "alice@shop.test", domain.RoleCustomer)

	if _, _, err := svc.Login("ghost@shop.test", "whatever1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown email: want ErrNotFound, got %v", err)
	}
	if _, _, err := svc.Login("alice@shop.test", "wrongpass1"); !errors.Is(err, services.ErrBadCredentials) {
		t.Fatalf("wrong password: want ErrBadCredentials, got %v", err)
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := authSvc(t)
	register(t, svc, "alice@shop.test", domain.RoleCustomer)

	_, err := svc.Register(services.RegisterInput{
		Name: "Mallory", Email: "ALICE@shop.test", Password: "Passw0rd!x",
		Address: "2 Elm St", Phone: "+1 555 0101", Role: domain.RoleCustomer,
	})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("case-insensitive duplicate: want ErrConflict, got %v", err)
	}
}

func TestParseToken_RejectsTampering(t *testing.T) {
	svc, _ := authSvc(t)
	register(t, svc, "alice@shop.test", domain.RoleCustomer)
	_, token, err := svc.Login("alice@shop.test", "Passw0rd!x")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ParseToken(token + "x"); err == nil {
		t.Fatal("tampered token must not parse")
	}
	other := services.NewAuthService(nil, "other-secret", time.Hour)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret must not parse")
	}
}

func TestUserService_UpdateAndDelete(t *testing.T) {
	auth, users := authSvc(t)
	u := register(t, auth, "alice@shop.test", domain.RoleCustomer)
	register(t, auth, "bob@shop.test", domain.RoleCustomer)

	got, err := users.UpdateProfile(u.ID, "Alice B", "aliceb@shop.test", "+1 555 0199")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Alice B" || got.Email != "aliceb@shop.test" {
		t.Fatalf("profile not updated: %+v", got)
	}

	// claiming another account's email is a conflict
	if _, err := users.UpdateProfile(u.ID, "Alice B", "bob@shop.test", "+1 555 0199"); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	listed, err := users.List(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].Email != "bob@shop.test" {
		t.Fatalf("listing must exclude the caller: %+v", listed)
	}

	if err := users.Delete(u.ID); err != nil {
		t.Fatal(err)
	}
	if err := users.Delete(u.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestUserDelete_OrdersSurvive(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	auth := services.NewAuthService(users, "test-secret", time.Hour)
	userSvc := services.NewUserService(users)
	u := register(t, auth, "alice@shop.test", domain.RoleCustomer)
	seedProduct(t, db, "p1", 10, 5)

	osvc := orderSvc(db, &recordingMailer{})
	ov, err := osvc.Place(context.Background(), u.ID, u.Email,
		[]services.LineInput{{ProductID: "p1", Quantity: 1}}, "addr", "card")
	if err != nil {
		t.Fatal(err)
	}

	if err := userSvc.Delete(u.ID); err != nil {
		t.Fatal(err)
	}
	// the order snapshot outlives the account
	if _, err := osvc.Get(ov.ID); err != nil {
		t.Fatalf("order should survive user delete: %v", err)
	}
}

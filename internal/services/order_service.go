package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"tradewind/internal/cache"
	"tradewind/internal/domain"
	"tradewind/internal/notify"
	"tradewind/internal/repos"

	"github.com/google/uuid"
)

type OrderService struct {
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
	Users  *repos.UserRepo
	Mail   notify.Mailer
	Cache  *cache.Catalog
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo, users *repos.UserRepo, mail notify.Mailer, c *cache.Catalog) *OrderService {
	return &OrderService{Orders: orders, Prods: prods, Users: users, Mail: mail, Cache: c}
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderView is an order with its line snapshot expanded.
type OrderView struct {
	domain.Order
	Items []repos.OrderItemRow `json:"products"`
}

// Place runs the order workflow: fail-fast per-line validation against live
// stock, total accumulation from validation-time prices, then a single
// transaction persisting the Pending order with its snapshot and
// conditionally decrementing stock. A confirmation mail is attempted after
// commit; delivery failure is logged, never rolled back.
func (s *OrderService) Place(ctx context.Context, userID, email string, lines []LineInput, shipping, payment string) (OrderView, error) {
	if len(lines) == 0 {
		return OrderView{}, ErrEmptyOrder
	}
	lines = mergeLines(lines)

	total := 0.0
	items := make([]domain.OrderItem, 0, len(lines))
	for _, in := range lines {
		p, err := s.Prods.Get(in.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return OrderView{}, UnknownProduct{ProductID: in.ProductID}
			}
			return OrderView{}, err
		}
		if p.Stock < in.Quantity {
			return OrderView{}, OutOfStock{ProductID: p.ID, Name: p.Name}
		}
		total += p.Price * float64(in.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Quantity:  in.Quantity,
			Price:     p.Price,
		})
	}

	o := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Total:           total,
		Status:          domain.StatusPending,
		ShippingAddress: shipping,
		PaymentMethod:   payment,
	}
	if err := s.Orders.Place(&o, items); err != nil {
		var short repos.InsufficientStock
		if errors.As(err, &short) {
			// Lost a race with a concurrent order between validation and commit.
			return OrderView{}, OutOfStock{ProductID: short.ProductID}
		}
		return OrderView{}, err
	}
	s.Cache.Bump(ctx)

	s.sendMail(ctx, email, "Order Confirmation",
		fmt.Sprintf("Thank you for your order! Your order ID is %s. Total Amount: %.2f.", o.ID, total))

	return s.Get(o.ID)
}

// mergeLines folds repeated productIds into one line each, summing
// quantities, so the stock check sees the combined amount and the snapshot
// insert never collides on product identity. First-seen order is kept.
func mergeLines(lines []LineInput) []LineInput {
	out := make([]LineInput, 0, len(lines))
	idx := make(map[string]int, len(lines))
	for _, in := range lines {
		if i, ok := idx[in.ProductID]; ok {
			out[i].Quantity += in.Quantity
			continue
		}
		idx[in.ProductID] = len(out)
		out = append(out, in)
	}
	return out
}

// Get returns one order with its lines expanded.
func (s *OrderService) Get(orderID string) (OrderView, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderView{}, ErrNotFound
		}
		return OrderView{}, err
	}
	items, err := s.Orders.Items(orderID)
	if err != nil {
		return OrderView{}, err
	}
	return OrderView{Order: o, Items: items}, nil
}

// UpdateStatus overwrites the order status and notifies the purchaser.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (OrderView, error) {
	n, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return OrderView{}, err
	}
	if n == 0 {
		return OrderView{}, ErrNotFound
	}
	ov, err := s.Get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	if u, uerr := s.Users.ByID(ov.UserID); uerr == nil {
		s.sendMail(ctx, u.Email, "Shipping Update",
			fmt.Sprintf("Your order with ID %s has been updated to status: %s.", ov.ID, status))
	}
	return ov, nil
}

// UpdateShipping overwrites the shipping address. A notification failure is
// reported back as a warning; the update itself is never rolled back.
func (s *OrderService) UpdateShipping(ctx context.Context, orderID, address, email string) (OrderView, bool, error) {
	n, err := s.Orders.UpdateShipping(orderID, address)
	if err != nil {
		return OrderView{}, false, err
	}
	if n == 0 {
		return OrderView{}, false, ErrNotFound
	}
	ov, err := s.Get(orderID)
	if err != nil {
		return OrderView{}, false, err
	}

	mailWarn := false
	if err := s.Mail.Send(ctx, email, "Shipping Update",
		fmt.Sprintf("Your order's shipping address has been updated to: %s.", address)); err != nil {
		log.Printf("[mail] shipping update notification failed: %v", err)
		mailWarn = true
	}
	return ov, mailWarn, nil
}

// Confirm re-sends the confirmation mail for an existing order. It performs
// no state transition: the endpoint is a resend hook, not a status change.
func (s *OrderService) Confirm(ctx context.Context, orderID, email string) (OrderView, error) {
	ov, err := s.Get(orderID)
	if err != nil {
		return OrderView{}, err
	}
	s.sendMail(ctx, email, "Order Confirmation",
		fmt.Sprintf("Your order with ID %s has been confirmed. Thank you for your purchase!", ov.ID))
	return ov, nil
}

// History returns the user's orders with lines expanded. No orders is
// reported as ErrNotFound: the API contract answers 404 rather than an
// empty list.
func (s *OrderService) History(userID string) ([]OrderView, error) {
	orders, err := s.Orders.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return s.expand(orders)
}

// All returns every order, expanded. Admin listing.
func (s *OrderService) All() ([]OrderView, error) {
	orders, err := s.Orders.ListAll()
	if err != nil {
		return nil, err
	}
	return s.expand(orders)
}

func (s *OrderService) expand(orders []domain.Order) ([]OrderView, error) {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := s.Orders.Items(o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderView{Order: o, Items: items})
	}
	return out, nil
}

// sendMail is the best-effort notification path shared by order creation,
// status changes and confirmation resends.
func (s *OrderService) sendMail(ctx context.Context, to, subject, body string) {
	if err := s.Mail.Send(ctx, to, subject, body); err != nil {
		log.Printf("[mail] %s to %s failed: %v", subject, to, err)
	}
}

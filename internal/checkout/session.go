// Package checkout runs the sale flow of one operator: a cart over a catalog
// snapshot, the selected client, discount and payment method, and the
// submission that turns them into a persisted sale.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/m/domain"
	"petshop/m/internal/cart"
	"petshop/m/internal/catalog"
	"petshop/m/internal/pricing"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
)

// Recorder persists a sale header with its items. Implementations assign ids
// and timestamps on the values passed in.
type Recorder interface {
	RecordSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) error
}

// View is what the front end renders for a session.
type View struct {
	State           State          `json:"state"`
	ClientID        uuid.NullUUID  `json:"client_id"`
	PaymentMethod   string         `json:"payment_method"`
	Lines           []cart.Line    `json:"lines"`
	Totals          pricing.Totals `json:"totals"`
	CatalogLoadedAt time.Time      `json:"catalog_loaded_at"`
}

type Receipt struct {
	Sale  domain.Sale       `json:"sale"`
	Items []domain.SaleItem `json:"items"`
}

type Session struct {
	loader   *catalog.Loader
	recorder Recorder

	mu            sync.Mutex
	state         State
	cart          *cart.Cart
	clientID      uuid.UUID
	discount      decimal.Decimal
	paymentMethod string
}

// Open loads a catalog snapshot and starts an idle session on it.
func Open(ctx context.Context, loader *catalog.Loader, recorder Recorder) (*Session, error) {
	snapshot, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{
		loader:   loader,
		recorder: recorder,
		state:    StateIdle,
		cart:     cart.New(snapshot),
		discount: decimal.Zero,
	}, nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	lines := s.cart.Lines()
	return View{
		State:           s.state,
		ClientID:        uuid.NullUUID{UUID: s.clientID, Valid: s.clientID != uuid.Nil},
		PaymentMethod:   s.paymentMethod,
		Lines:           lines,
		Totals:          pricing.Calculate(lines, s.discount),
		CatalogLoadedAt: s.cart.Catalog().LoadedAt,
	}
}

// Catalog returns the snapshot the cart currently validates against.
func (s *Session) Catalog() *catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Catalog()
}

// mutate runs fn under the session lock unless a submission is in flight.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrSubmitInProgress
	}
	return fn()
}

// Refresh re-fetches the catalog and rebases the cart onto it. It returns
// the number of lines clamped or dropped because stock or items changed.
func (s *Session) Refresh(ctx context.Context) (int, error) {
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	adjusted := 0
	err = s.mutate(func() error {
		adjusted = s.cart.Rebase(snapshot)
		if _, ok := snapshot.Client(s.clientID); !ok {
			s.clientID = uuid.Nil
		}
		return nil
	})
	return adjusted, err
}

// SelectClient picks the buyer; uuid.Nil clears the selection.
func (s *Session) SelectClient(id uuid.UUID) error {
	return s.mutate(func() error {
		if id != uuid.Nil {
			if _, ok := s.cart.Catalog().Client(id); !ok {
				return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
			}
		}
		s.clientID = id
		return nil
	})
}

func (s *Session) AddProduct(id uuid.UUID) error {
	return s.mutate(func() error { return s.cart.AddProduct(id) })
}

func (s *Session) AddService(id uuid.UUID) error {
	return s.mutate(func() error { return s.cart.AddService(id) })
}

func (s *Session) RemoveLine(index int) error {
	return s.mutate(func() error {
		s.cart.RemoveLine(index)
		return nil
	})
}

func (s *Session) UpdateQuantity(index int, quantity int64) error {
	return s.mutate(func() error { return s.cart.UpdateQuantity(index, quantity) })
}

func (s *Session) UpdatePrice(index int, price decimal.Decimal) error {
	return s.mutate(func() error {
		s.cart.UpdatePrice(index, price)
		return nil
	})
}

// SetDiscount sets the flat discount. It may exceed the subtotal.
func (s *Session) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return &ValidationError{Field: "discount", Message: "discount must not be negative"}
	}
	return s.mutate(func() error {
		s.discount = discount
		return nil
	})
}

// SetPaymentMethod selects how the client pays; "" clears it.
func (s *Session) SetPaymentMethod(method string) error {
	if method != "" && !domain.OneOf(method, domain.PaymentMethods) {
		return &ValidationError{Field: "payment_method", Message: fmt.Sprintf("unknown payment method %q", method)}
	}
	return s.mutate(func() error {
		s.paymentMethod = method
		return nil
	})
}

// Reset discards the client, lines, discount and payment method.
func (s *Session) Reset() error {
	return s.mutate(func() error {
		s.resetLocked()
		return nil
	})
}

func (s *Session) resetLocked() {
	s.clientID = uuid.Nil
	s.cart.Clear()
	s.discount = decimal.Zero
	s.paymentMethod = ""
}

func (s *Session) validateLocked(employeeID uuid.UUID) error {
	switch {
	case s.clientID == uuid.Nil:
		return &ValidationError{Field: "client_id", Message: "select a client"}
	case s.cart.Len() == 0:
		return &ValidationError{Field: "lines", Message: "add at least one product or service"}
	case s.paymentMethod == "":
		return &ValidationError{Field: "payment_method", Message: "select a payment method"}
	case employeeID == uuid.Nil:
		return &ValidationError{Field: "employee_id", Message: "no employee is signed in"}
	}
	return nil
}

// Submit validates the session and records the sale. Validation failures
// return a *ValidationError before any write. A recorder failure leaves the
// session untouched so the operator can retry. On success the session is
// reset and moved onto a freshly loaded catalog.
func (s *Session) Submit(ctx context.Context, employeeID uuid.UUID) (Receipt, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return Receipt{}, ErrSubmitInProgress
	}
	s.state = StateValidating
	if err := s.validateLocked(employeeID); err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		return Receipt{}, err
	}

	lines := s.cart.Lines()
	totals := pricing.Calculate(lines, s.discount)
	sale := &domain.Sale{
		ClientID:       s.clientID,
		EmployeeID:     employeeID,
		TotalAmount:    totals.Subtotal,
		DiscountAmount: totals.Discount,
		FinalAmount:    totals.Final,
		PaymentMethod:  s.paymentMethod,
	}
	items := saleItems(lines)
	s.state = StateSubmitting
	s.mu.Unlock()

	err := s.recorder.RecordSale(ctx, sale, items)

	var snapshot *catalog.Snapshot
	if err == nil {
		var loadErr error
		if snapshot, loadErr = s.loader.Load(ctx); loadErr != nil {
			zap.L().Warn("reload catalog after sale", zap.Error(loadErr))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	if err != nil {
		return Receipt{}, fmt.Errorf("record sale: %w", err)
	}
	s.resetLocked()
	if snapshot != nil {
		s.cart.Rebase(snapshot)
	}
	return Receipt{Sale: *sale, Items: items}, nil
}

func saleItems(lines []cart.Line) []domain.SaleItem {
	items := make([]domain.SaleItem, len(lines))
	for i, l := range lines {
		item := domain.SaleItem{
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.Total(),
		}
		ref := uuid.NullUUID{UUID: l.ItemID, Valid: true}
		if l.Kind == cart.KindProduct {
			item.ProductID = ref
		} else {
			item.ServiceID = ref
		}
		items[i] = item
	}
	return items
}

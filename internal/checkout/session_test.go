package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop/m/domain"
	"petshop/m/internal/cart"
	"petshop/m/internal/catalog"
)

type memSource struct {
	mu       sync.Mutex
	clients  []domain.Client
	products []domain.Product
	services []domain.Service
	loads    int
}

func (m *memSource) ListClients(context.Context) ([]domain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return append([]domain.Client(nil), m.clients...), nil
}

func (m *memSource) ListProducts(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Product(nil), m.products...), nil
}

func (m *memSource) ListServices(context.Context) ([]domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Service(nil), m.services...), nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	sales   []domain.Sale
	items   [][]domain.SaleItem
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeRecorder) RecordSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) error {
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	sale.ID = uuid.New()
	for i := range items {
		items[i].ID = uuid.New()
		items[i].SaleID = sale.ID
	}
	f.sales = append(f.sales, *sale)
	f.items = append(f.items, items)
	return nil
}

type env struct {
	source   *memSource
	recorder *fakeRecorder
	session  *Session
	client   domain.Client
	productA domain.Product
	service  domain.Service
	employee uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		client:   domain.Client{ID: uuid.New(), FullName: "Ana Souza"},
		productA: domain.Product{ID: uuid.New(), Name: "Shampoo", SellPrice: decimal.RequireFromString("10.00"), StockQuantity: 5},
		service:  domain.Service{ID: uuid.New(), Name: "Banho", BasePrice: decimal.RequireFromString("15.00")},
		employee: uuid.New(),
		recorder: &fakeRecorder{},
	}
	e.source = &memSource{
		clients:  []domain.Client{e.client},
		products: []domain.Product{e.productA},
		services: []domain.Service{e.service},
	}
	s, err := Open(context.Background(), catalog.NewLoader(e.source), e.recorder)
	require.NoError(t, err)
	e.session = s
	return e
}

func (e *env) fill(t *testing.T) {
	t.Helper()
	require.NoError(t, e.session.SelectClient(e.client.ID))
	require.NoError(t, e.session.AddProduct(e.productA.ID))
	require.NoError(t, e.session.AddProduct(e.productA.ID))
	require.NoError(t, e.session.AddService(e.service.ID))
	require.NoError(t, e.session.SetDiscount(decimal.RequireFromString("5.00")))
	require.NoError(t, e.session.SetPaymentMethod("pix"))
}

func TestViewTotals(t *testing.T) {
	e := newEnv(t)
	e.fill(t)

	v := e.session.View()

	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, e.client.ID, v.ClientID.UUID)
	assert.Len(t, v.Lines, 2)
	assert.Equal(t, "35.00", v.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "30.00", v.Totals.Final.StringFixed(2))
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, e *env)
		field string
	}{
		{"no client", func(t *testing.T, e *env) {
			require.NoError(t, e.session.SelectClient(uuid.Nil))
		}, "client_id"},
		{"no lines", func(t *testing.T, e *env) {
			require.NoError(t, e.session.RemoveLine(1))
			require.NoError(t, e.session.RemoveLine(0))
		}, "lines"},
		{"no payment method", func(t *testing.T, e *env) {
			require.NoError(t, e.session.SetPaymentMethod(""))
		}, "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.fill(t)
			tt.setup(t, e)
			before := e.session.View()

			_, err := e.session.Submit(context.Background(), e.employee)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, e.recorder.sales, "no backend write on validation failure")
			assert.Equal(t, before, e.session.View())
			assert.Equal(t, "validation", Outcome(err))
		})
	}
}

func TestSubmitSuccessResets(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	loadsBefore := e.source.loads

	receipt, err := e.session.Submit(context.Background(), e.employee)
	require.NoError(t, err)

	require.Len(t, e.recorder.sales, 1)
	sale := e.recorder.sales[0]
	assert.Equal(t, e.client.ID, sale.ClientID)
	assert.Equal(t, e.employee, sale.EmployeeID)
	assert.Equal(t, "35.00", sale.TotalAmount.StringFixed(2))
	assert.Equal(t, "5.00", sale.DiscountAmount.StringFixed(2))
	assert.Equal(t, "30.00", sale.FinalAmount.StringFixed(2))
	assert.Equal(t, "pix", sale.PaymentMethod)

	items := e.recorder.items[0]
	require.Len(t, items, 2)
	assert.Equal(t, uuid.NullUUID{UUID: e.productA.ID, Valid: true}, items[0].ProductID)
	assert.False(t, items[0].ServiceID.Valid)
	assert.EqualValues(t, 2, items[0].Quantity)
	assert.Equal(t, "20.00", items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, uuid.NullUUID{UUID: e.service.ID, Valid: true}, items[1].ServiceID)
	assert.False(t, items[1].ProductID.Valid)

	assert.Equal(t, sale.ID, receipt.Sale.ID)
	assert.Len(t, receipt.Items, 2)

	v := e.session.View()
	assert.False(t, v.ClientID.Valid)
	assert.Empty(t, v.Lines)
	assert.True(t, v.Totals.Discount.IsZero())
	assert.Empty(t, v.PaymentMethod)
	assert.Equal(t, loadsBefore+1, e.source.loads, "catalog reloaded after the sale")
}

func TestSubmitBackendFailureKeepsCart(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	e.recorder.err = errors.New("connection reset")
	before := e.session.View()

	_, err := e.session.Submit(context.Background(), e.employee)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "error", Outcome(err))
	assert.Equal(t, before, e.session.View())
}

func TestSubmitStockFailureIsClassified(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	e.recorder.err = fmt.Errorf("%w: product gone", domain.ErrInsufficientStock)

	_, err := e.session.Submit(context.Background(), e.employee)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "stock", Outcome(err))
}

func TestSubmitMissingClientIsClassified(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	e.recorder.err = fmt.Errorf("client %s: %w", e.client.ID, domain.ErrNotFound)
	before := e.session.View()

	_, err := e.session.Submit(context.Background(), e.employee)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "missing", Outcome(err))
	assert.Equal(t, before, e.session.View())
}

func TestSubmitRequiresEmployee(t *testing.T) {
	e := newEnv(t)
	e.fill(t)

	_, err := e.session.Submit(context.Background(), uuid.Nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "employee_id", verr.Field)
}

func TestNoOverlappingSubmissions(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	e.recorder.started = make(chan struct{})
	e.recorder.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := e.session.Submit(context.Background(), e.employee)
		done <- err
	}()
	<-e.recorder.started

	assert.Equal(t, StateSubmitting, e.session.View().State)
	_, err := e.session.Submit(context.Background(), e.employee)
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, e.session.AddService(e.service.ID), ErrSubmitInProgress)
	assert.ErrorIs(t, e.session.Reset(), ErrSubmitInProgress)

	close(e.recorder.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, e.session.View().State)
	assert.Len(t, e.recorder.sales, 1)
}

func TestSelectClientMustExist(t *testing.T) {
	e := newEnv(t)

	assert.ErrorIs(t, e.session.SelectClient(uuid.New()), domain.ErrNotFound)
	assert.False(t, e.session.View().ClientID.Valid)
}

func TestSetDiscountAndPaymentValidation(t *testing.T) {
	e := newEnv(t)

	var verr *ValidationError
	assert.ErrorAs(t, e.session.SetDiscount(decimal.RequireFromString("-1")), &verr)
	assert.ErrorAs(t, e.session.SetPaymentMethod("cheque"), &verr)
	for _, m := range domain.PaymentMethods {
		assert.NoError(t, e.session.SetPaymentMethod(m))
	}
}

func TestRefreshRebasesCart(t *testing.T) {
	e := newEnv(t)
	e.fill(t)
	require.NoError(t, e.session.UpdateQuantity(0, 5))

	e.source.mu.Lock()
	e.source.products[0].StockQuantity = 3
	e.source.mu.Unlock()

	adjusted, err := e.session.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, adjusted)
	lines := e.session.View().Lines
	assert.Equal(t, cart.KindProduct, lines[0].Kind)
	assert.EqualValues(t, 3, lines[0].Quantity)
	p, _ := e.session.Catalog().Product(e.productA.ID)
	assert.EqualValues(t, 3, p.StockQuantity)
}

func TestRegistryKeepsOneSessionPerEmployee(t *testing.T) {
	e := newEnv(t)
	r := NewRegistry(catalog.NewLoader(e.source), e.recorder)
	alice, bob := uuid.New(), uuid.New()

	s1, err := r.Session(context.Background(), alice)
	require.NoError(t, err)
	s2, err := r.Session(context.Background(), alice)
	require.NoError(t, err)
	s3, err := r.Session(context.Background(), bob)
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.NotSame(t, s1, s3)

	r.Discard(alice)
	s4, err := r.Session(context.Background(), alice)
	require.NoError(t, err)
	assert.NotSame(t, s1, s4)
}

// gatedSource blocks its first catalog load until release is closed.
type gatedSource struct {
	*memSource
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedSource) ListClients(ctx context.Context) ([]domain.Client, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.memSource.ListClients(ctx)
}

func TestRegistryOpensSessionsConcurrently(t *testing.T) {
	e := newEnv(t)
	src := &gatedSource{memSource: e.source, entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRegistry(catalog.NewLoader(src), e.recorder)
	alice, bob := uuid.New(), uuid.New()

	opened := make(chan *Session, 1)
	go func() {
		s, err := r.Session(context.Background(), alice)
		assert.NoError(t, err)
		opened <- s
	}()
	<-src.entered

	// Alice's catalog load is still in flight.
	sb, err := r.Session(context.Background(), bob)
	require.NoError(t, err)

	close(src.release)
	sa := <-opened
	assert.NotSame(t, sa, sb)

	again, err := r.Session(context.Background(), alice)
	require.NoError(t, err)
	assert.Same(t, sa, again)
}

func TestRegistryFirstUseRaceYieldsOneSession(t *testing.T) {
	e := newEnv(t)
	r := NewRegistry(catalog.NewLoader(e.source), e.recorder)
	employee := uuid.New()

	const workers = 8
	sessions := make([]*Session, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Session(context.Background(), employee)
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions[1:] {
		assert.Same(t, sessions[0], s)
	}
}

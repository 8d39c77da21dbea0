package cart

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop/m/domain"
	"petshop/m/internal/catalog"
)

type fixture struct {
	snapshot *catalog.Snapshot
	productA domain.Product
	productB domain.Product
	soldOut  domain.Product
	service  domain.Service
}

func newFixture() fixture {
	f := fixture{
		productA: domain.Product{ID: uuid.New(), Name: "Shampoo", SellPrice: decimal.RequireFromString("10.00"), StockQuantity: 5},
		productB: domain.Product{ID: uuid.New(), Name: "Coleira", SellPrice: decimal.RequireFromString("5.00"), StockQuantity: 1},
		soldOut:  domain.Product{ID: uuid.New(), Name: "Ração", SellPrice: decimal.RequireFromString("80.00"), StockQuantity: 0},
		service:  domain.Service{ID: uuid.New(), Name: "Banho", ServiceType: "banho", BasePrice: decimal.RequireFromString("15.00")},
	}
	f.snapshot = catalog.NewSnapshot(nil,
		[]domain.Product{f.productA, f.productB, f.soldOut},
		[]domain.Service{f.service})
	return f
}

func TestAddProductMergesLines(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)

	require.NoError(t, c.AddProduct(f.productA.ID))
	require.NoError(t, c.AddProduct(f.productA.ID))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, KindProduct, lines[0].Kind)
	assert.EqualValues(t, 2, lines[0].Quantity)
	assert.Equal(t, "20.00", lines[0].Total().StringFixed(2))
}

func TestAddProductBeyondStock(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)

	require.NoError(t, c.AddProduct(f.productB.ID))
	err := c.AddProduct(f.productB.ID)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, c.Lines(), 1)
	assert.EqualValues(t, 1, c.Lines()[0].Quantity)
}

func TestAddProductOutOfStock(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)

	err := c.AddProduct(f.soldOut.ID)

	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Zero(t, c.Len())
}

func TestAddUnknownItemsLeaveCartUnchanged(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddService(f.service.ID))
	before := c.Lines()

	assert.ErrorIs(t, c.AddProduct(uuid.New()), domain.ErrNotFound)
	assert.ErrorIs(t, c.AddService(uuid.New()), domain.ErrNotFound)
	assert.Equal(t, before, c.Lines())
}

func TestAddServiceNeverMerges(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)

	require.NoError(t, c.AddService(f.service.ID))
	require.NoError(t, c.AddService(f.service.ID))

	lines := c.Lines()
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, KindService, l.Kind)
		assert.EqualValues(t, 1, l.Quantity)
		assert.True(t, l.UnitPrice.Equal(f.service.BasePrice))
	}
}

func TestRemoveLine(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))
	require.NoError(t, c.AddService(f.service.ID))

	c.RemoveLine(5)
	c.RemoveLine(-1)
	assert.Equal(t, 2, c.Len())

	c.RemoveLine(0)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, KindService, c.Lines()[0].Kind)
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))
	require.NoError(t, c.AddService(f.service.ID))

	require.NoError(t, c.UpdateQuantity(0, 5))
	assert.EqualValues(t, 5, c.Lines()[0].Quantity)

	err := c.UpdateQuantity(0, 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 5, c.Lines()[0].Quantity)

	require.NoError(t, c.UpdateQuantity(1, 40))
	assert.EqualValues(t, 40, c.Lines()[1].Quantity, "services carry no stock ceiling")
}

func TestUpdateQuantityIgnoresNonPositive(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))
	before := c.Lines()

	for _, q := range []int64{0, -3} {
		require.NoError(t, c.UpdateQuantity(0, q))
	}
	require.NoError(t, c.UpdateQuantity(7, 2))
	assert.Equal(t, before, c.Lines())
}

func TestUpdatePrice(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))
	before := c.Lines()

	c.UpdatePrice(0, decimal.RequireFromString("-0.01"))
	c.UpdatePrice(3, decimal.RequireFromString("1.00"))
	assert.Equal(t, before, c.Lines())

	c.UpdatePrice(0, decimal.RequireFromString("7.50"))
	assert.Equal(t, "7.50", c.Lines()[0].UnitPrice.StringFixed(2))

	c.UpdatePrice(0, decimal.Zero)
	assert.True(t, c.Lines()[0].UnitPrice.IsZero())
}

func TestRebaseClampsAndDrops(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))
	require.NoError(t, c.UpdateQuantity(0, 4))
	require.NoError(t, c.AddProduct(f.productB.ID))
	require.NoError(t, c.AddService(f.service.ID))

	a := f.productA
	a.StockQuantity = 2
	b := f.productB
	b.StockQuantity = 0
	adjusted := c.Rebase(catalog.NewSnapshot(nil, []domain.Product{a, b}, []domain.Service{f.service}))

	assert.Equal(t, 2, adjusted)
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, a.ID, lines[0].ItemID)
	assert.EqualValues(t, 2, lines[0].Quantity)
	assert.Equal(t, KindService, lines[1].Kind)
}

func TestLinesReturnsCopy(t *testing.T) {
	f := newFixture()
	c := New(f.snapshot)
	require.NoError(t, c.AddProduct(f.productA.ID))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.EqualValues(t, 1, c.Lines()[0].Quantity)
}

func TestProductLinesStayWithinStock(t *testing.T) {
	f := newFixture()
	products := []domain.Product{f.productA, f.productB, f.soldOut}
	stock := map[uuid.UUID]int64{}
	for _, p := range products {
		stock[p.ID] = p.StockQuantity
	}
	c := New(f.snapshot)
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 2000; step++ {
		switch rng.Intn(5) {
		case 0:
			_ = c.AddProduct(products[rng.Intn(len(products))].ID)
		case 1:
			_ = c.AddService(f.service.ID)
		case 2:
			c.RemoveLine(rng.Intn(c.Len() + 1))
		case 3:
			_ = c.UpdateQuantity(rng.Intn(c.Len()+1), int64(rng.Intn(9)-2))
		case 4:
			c.UpdatePrice(rng.Intn(c.Len()+1), decimal.NewFromInt(int64(rng.Intn(30)-5)))
		}

		seen := map[uuid.UUID]bool{}
		for _, l := range c.Lines() {
			assert.False(t, l.UnitPrice.IsNegative())
			if l.Kind != KindProduct {
				continue
			}
			assert.False(t, seen[l.ItemID], "product lines are merged")
			seen[l.ItemID] = true
			assert.GreaterOrEqual(t, l.Quantity, int64(1))
			assert.LessOrEqual(t, l.Quantity, stock[l.ItemID])
		}
	}
}

// Package cart holds the line items of an in-progress sale.
//
// Product lines are bounded by the stock recorded in the catalog snapshot the
// cart was built from: at every observable point each product line satisfies
// 1 <= Quantity <= StockQuantity. Service lines carry no stock bound and are
// never merged.
package cart

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"petshop/m/domain"
	"petshop/m/internal/catalog"
)

type Kind string

const (
	KindProduct Kind = "product"
	KindService Kind = "service"
)

type Line struct {
	Kind      Kind            `json:"kind"`
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Total is UnitPrice × Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

type Cart struct {
	catalog *catalog.Snapshot
	lines   []Line
}

func New(snapshot *catalog.Snapshot) *Cart {
	if snapshot == nil {
		snapshot = catalog.NewSnapshot(nil, nil, nil)
	}
	return &Cart{catalog: snapshot}
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Catalog() *catalog.Snapshot { return c.catalog }

// AddProduct adds one unit of a product, merging into an existing line for
// the same product. It fails with domain.ErrOutOfStock when a new line would
// start with no stock and with domain.ErrInsufficientStock when the merged
// quantity would exceed stock; the cart is unchanged in both cases.
func (c *Cart) AddProduct(id uuid.UUID) error {
	p, ok := c.catalog.Product(id)
	if !ok {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	for i := range c.lines {
		line := &c.lines[i]
		if line.Kind != KindProduct || line.ItemID != id {
			continue
		}
		if line.Quantity+1 > p.StockQuantity {
			return insufficient(p)
		}
		line.Quantity++
		return nil
	}

	if p.StockQuantity <= 0 {
		return fmt.Errorf("%w: %s", domain.ErrOutOfStock, p.Name)
	}
	c.lines = append(c.lines, Line{
		Kind:      KindProduct,
		ItemID:    p.ID,
		Name:      p.Name,
		Quantity:  1,
		UnitPrice: p.SellPrice,
	})
	return nil
}

// AddService always appends a new line at the service's base price.
func (c *Cart) AddService(id uuid.UUID) error {
	svc, ok := c.catalog.Service(id)
	if !ok {
		return fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
	}
	c.lines = append(c.lines, Line{
		Kind:      KindService,
		ItemID:    svc.ID,
		Name:      svc.Name,
		Quantity:  1,
		UnitPrice: svc.BasePrice,
	})
	return nil
}

// RemoveLine drops the line at index; out of range indexes are ignored.
func (c *Cart) RemoveLine(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

// UpdateQuantity sets a line's quantity. Non-positive quantities and out of
// range indexes are ignored. A product line rejects quantities above stock
// with domain.ErrInsufficientStock.
func (c *Cart) UpdateQuantity(index int, quantity int64) error {
	if quantity <= 0 || index < 0 || index >= len(c.lines) {
		return nil
	}
	line := &c.lines[index]
	if line.Kind == KindProduct {
		p, _ := c.catalog.Product(line.ItemID)
		if quantity > p.StockQuantity {
			if p.ID == uuid.Nil {
				p.Name = line.Name
			}
			return insufficient(p)
		}
	}
	line.Quantity = quantity
	return nil
}

// UpdatePrice overrides a line's unit price. Negative prices and out of range
// indexes are ignored.
func (c *Cart) UpdatePrice(index int, price decimal.Decimal) {
	if price.IsNegative() || index < 0 || index >= len(c.lines) {
		return
	}
	c.lines[index].UnitPrice = price
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Rebase moves the cart onto a newer snapshot. Product lines are clamped to
// the new stock and dropped when the product is gone or sold out; service
// lines are dropped when the service is gone. It returns how many lines were
// clamped or dropped.
func (c *Cart) Rebase(snapshot *catalog.Snapshot) int {
	c.catalog = snapshot
	adjusted := 0
	kept := c.lines[:0]
	for _, line := range c.lines {
		switch line.Kind {
		case KindProduct:
			p, ok := snapshot.Product(line.ItemID)
			if !ok || p.StockQuantity <= 0 {
				adjusted++
				continue
			}
			if line.Quantity > p.StockQuantity {
				line.Quantity = p.StockQuantity
				adjusted++
			}
		case KindService:
			if _, ok := snapshot.Service(line.ItemID); !ok {
				adjusted++
				continue
			}
		}
		kept = append(kept, line)
	}
	c.lines = kept
	return adjusted
}

func insufficient(p domain.Product) error {
	return fmt.Errorf("%w: only %d units of %s in stock", domain.ErrInsufficientStock, p.StockQuantity, p.Name)
}

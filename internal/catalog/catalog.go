// Package catalog loads the read-only view of clients, products and services
// a checkout session works against.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petshop/m/domain"
)

// Source is the backend the catalog is read from.
type Source interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListServices(ctx context.Context) ([]domain.Service, error)
}

// Snapshot is an immutable copy of the catalog at LoadedAt. Stock levels in
// it are not refreshed; callers re-load to observe newer values.
type Snapshot struct {
	Clients  []domain.Client
	Products []domain.Product
	Services []domain.Service
	LoadedAt time.Time

	clientIdx  map[uuid.UUID]int
	productIdx map[uuid.UUID]int
	serviceIdx map[uuid.UUID]int
}

func NewSnapshot(clients []domain.Client, products []domain.Product, services []domain.Service) *Snapshot {
	s := &Snapshot{
		Clients:    clients,
		Products:   products,
		Services:   services,
		LoadedAt:   time.Now(),
		clientIdx:  make(map[uuid.UUID]int, len(clients)),
		productIdx: make(map[uuid.UUID]int, len(products)),
		serviceIdx: make(map[uuid.UUID]int, len(services)),
	}
	for i, c := range clients {
		s.clientIdx[c.ID] = i
	}
	for i, p := range products {
		s.productIdx[p.ID] = i
	}
	for i, svc := range services {
		s.serviceIdx[svc.ID] = i
	}
	return s
}

func (s *Snapshot) Client(id uuid.UUID) (domain.Client, bool) {
	i, ok := s.clientIdx[id]
	if !ok {
		return domain.Client{}, false
	}
	return s.Clients[i], true
}

func (s *Snapshot) Product(id uuid.UUID) (domain.Product, bool) {
	i, ok := s.productIdx[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.Products[i], true
}

func (s *Snapshot) Service(id uuid.UUID) (domain.Service, bool) {
	i, ok := s.serviceIdx[id]
	if !ok {
		return domain.Service{}, false
	}
	return s.Services[i], true
}

// Sellable returns the products that can still be added to a cart.
func (s *Snapshot) Sellable() []domain.Product {
	out := make([]domain.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if p.StockQuantity > 0 {
			out = append(out, p)
		}
	}
	return out
}

type Loader struct {
	source Source
}

func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Load fetches a fresh snapshot. Any failing list aborts the load.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	clients, err := l.source.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	products, err := l.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	services, err := l.source.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	return NewSnapshot(clients, products, services), nil
}

package store

import (
	"context"

	"petshop/m/domain"
)

// ListClients returns every client ordered by name. Together with
// ListProducts and ListServices it feeds the checkout catalog snapshot.
func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.SearchClients(ctx, "")
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.SearchProducts(ctx, ProductFilter{})
}

func (s *Store) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.SearchServices(ctx, ServiceFilter{})
}

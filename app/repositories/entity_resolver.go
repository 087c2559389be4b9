package repositories

import (
	"context"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
)

// ResolveFunc loads the entity behind a reference of one kind.
type ResolveFunc func(ctx context.Context, id string) (interface{}, error)

// EntityResolver resolves polymorphic EntityRef values through a
// per-kind lookup registry.
type EntityResolver struct {
	resolvers map[models.EntityKind]ResolveFunc
}

func NewEntityResolver() *EntityResolver {
	return &EntityResolver{resolvers: make(map[models.EntityKind]ResolveFunc)}
}

func (r *EntityResolver) Register(kind models.EntityKind, fn ResolveFunc) {
	r.resolvers[kind] = fn
}

func (r *EntityResolver) Resolve(ctx context.Context, ref models.EntityRef) (interface{}, error) {
	fn, ok := r.resolvers[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("no resolver registered for entity kind %q", ref.Kind)
	}
	return fn(ctx, ref.ID)
}

// DefaultEntityResolver wires the three referencable kinds.
func DefaultEntityResolver(services ServiceRepositoryImpl, projects ProjectRepositoryImpl, orders OrderRepository) *EntityResolver {
	resolver := NewEntityResolver()
	resolver.Register(models.EntityKindService, func(ctx context.Context, id string) (interface{}, error) {
		return services.GetByID(ctx, id)
	})
	resolver.Register(models.EntityKindProject, func(ctx context.Context, id string) (interface{}, error) {
		return projects.GetByID(ctx, id)
	})
	resolver.Register(models.EntityKindOrder, func(ctx context.Context, id string) (interface{}, error) {
		return orders.GetByID(ctx, id)
	})
	return resolver
}

package rules

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merchkit/pricing-api/internal/pricing"
)

// Store provides the active discount rules used for resolution. Rules are
// owned and mutated elsewhere; pricing treats them as read-only input.
type Store interface {
	ActiveRules(ctx context.Context) ([]pricing.Rule, error)
}

const activeRulesSQL = `
SELECT id, name, kind, magnitude, COALESCE(product_ids, '{}')
FROM discount_rules
WHERE active
ORDER BY id`

// PGStore loads discount rules from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// ActiveRules returns every active rule ordered by id.
func (s PGStore) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	if s.Pool == nil {
		return nil, errors.New("rule store not configured")
	}
	rows, err := s.Pool.Query(ctx, activeRulesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.Rule
	for rows.Next() {
		var r pricing.Rule
		var kind string
		if err := rows.Scan(&r.ID, &r.Name, &kind, &r.Magnitude, &r.ProductIDs); err != nil {
			return nil, err
		}
		r.Kind = pricing.Kind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CachedStore reads rules through the snapshot cache, falling back to the
// underlying store on a miss and repopulating the cache best-effort.
type CachedStore struct {
	Inner Store
	Cache *Cache
}

// ActiveRules implements Store.
func (s CachedStore) ActiveRules(ctx context.Context) ([]pricing.Rule, error) {
	if s.Cache != nil {
		if cached, ok, err := s.Cache.GetRules(ctx); err == nil && ok {
			return cached, nil
		}
	}
	if s.Inner == nil {
		return nil, errors.New("rule store not configured")
	}
	fresh, err := s.Inner.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = s.Cache.SetRules(ctx, fresh)
	}
	return fresh, nil
}

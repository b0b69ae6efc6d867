package store

import (
	"context"
	"fmt"
)

// Product is a catalog entry used to complete line rows whose source file
// only carries an EAN and a quantity.
type Product struct {
	ID           int64   `json:"id"`
	ClientID     int64   `json:"client_id"`
	EAN          string  `json:"ean"`
	Description  string  `json:"description"`
	InternalCode string  `json:"internal_code"`
	UnitsPerPack int     `json:"units_per_pack"`
	UnitPrice    float64 `json:"unit_price"`
	Active       bool    `json:"active"`
}

func (s *Store) ListProducts(ctx context.Context, clientID int64) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, ean, description, internal_code, units_per_pack, unit_price, active
		FROM products WHERE client_id = ? ORDER BY ean`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ClientID, &p.EAN, &p.Description,
			&p.InternalCode, &p.UnitsPerPack, &p.UnitPrice, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ProductsByEAN returns the active catalog for a client keyed by EAN, for
// O(1) lookups while completing line rows.
func (s *Store) ProductsByEAN(ctx context.Context, clientID int64) (map[string]Product, error) {
	products, err := s.ListProducts(ctx, clientID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Product, len(products))
	for _, p := range products {
		if p.Active {
			m[p.EAN] = p
		}
	}
	return m, nil
}

func (s *Store) UpsertProduct(ctx context.Context, p *Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (client_id, ean, description, internal_code, units_per_pack, unit_price, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id, ean) DO UPDATE SET
			description = excluded.description,
			internal_code = excluded.internal_code,
			units_per_pack = excluded.units_per_pack,
			unit_price = excluded.unit_price,
			active = excluded.active`,
		p.ClientID, p.EAN, p.Description, p.InternalCode, p.UnitsPerPack, p.UnitPrice, p.Active)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, clientID int64, ean string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM products WHERE client_id = ? AND ean = ?`, clientID, ean)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", ean, ErrNotFound)
	}
	return nil
}

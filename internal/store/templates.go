package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frescosur/conversor/internal/layout"
)

// ResolveTemplate loads the layout stored for a client, falling back to the
// built-in layout when the client has none. Satisfies engine.TemplateSource.
func (s *Store) ResolveTemplate(ctx context.Context, clientID int64) (*layout.Template, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT layout FROM clients WHERE id = ?`, clientID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", clientID, layout.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query layout: %w", err)
	}

	if raw == "" {
		tpl := layout.Default()
		tpl.ClientID = clientID
		return tpl, nil
	}

	tpl, err := layout.ParseJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("client %d layout: %w", clientID, err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("client %d layout: %w", clientID, err)
	}
	tpl.ClientID = clientID
	return tpl, nil
}

// SetClientLayout validates and stores a layout as the client's active one.
func (s *Store) SetClientLayout(ctx context.Context, clientID int64, tpl *layout.Template) error {
	if err := tpl.Validate(); err != nil {
		return err
	}
	raw, err := layout.EncodeJSON(tpl)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET layout = ? WHERE id = ?`, string(raw), clientID)
	if err != nil {
		return fmt.Errorf("store layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", clientID, ErrNotFound)
	}
	return nil
}

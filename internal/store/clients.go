package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Client holds the per-customer identity block that fills the head record,
// plus the date offsets used when the source file omits explicit dates.
type Client struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"display_name"`
	Address            string `json:"address"`
	GLNClient          string `json:"gln_client"`
	GLNDestination     string `json:"gln_destination"`
	GLNAlternate       string `json:"gln_alternate"`
	ClientCode         string `json:"client_code"`
	ExtraCode          string `json:"extra_code"`
	IssueOffsetDays    int    `json:"issue_offset_days"`
	DeliveryOffsetDays int    `json:"delivery_offset_days"`
	DueOffsetDays      int    `json:"due_offset_days"`
}

const clientColumns = `id, name, display_name, address, gln_client, gln_destination,
	gln_alternate, client_code, extra_code, issue_offset_days, delivery_offset_days, due_offset_days`

func scanClient(row interface{ Scan(...any) error }) (*Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.DisplayName, &c.Address,
		&c.GLNClient, &c.GLNDestination, &c.GLNAlternate,
		&c.ClientCode, &c.ExtraCode,
		&c.IssueOffsetDays, &c.DeliveryOffsetDays, &c.DueOffsetDays)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ClientByID(ctx context.Context, id int64) (*Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query client: %w", err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

func (s *Store) CreateClient(ctx context.Context, c *Client) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (
			name, display_name, address, gln_client, gln_destination,
			gln_alternate, client_code, extra_code,
			issue_offset_days, delivery_offset_days, due_offset_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.DisplayName, c.Address, c.GLNClient, c.GLNDestination,
		c.GLNAlternate, c.ClientCode, c.ExtraCode,
		c.IssueOffsetDays, c.DeliveryOffsetDays, c.DueOffsetDays)
	if err != nil {
		return 0, fmt.Errorf("create client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create client id: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *Client) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients SET
			name = ?, display_name = ?, address = ?, gln_client = ?,
			gln_destination = ?, gln_alternate = ?, client_code = ?, extra_code = ?,
			issue_offset_days = ?, delivery_offset_days = ?, due_offset_days = ?
		WHERE id = ?`,
		c.Name, c.DisplayName, c.Address, c.GLNClient, c.GLNDestination,
		c.GLNAlternate, c.ClientCode, c.ExtraCode,
		c.IssueOffsetDays, c.DeliveryOffsetDays, c.DueOffsetDays, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return nil
}

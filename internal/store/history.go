package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conversion records one completed upload for the history view.
type Conversion struct {
	ID           string    `json:"id"`
	ClientID     int64     `json:"client_id"`
	Username     string    `json:"username"`
	InputFile    string    `json:"input_file"`
	OutputFiles  []string  `json:"output_files"`
	Accepted     int       `json:"accepted"`
	Skipped      int       `json:"skipped"`
	WarningCount int       `json:"warning_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Store) RecordConversion(ctx context.Context, c *Conversion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	outputs, err := json.Marshal(c.OutputFiles)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversions (id, client_id, username, input_file, output_files,
			accepted, skipped, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ClientID, c.Username, c.InputFile, string(outputs),
		c.Accepted, c.Skipped, c.WarningCount,
		c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record conversion: %w", err)
	}
	return nil
}

func (s *Store) ListConversions(ctx context.Context, clientID int64, limit int) ([]Conversion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, username, input_file, output_files,
			accepted, skipped, warning_count, created_at
		FROM conversions WHERE client_id = ?
		ORDER BY created_at DESC LIMIT ?`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var conversions []Conversion
	for rows.Next() {
		var (
			c       Conversion
			outputs string
			created string
		)
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Username, &c.InputFile, &outputs,
			&c.Accepted, &c.Skipped, &c.WarningCount, &created); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		if err := json.Unmarshal([]byte(outputs), &c.OutputFiles); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			c.CreatedAt = t
		}
		conversions = append(conversions, c)
	}
	return conversions, rows.Err()
}

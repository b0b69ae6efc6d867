// Package service orchestrates one upload end to end: parse the file,
// complete rows from the product catalog, split by purchase order, run the
// conversion for each order and persist the output files.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/frescosur/conversor/internal/engine"
	"github.com/frescosur/conversor/internal/layout"
	"github.com/frescosur/conversor/internal/reader"
	"github.com/frescosur/conversor/internal/store"
	"github.com/frescosur/conversor/internal/writer"
)

// noOrderGroup labels rows whose order column is empty so they still land
// in an output file instead of being dropped.
const noOrderGroup = "NO_PO"

type Service struct {
	store   *store.Store
	engine  *engine.Engine
	writer  *writer.Writer
	logger  *slog.Logger
	maxSize int64
	now     func() time.Time
}

func New(st *store.Store, out *writer.Writer, logger *slog.Logger, maxSize int64) *Service {
	return &Service{
		store:   st,
		engine:  engine.New(st),
		writer:  out,
		logger:  logger,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// FileResult describes one generated output file.
type FileResult struct {
	Order    string           `json:"order"`
	Filename string           `json:"filename"`
	Accepted int              `json:"accepted"`
	Skipped  int              `json:"skipped"`
	Warnings []engine.Warning `json:"warnings,omitempty"`
}

// BatchResult aggregates a whole upload, which may fan out into several
// output files when the source mixes purchase orders.
type BatchResult struct {
	ConversionID string       `json:"conversion_id"`
	Files        []FileResult `json:"files"`
	Accepted     int          `json:"accepted"`
	Skipped      int          `json:"skipped"`
	WarningCount int          `json:"warning_count"`
}

// ConvertUpload runs the full pipeline for one uploaded file.
func (s *Service) ConvertUpload(ctx context.Context, clientID int64, username, filename string, data []byte) (*BatchResult, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("file too large: %d bytes (limit %d)", len(data), s.maxSize)
	}

	client, err := s.store.ClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	table, err := reader.Read(filename, data)
	if err != nil {
		return nil, err
	}
	table = reader.Canonicalize(table)

	catalog, err := s.store.ProductsByEAN(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rows := completeRows(table.Rows, catalog)

	batch := &BatchResult{}
	for _, group := range groupByOrder(rows) {
		head := s.headContext(client, group)

		result, err := s.engine.Convert(ctx, engine.Request{
			ClientID: clientID,
			Head:     head,
			Rows:     group.rows,
		})
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", group.order, err)
		}

		name, err := s.writer.Write(result.Lines, group.order,
			client.GLNClient, client.GLNDestination, client.ExtraCode)
		if err != nil {
			return nil, err
		}

		batch.Files = append(batch.Files, FileResult{
			Order:    group.order,
			Filename: name,
			Accepted: result.Accepted,
			Skipped:  result.Skipped,
			Warnings: result.Warnings,
		})
		batch.Accepted += result.Accepted
		batch.Skipped += result.Skipped
		batch.WarningCount += len(result.Warnings)

		s.logger.InfoContext(ctx, "order converted",
			slog.String("order", group.order),
			slog.String("file", name),
			slog.Int("accepted", result.Accepted),
			slog.Int("skipped", result.Skipped),
			slog.Int("warnings", len(result.Warnings)))
	}

	record := &store.Conversion{
		ClientID:     clientID,
		Username:     username,
		InputFile:    filename,
		OutputFiles:  outputNames(batch.Files),
		Accepted:     batch.Accepted,
		Skipped:      batch.Skipped,
		WarningCount: batch.WarningCount,
	}
	if err := s.store.RecordConversion(ctx, record); err != nil {
		return nil, err
	}
	batch.ConversionID = record.ID

	return batch, nil
}

func outputNames(files []FileResult) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names
}

// orderGroup is one run of consecutive rows sharing a purchase order.
type orderGroup struct {
	order string
	rows  []engine.RawRow
}

// groupByOrder splits rows into consecutive runs by the order column,
// preserving the input order inside each run. The same order number
// appearing again later starts a new run, matching how mixed exports are
// usually laid out.
func groupByOrder(rows []engine.RawRow) []orderGroup {
	var groups []orderGroup
	for _, row := range rows {
		order := strings.TrimSpace(row[layout.ColOrder])
		if order == "" {
			order = noOrderGroup
		}
		if n := len(groups); n > 0 && groups[n-1].order == order {
			groups[n-1].rows = append(groups[n-1].rows, row)
			continue
		}
		groups = append(groups, orderGroup{order: order, rows: []engine.RawRow{row}})
	}
	return groups
}

// completeRows fills gaps in line rows from the product catalog and computes
// the derived quantity and price columns.
func completeRows(rows []engine.RawRow, catalog map[string]store.Product) []engine.RawRow {
	out := make([]engine.RawRow, 0, len(rows))
	for _, row := range rows {
		r := make(engine.RawRow, len(row))
		for k, v := range row {
			r[k] = v
		}

		if p, ok := catalog[strings.TrimSpace(r[layout.ColEAN])]; ok {
			fillIfEmpty(r, layout.ColDescription, p.Description)
			fillIfEmpty(r, layout.ColInternalCode, p.InternalCode)
			fillIfEmpty(r, layout.ColUnitsPerPack, strconv.Itoa(p.UnitsPerPack))
			fillIfEmpty(r, layout.ColUnitPrice, strconv.FormatFloat(p.UnitPrice, 'f', 2, 64))
		}

		packs := parseNumber(r[layout.ColPacks])
		uxb := parseNumber(r[layout.ColUnitsPerPack])
		if strings.TrimSpace(r[layout.ColTotalUnits]) == "" && packs > 0 && uxb > 0 {
			r[layout.ColTotalUnits] = strconv.FormatFloat(packs*uxb, 'f', -1, 64)
		}

		price := parseNumber(r[layout.ColUnitPrice])
		total := parseNumber(r[layout.ColTotalUnits])
		if strings.TrimSpace(r[layout.ColSubtotal]) == "" && price > 0 && total > 0 {
			r[layout.ColSubtotal] = strconv.FormatFloat(price*total, 'f', 2, 64)
		}

		out = append(out, r)
	}
	return out
}

func fillIfEmpty(row engine.RawRow, key, value string) {
	if strings.TrimSpace(row[key]) == "" && value != "" {
		row[key] = value
	}
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

package reader

// aliases.go maps the wildly inconsistent column headers of real order files
// onto the canonical labels the default layout references. Every retailer
// exports the same concepts under different names ("EAN", "barcode_number",
// "codigo_barra", ...), so detection runs in three passes: exact alias match,
// substring match, then loose keyword heuristics.

import (
	"strings"

	"github.com/frescosur/conversor/internal/engine"
	"github.com/frescosur/conversor/internal/layout"
)

// columnAliases lists the accepted header spellings per canonical column.
// Order matters: earlier concepts win when a header would match several.
var columnAliases = []struct {
	canonical string
	aliases   []string
}{
	{layout.ColOrder, []string{
		"pedido", "nro_pedido", "orden", "nro_orden", "order", "order_number",
		"po_number", "po", "poid",
	}},
	{layout.ColEAN, []string{
		"ean", "gtin", "codigo", "codigo_barra", "codigo_ean", "barcode",
		"barcode_number", "barcode_array",
	}},
	{layout.ColDescription, []string{
		"descripcion", "desc", "detalle", "producto", "product_name",
		"item_description", "description", "name",
	}},
	{layout.ColInternalCode, []string{
		"cod_interno", "codigo_interno", "cod_int", "articulo", "sku",
		"item_code", "supplier_sku", "sku_id",
	}},
	{layout.ColPacks, []string{
		"bultos", "cajas", "packs", "cjs", "shipper", "cases_ordered",
		"ordered_cases", "total_ordered_case",
	}},
	{layout.ColTotalUnits, []string{
		"total_unidades", "unidades", "cantidad", "cant_total", "total_units",
		"ordered_qty", "ordered_quantity",
	}},
	{layout.ColUnitsPerPack, []string{
		"unidadesxbulto", "uxb", "un_x_bulto", "pack_size", "units_per_case",
	}},
	{layout.ColUnitPrice, []string{
		"precio", "precio_unitario", "p_unit", "unit_price", "unit_cost",
		"net_cost", "discounted_unit_cost", "unitcost",
	}},
	{layout.ColOrderCreated, []string{
		"po_creation_date", "creation_date", "po_created_at", "fecha_creacion",
	}},
	{layout.ColOrderDue, []string{
		"po_expected_delivery_at", "expected_delivery", "expected_delivery_date",
		"fecha_entrega",
	}},
}

// DetectColumn maps one raw header label to its canonical column name.
// Returns "" when no concept matches.
func DetectColumn(label string) string {
	c := normalizeLabel(label)
	if c == "" {
		return ""
	}

	// Exact alias match.
	for _, concept := range columnAliases {
		for _, a := range concept.aliases {
			if c == a {
				return concept.canonical
			}
		}
	}

	// Substring match, either direction: real headers carry prefixes and
	// suffixes around the alias ("supplier_sku_id", "po_number_ref").
	for _, concept := range columnAliases {
		for _, a := range concept.aliases {
			if strings.Contains(c, a) || strings.Contains(a, c) {
				return concept.canonical
			}
		}
	}

	return keywordColumn(c)
}

// keywordColumn is the last-resort heuristic pass over individual words.
func keywordColumn(c string) string {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(c, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("po") && has("num", "number", "order"):
		return layout.ColOrder
	case has("barcode", "gtin"):
		return layout.ColEAN
	case has("creation", "created") && has("date", "at"):
		return layout.ColOrderCreated
	case has("expected", "delivery"):
		return layout.ColOrderDue
	case has("units_per", "pack_size", "uxb"):
		return layout.ColUnitsPerPack
	case has("unit", "qty", "cantidad") && has("ordered", "qty", "cantidad", "total"):
		return layout.ColTotalUnits
	case has("case", "bult", "caja"):
		return layout.ColPacks
	case has("price", "cost", "precio"):
		return layout.ColUnitPrice
	case has("product", "descripcion", "name"):
		return layout.ColDescription
	case has("sku", "supplier", "cod_int"):
		return layout.ColInternalCode
	}
	return ""
}

func normalizeLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// Canonicalize relabels a table's columns to canonical names. The first
// header matching a concept claims it; later matches and unrecognized headers
// keep their normalized original label so custom templates can still
// reference them.
func Canonicalize(t *Table) *Table {
	mapping := make(map[string]string, len(t.Columns)) // original -> output label
	claimed := make(map[string]bool)

	for _, col := range t.Columns {
		if col == "" {
			continue
		}
		canonical := DetectColumn(col)
		if canonical != "" && !claimed[canonical] {
			claimed[canonical] = true
			mapping[col] = canonical
		} else {
			mapping[col] = normalizeLabel(col)
		}
	}

	out := &Table{Columns: make([]string, 0, len(t.Columns))}
	for _, col := range t.Columns {
		if col == "" {
			continue
		}
		out.Columns = append(out.Columns, mapping[col])
	}

	for _, row := range t.Rows {
		mapped := make(engine.RawRow, len(row))
		for col, v := range row {
			label, ok := mapping[col]
			if !ok {
				label = normalizeLabel(col)
			}
			mapped[label] = v
		}
		out.Rows = append(out.Rows, mapped)
	}
	return out
}

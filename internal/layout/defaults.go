package layout

// defaults.go holds the built-in layout used for clients that have no custom
// template stored yet. The shape mirrors the ORDERS interchange format most
// destination systems accept: a 512-character HEAD line followed by
// 384-character LINE records.

// Canonical source column labels produced by the input readers and the head
// context builder. Custom templates may reference any column label; these are
// the ones the default layout relies on.
const (
	ColOrder        = "order"
	ColEAN          = "ean"
	ColDescription  = "description"
	ColInternalCode = "internal_code"
	ColPacks        = "packs"
	ColTotalUnits   = "total_units"
	ColUnitsPerPack = "units_per_pack"
	ColUnitPrice    = "unit_price"
	ColSubtotal     = "subtotal"
	ColOrderCreated = "order_created"
	ColOrderDue     = "order_expected"

	// Head context labels, filled from client metadata and derived dates.
	ColGLNClient      = "gln_client"
	ColGLNDestination = "gln_destination"
	ColGLNAlternate   = "gln_alternate"
	ColClientName     = "client_name"
	ColAddress        = "address"
	ColClientCode     = "client_code"
	ColExtraCode      = "extra_code"
	ColIssueDate      = "issue_date"
	ColDeliveryDate   = "delivery_date"
	ColDueDate        = "due_date"
)

// Default returns the built-in template. Callers receive a fresh copy and may
// edit it freely.
func Default() *Template {
	return &Template{
		Name:        "ORDERS fixed-width",
		Description: "Built-in HEAD/LINE layout for the ORDERS TXT interchange format",
		Version:     1,
		Head:        defaultHead(),
		Line:        defaultLine(),
	}
}

func lit(s string) *string { return &s }

func defaultHead() RecordSpec {
	return RecordSpec{
		TotalLen: 512,
		Fields: []Field{
			{Name: "record_type", Width: 4, Default: lit("HEAD")},
			{Name: "gln_client", Source: ColGLNClient, Width: 13},
			{Name: "gln_destination", Source: ColGLNDestination, Width: 13},
			{Name: "gln_alternate", Source: ColGLNAlternate, Width: 13},
			{Name: "pad1", Width: 3, Default: lit("")},
			{Name: "order", Source: ColOrder, Width: 7},
			{Name: "pad2", Width: 2, Default: lit("")},
			{Name: "client_name", Source: ColClientName, Width: 40},
			{Name: "address", Source: ColAddress, Width: 100},
			{Name: "issue_date", Source: ColIssueDate, Width: 8, Type: TypeDate},
			{Name: "sep1", Width: 2, Default: lit("")},
			{Name: "delivery_date", Source: ColDeliveryDate, Width: 8, Type: TypeDate},
			{Name: "sep2", Width: 2, Default: lit("")},
			{Name: "due_date", Source: ColDueDate, Width: 8, Type: TypeDate},
			{Name: "pad3", Width: 71, Default: lit("")},
			{Name: "client_code", Source: ColClientCode, Width: 7},
			{Name: "pad4", Width: 76, Default: lit("")},
			{Name: "extra_code", Source: ColExtraCode, Width: 6},
			{Name: "pad5", Width: 1, Default: lit("")},
			{Name: "delivery_date_2", Source: ColDeliveryDate, Width: 8, Type: TypeDate},
			{Name: "sep3", Width: 2, Default: lit("")},
			{Name: "order_2", Source: ColOrder, Width: 7},
			{Name: "tail", Width: 61, Default: lit("")},
		},
	}
}

func defaultLine() RecordSpec {
	return RecordSpec{
		TotalLen: 384,
		Fields: []Field{
			{Name: "line_tag", Source: "@line_tag", Width: 8},
			{Name: "ean", Source: ColEAN, Width: 20},
			{Name: "description_1", Source: ColDescription, Width: 30},
			{Name: "description_2", Source: ColDescription, Width: 30},
			{Name: "description_3", Source: ColDescription, Width: 30},
			{Name: "internal_code", Source: ColInternalCode, Width: 15},
			{Name: "packs", Source: ColPacks, Width: 6, Type: TypeNumber},
			{Name: "total_units", Source: ColTotalUnits, Width: 6, Type: TypeNumber},
			{Name: "units_per_pack", Source: ColUnitsPerPack, Width: 4, Type: TypeNumber},
			{Name: "unit_price", Source: ColUnitPrice, Width: 8, Type: TypeNumber, Decimals: 2},
			{Name: "subtotal", Source: ColSubtotal, Width: 8, Type: TypeNumber, Decimals: 2},
			{Name: "vat", Width: 6, Default: lit("0.00")},
			{Name: "filler", Width: 108, Pad: "0", Default: lit("")},
		},
	}
}

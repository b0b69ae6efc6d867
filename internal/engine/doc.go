// Package engine implements the layout-driven record transformation core.
//
// This package is the heart of the converter, containing all conversion logic
// independent of any UI, transport or storage layer. It can be driven by web
// handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
// A conversion is a pure function of its inputs plus one template lookup:
//
//  1. The template for the client is resolved through [TemplateSource] and
//     validated. Resolution failures are fatal; no partial output is produced.
//  2. A single HEAD record is built from a synthetic head context (client
//     metadata, order number, derived dates) and rendered as the first line.
//  3. Every data row is normalized against the LINE spec and rendered, in the
//     original input order. Rows that are blank across all declared fields
//     are skipped and counted; every other row is emitted.
//  4. Per-field problems (missing required values, coercion failures,
//     truncation) degrade the affected value and accumulate as [Warning]
//     values on the [Result]; they never abort the call. One malformed row
//     must never block the rest of the file.
//
// The output is deterministic: the same template and rows always render to
// byte-identical lines. There is no locale- or clock-dependent formatting and
// the engine performs no I/O, which keeps it trivially testable.
//
// # Synthetic values
//
// Some layout fields derive from the conversion itself rather than from input
// columns. The engine publishes them under reserved '@' source labels:
//
//   - "@line": the 1-based ordinal of the emitted line record
//   - "@line_tag": the ordinal prefixed with "LINE" (for example "LINE3")
//   - "@rows": the accepted row count, available to head fields
//
// Synthetic labels never participate in the blank-row check.
package engine

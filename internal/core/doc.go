// Package core provides the search engine behind the database consolidator.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the tabsearch CLI without
// modification.
//
// # Pipeline
//
// One processing cycle moves uploaded files through these stages:
//
//  1. Source Adapter: [ReadSource] turns (filename, bytes) into a raw [Table].
//     The format is picked from the extension by [DetectFormat] and the
//     reader registered for it (see [RegisterReader]).
//  2. Normalizer: [Normalize] cleans headers, drops blank rows and, in
//     multi-source mode, stamps the [OriginColumn].
//  3. Consolidator: [Consolidate] stacks tables under a column union.
//  4. Column Classifier: [Classifier.Classify] picks the category and
//     interest columns from a declarative [RoleRule] table.
//  5. Query Evaluator: [Evaluate] filters the consolidated table.
//  6. Basket: [Basket] accumulates deduplicated results per session.
//  7. Exporter: [Export] writes the basket as an xlsx workbook.
//
// [Ingest] runs stages 1-4 and returns a [Workspace]. [Service] ties
// workspaces and baskets to sessions held in a [SessionStore].
//
// # Cells
//
// Every value is a [Cell]: either text or absent. Comparisons use the text
// and an absent cell never satisfies an equals or contains test.
//
// # Error Handling
//
// Per-source failures are [*SourceError] values naming the file and stage.
// In multi-source mode they are collected on the workspace and the other
// sources keep loading. Technical errors are mapped to user-facing messages
// with support codes by [MapError]:
//
//   - FILE001-FILE007: file size, encoding and format errors
//   - SRC001-SRC003: source selection errors
//   - SES001-SES002: session and workspace errors
//   - QRY001: invalid role overrides
//   - UPL002-UPL005: busy, cancelled and timed out requests
package core

// Package report renders analysis reports.
//
// Four formats are supported: a plain text summary for the terminal,
// the JSON response object ({"success", "provider", "suggestions",
// "orphans", "stats"}), a CSV export of suggestions and orphans, and a
// Markdown document for sharing.
package report

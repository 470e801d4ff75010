// Package database provides SQLite-based storage for LinkWeave.
//
// The ReportDB archives finished analyses so that the history command can
// list past runs per site and print any of them again. Each archived
// report keeps a row per crawled page with its title, word count and
// outbound internal link count.
//
// The database is a single file opened through modernc.org/sqlite, which
// needs no cgo.
package database

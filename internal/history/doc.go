// Package history persists recording run outcomes in a local SQLite
// database so past runs can be inspected from the CLI.
package history

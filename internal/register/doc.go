// Package register describes the controller register families exposed by the
// proxy: where each family lives, how many registers one request may touch,
// and how queries and data bodies are shaped.
//
// The catalog is static and immutable. It is safe for concurrent use.
package register

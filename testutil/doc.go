// Package testutil provides fixtures and test doubles shared by the package
// tests: canned cards, holders and accounts, a slog handler spy that captures
// log records, and a metrics collector spy that counts recorded metrics.
package testutil

// Package ratelens answers plain-English questions about car rental
// rate-shopping exports.
//
// Usage:
//
//	import (
//	    "github.com/spektr-org/ratelens/ingest"
//	    "github.com/spektr-org/ratelens/intent"
//	)
//
//	ds, err := ingest.NewLoader(nil).LoadFile("rates.csv")
//	answer := intent.NewRouter().Answer(ds, "which supplier has the lowest prices?")
//
// The engine package loads quotes into an immutable Dataset with a
// precomputed aggregation index. The intent package routes a question to a
// fixed set of rule-based handlers and returns text, a chart directive, or
// Unhandled. Only the fallback package calls an external service, and only
// for questions no rule recognizes.
package ratelens

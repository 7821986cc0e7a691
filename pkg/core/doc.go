// Package core provides a small, stable facade over panscan's internal engine
// for external integrations. It re-exports a narrow API surface so other tools
// can depend on a stable import path without importing internal packages.
//
// Example:
//
//	cfg := core.Config{Roots: []string{"."}, Threads: 0}
//	findings, err := core.Scan(cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, findings)
package core

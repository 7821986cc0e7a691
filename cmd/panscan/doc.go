// Package panscan provides the command-line interface for the panscan tool.
// It configures subcommands (scan, brands, ignore, config, version), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/panscan/panscan/cmd/panscan"
//	func main() { panscan.Execute() }
package panscan

// Package engine contains the core scanning logic for panscan. It resolves
// the input paths into a deduplicated file list, scans every file on a fixed
// size worker pool and reduces the per-file results into a Summary. This
// package is internal; external consumers should use the stable facade in
// pkg/core.
package engine

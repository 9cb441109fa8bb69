// Package files provides table I/O and discovery for the analysis toolkit.
//
// It reads and writes datasets as CSV and Excel workbooks, with cell values
// inferred into typed scalars on load. Discovery locates table files under a
// base directory:
//
//	discovery := files.NewDiscovery(cfg.Paths.DataDir)
//	tables, err := discovery.FindTableFiles("downloads")
//
// ReadCSVDir loads every CSV in a directory concurrently, which is the usual
// entry point for batch processing.
package files

// Package nested provides the ordered, format-agnostic nested data structure
// that block descriptions and exported block state are expressed in.
//
// A Data value is an ordered list of keyed entries. Each entry carries either
// a scalar string or a child Data. Keys may repeat; document order is kept
// across all keys so that exporting and re-importing a block is stable.
//
// The block model only reads and writes this structure. Turning files into
// Data (see internal/hcl_adapter) or Data into bytes is somebody else's job.
package nested

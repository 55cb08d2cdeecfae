// Package config defines the format-agnostic configuration model for the
// application, along with the core interfaces (Loader, Writer) for reading
// and writing it.
//
// Block definitions and instances are carried as nested data, the same shape
// the block model consumes and exports, so the `flowgraph` package never sees
// the source format. Concrete implementations of the interfaces, such as for
// HCL, are provided in separate packages.
package config

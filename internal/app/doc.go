// Package app wires the block library, the editing session, the snapshot
// store and the editor publisher into one run: load the HCL files, build and
// import every instance, connect them and report the result.
package app

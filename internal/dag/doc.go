// Package dag keeps the dataflow dependencies between the blocks of a flow
// graph: one node per block id, one edge per connection from the upstream
// block to the downstream one. It orders blocks for code generation and
// reports feedback loops.
package dag

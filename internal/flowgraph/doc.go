// Package flowgraph owns blocks and the connections between their ports.
//
// A Graph builds blocks from a Library of definitions and hands each block
// the parameter and port factories it is constructed with. Ports ask the
// graph for their connections, and blocks ask it to remove connections when
// their ports change shape, so the graph is the single owner of wiring.
package flowgraph

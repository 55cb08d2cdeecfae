// Package block implements the configurable, connectable processing unit of a
// dataflow graph.
//
// A Block owns an ordered list of parameters and two ordered lists of ports
// (sources and sinks). It is built once from a nested description, after which
// the editor mutates it through parameter edits, bus restructuring and state
// changes. Three pieces of behavior make the model dynamic:
//
//   - Dependency resolution: templates such as a port type of "$type.fcn" are
//     expanded against the current parameter values (see internal/resolver).
//
//   - Bus restructuring: the plain ports of one direction can be collapsed
//     behind aggregate bus ports and expanded again (see Bussify).
//
//   - Lifecycle: the enabled, bypassed or disabled state is stored as the code
//     of the hidden "_enabled" parameter (see State).
//
// Import drives these together. It writes saved parameter values and calls the
// rewrite hook until the parameter set stops changing, then restores buses.
//
// A Block is not safe for concurrent use. One editor session mutates one graph
// at a time.
package block

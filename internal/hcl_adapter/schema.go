package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Blocks      []*BlockDefinition `hcl:"block,block"`
	Instances   []*Instance        `hcl:"instance,block"`
	Connections []*Connection      `hcl:"connection,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

// BlockDefinition is the HCL schema of a `block "<key>"` definition. Scalar
// attributes are read from Remain in source order.
type BlockDefinition struct {
	Key     string             `hcl:"key,label"`
	Params  []*ParamDefinition `hcl:"param,block"`
	Sources []*PortDefinition  `hcl:"source,block"`
	Sinks   []*PortDefinition  `hcl:"sink,block"`
	Remain  hcl.Body           `hcl:",remain"`
}

// ParamDefinition is the HCL schema of a `param "<key>"` block.
type ParamDefinition struct {
	Key     string              `hcl:"key,label"`
	Options []*OptionDefinition `hcl:"option,block"`
	Remain  hcl.Body            `hcl:",remain"`
}

// OptionDefinition is the HCL schema of an enum `option "<key>"` block.
type OptionDefinition struct {
	Key    string   `hcl:"key,label"`
	Remain hcl.Body `hcl:",remain"`
}

// PortDefinition is the HCL schema of a `source "<key>"` or `sink "<key>"`
// block.
type PortDefinition struct {
	Key    string   `hcl:"key,label"`
	Remain hcl.Body `hcl:",remain"`
}

// Instance is the HCL schema of an `instance "<key>" "<id>"` block.
type Instance struct {
	Key       string         `hcl:"key,label"`
	ID        string         `hcl:"id,label"`
	State     *int           `hcl:"state,optional"`
	BusSink   bool           `hcl:"bus_sink,optional"`
	BusSource bool           `hcl:"bus_source,optional"`
	Params    hcl.Expression `hcl:"params,optional"`
}

// Connection is the HCL schema of a `connection` block.
type Connection struct {
	Source string `hcl:"source"`
	Sink   string `hcl:"sink"`
}

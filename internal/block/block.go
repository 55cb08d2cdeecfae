package block

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowblock/internal/bus"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/resolver"
)

// Keys of the structural parameters every block may carry.
const (
	IDKey        = "id"
	EnabledKey   = "_enabled"
	AliasKey     = "alias"
	AffinityKey  = "affinity"
	MinOutBufKey = "minoutbuf"
	MaxOutBufKey = "maxoutbuf"
	CommentKey   = "comment"
)

// Parameter tab labels.
const (
	DefaultParamTab  = "General"
	AdvancedParamTab = "Advanced"
)

// Block is one processing unit of a flow graph.
type Block struct {
	graph    element.Graph
	logger   *slog.Logger
	engine   resolver.Engine
	rewriter Rewriter

	key              string
	name             string
	category         string
	flags            Flags
	grcSource        string
	blockWrapperPath string
	varValue         string
	doc              string
	makeTmpl         string
	callbacks        []string
	paramTabLabels   []string

	bussifySink          bool
	bussifySource        bool
	busStructureSinkTmpl string
	busStructureSrcTmpl  string

	params  []element.Param
	sources []element.Port
	sinks   []element.Port

	currentBusStructure map[element.Direction]bus.Structure
}

// Option customizes a Block at construction.
type Option func(*Block)

// WithEngine replaces the template engine used by ResolveDependencies.
func WithEngine(e resolver.Engine) Option {
	return func(b *Block) { b.engine = e }
}

// WithRewriter replaces the rewrite hook called by Import and Rewrite.
func WithRewriter(r Rewriter) Option {
	return func(b *Block) { b.rewriter = r }
}

func isVirtualOrPad(key string) bool {
	switch key {
	case "virtual_source", "virtual_sink", "pad_source", "pad_sink":
		return true
	}
	return false
}

// New builds a block from its nested description. Parameters and ports are
// created through the graph. A repeated parameter or port key is fatal.
func New(ctx context.Context, graph element.Graph, n *nested.Data, opts ...Option) (*Block, error) {
	b := &Block{
		graph:            graph,
		engine:           resolver.NewHCLEngine(),
		rewriter:         DefaultRewriter(),
		key:              n.Find("key"),
		name:             n.Find("name"),
		category:         n.Find("category"),
		flags:            ParseFlags(n.Find("flags")),
		grcSource:        n.Find("grc_source"),
		blockWrapperPath: n.Find("block_wrapper_path"),
		varValue:         n.FindOr("var_value", "$value"),
		doc:              n.Find("doc"),
		makeTmpl:         n.Find("make"),
		callbacks:        n.FindValues("callback"),

		bussifySink:          n.Find("bus_sink") != "",
		bussifySource:        n.Find("bus_source") != "",
		busStructureSinkTmpl: n.Find("bus_structure_sink"),
		busStructureSrcTmpl:  n.Find("bus_structure_source"),

		currentBusStructure: map[element.Direction]bus.Structure{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.key == "" {
		return nil, fmt.Errorf("block description has no key")
	}
	b.logger = ctxlog.FromContext(ctx).With("block_key", b.key)

	// Older descriptions mark throttling with a dedicated element.
	if n.Find("throttle") != "" && !b.flags.Has(FlagThrottle) {
		b.flags |= FlagThrottle
	}

	if tabs := n.Child("param_tab_order"); tabs != nil {
		b.paramTabLabels = tabs.FindValues("tab")
	} else {
		b.paramTabLabels = []string{DefaultParamTab}
	}

	if err := b.addInjectedParam(nested.New(
		"name", "ID",
		"key", IDKey,
		"type", "id",
	)); err != nil {
		return nil, err
	}
	if err := b.addInjectedParam(nested.New(
		"name", "Enabled",
		"key", EnabledKey,
		"type", "raw",
		"value", "0",
		"hide", "all",
	)); err != nil {
		return nil, err
	}
	for _, pn := range n.FindAll("param") {
		if err := b.addInjectedParam(pn); err != nil {
			return nil, err
		}
	}

	for _, dir := range []element.Direction{element.Source, element.Sink} {
		for _, pn := range n.FindAll(dir.String()) {
			p, err := graph.NewPort(pn, dir)
			if err != nil {
				return nil, fmt.Errorf("block %q: %s: %w", b.key, dir, err)
			}
			if err := b.AddPort(p); err != nil {
				return nil, err
			}
		}
	}
	bus.BackOfTheBus(b.sources)
	bus.BackOfTheBus(b.sinks)

	virtualOrPad := isVirtualOrPad(b.key)
	variable := strings.HasPrefix(b.key, "variable")
	if virtualOrPad || variable {
		b.flags |= FlagDisableBypass
	}

	hasSources := len(n.FindAll("source")) > 0
	hasSinks := len(n.FindAll("sink")) > 0

	var injected []*nested.Data
	if !(virtualOrPad || variable || b.key == "options") {
		injected = append(injected, nested.New(
			"name", "Block Alias",
			"key", AliasKey,
			"type", "string",
			"hide", "part",
			"tab", AdvancedParamTab,
		))
	}
	if (hasSources || hasSinks) && !virtualOrPad {
		injected = append(injected, nested.New(
			"name", "Core Affinity",
			"key", AffinityKey,
			"type", "int_vector",
			"hide", "part",
			"tab", AdvancedParamTab,
		))
	}
	if hasSources && !virtualOrPad {
		injected = append(injected,
			nested.New(
				"name", "Min Output Buffer",
				"key", MinOutBufKey,
				"type", "int",
				"hide", "part",
				"value", "0",
				"tab", AdvancedParamTab,
			),
			nested.New(
				"name", "Max Output Buffer",
				"key", MaxOutBufKey,
				"type", "int",
				"hide", "part",
				"value", "0",
				"tab", AdvancedParamTab,
			),
		)
	}
	injected = append(injected, nested.New(
		"name", "Comment",
		"key", CommentKey,
		"type", "multiline",
		"hide", "part",
		"value", "",
		"tab", AdvancedParamTab,
	))
	for _, pn := range injected {
		if err := b.addInjectedParam(pn); err != nil {
			return nil, err
		}
	}

	if b.bussifySink {
		if err := b.Bussify(BusPortDescription(), element.Sink); err != nil {
			return nil, err
		}
	}
	if b.bussifySource {
		if err := b.Bussify(BusPortDescription(), element.Source); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("Block constructed.",
		"params", len(b.params),
		"sources", len(b.sources),
		"sinks", len(b.sinks),
		"flags", b.flags.String(),
	)
	return b, nil
}

func (b *Block) addInjectedParam(n *nested.Data) error {
	p, err := b.graph.NewParam(n)
	if err != nil {
		return fmt.Errorf("block %q: %w", b.key, err)
	}
	return b.AddParam(p)
}

// AddParam appends a parameter. Rewrite hooks use it for dynamic parameters.
func (b *Block) AddParam(p element.Param) error {
	if b.HasParam(p.Key()) {
		return fmt.Errorf("block %q: %w: key %q already exists in params", b.key, ErrDuplicateKey, p.Key())
	}
	b.params = append(b.params, p)
	return nil
}

// RemoveParam drops the parameter stored under key and reports whether it
// existed. The structural id and _enabled parameters cannot be removed.
func (b *Block) RemoveParam(key string) bool {
	if key == IDKey || key == EnabledKey {
		return false
	}
	for i, p := range b.params {
		if p.Key() == key {
			b.params = append(b.params[:i], b.params[i+1:]...)
			return true
		}
	}
	return false
}

// AddPort appends a port to the list of its direction.
func (b *Block) AddPort(p element.Port) error {
	ports := b.portList(p.Direction())
	if _, err := findPort(*ports, p.Key()); err == nil {
		return fmt.Errorf("block %q: %w: key %q already exists in %ss", b.key, ErrDuplicateKey, p.Key(), p.Direction())
	}
	*ports = append(*ports, p)
	return nil
}

// RemovePort drops a port after removing its connections from the graph.
func (b *Block) RemovePort(dir element.Direction, key string) bool {
	ports := b.portList(dir)
	for i, p := range *ports {
		if p.Key() == key {
			for _, c := range p.Connections() {
				b.graph.RemoveElement(c)
			}
			*ports = append((*ports)[:i], (*ports)[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Block) portList(dir element.Direction) *[]element.Port {
	if dir == element.Source {
		return &b.sources
	}
	return &b.sinks
}

func findPort(ports []element.Port, key string) (element.Port, error) {
	for _, p := range ports {
		if p.Key() == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q not in %v", ErrKeyNotFound, key, portKeys(ports))
}

func portKeys(ports []element.Port) []string {
	keys := make([]string, 0, len(ports))
	for _, p := range ports {
		keys = append(keys, p.Key())
	}
	return keys
}

// String identifies the block in logs.
func (b *Block) String() string {
	return fmt.Sprintf("Block - %s - %s(%s)", b.ID(), b.name, b.key)
}

// ID returns the value of the id parameter.
func (b *Block) ID() string {
	p, err := b.Param(IDKey)
	if err != nil {
		return ""
	}
	return p.Value()
}

func (b *Block) Key() string                 { return b.key }
func (b *Block) Name() string                { return b.name }
func (b *Block) Category() string            { return b.category }
func (b *Block) SetCategory(c string)        { b.category = c }
func (b *Block) Doc() string                 { return b.doc }
func (b *Block) Flags() Flags                { return b.flags }
func (b *Block) Throttling() bool            { return b.flags.Has(FlagThrottle) }
func (b *Block) BypassDisabled() bool        { return b.flags.Has(FlagDisableBypass) }
func (b *Block) GRCSource() string           { return b.grcSource }
func (b *Block) BlockWrapperPath() string    { return b.blockWrapperPath }
func (b *Block) VarValue() string            { return b.varValue }
func (b *Block) ParamTabLabels() []string    { return b.paramTabLabels }
func (b *Block) MakeTemplate() string        { return b.makeTmpl }
func (b *Block) CallbackTemplates() []string { return b.callbacks }

// Comment returns the value of the comment parameter.
func (b *Block) Comment() string {
	p, err := b.Param(CommentKey)
	if err != nil {
		return ""
	}
	return p.Value()
}

// Params returns the parameters in order.
func (b *Block) Params() []element.Param { return b.params }

// ParamKeys returns the parameter keys in order.
func (b *Block) ParamKeys() []string {
	keys := make([]string, 0, len(b.params))
	for _, p := range b.params {
		keys = append(keys, p.Key())
	}
	return keys
}

// Param returns the parameter stored under key.
func (b *Block) Param(key string) (element.Param, error) {
	for _, p := range b.params {
		if p.Key() == key {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q not in %v", ErrKeyNotFound, key, b.ParamKeys())
}

// HasParam reports whether a parameter is stored under key.
func (b *Block) HasParam(key string) bool {
	_, err := b.Param(key)
	return err == nil
}

func (b *Block) Sources() []element.Port { return b.sources }
func (b *Block) Sinks() []element.Port   { return b.sinks }
func (b *Block) SourceKeys() []string    { return portKeys(b.sources) }
func (b *Block) SinkKeys() []string      { return portKeys(b.sinks) }

// Source returns the source stored under key.
func (b *Block) Source(key string) (element.Port, error) { return findPort(b.sources, key) }

// Sink returns the sink stored under key.
func (b *Block) Sink(key string) (element.Port, error) { return findPort(b.sinks, key) }

// SourcesGUI returns the sources an editor shows: the bus ports when the
// sources are bussified, else all of them.
func (b *Block) SourcesGUI() []element.Port { return bus.FilterBus(b.sources) }

// SinksGUI is the sink counterpart of SourcesGUI.
func (b *Block) SinksGUI() []element.Port { return bus.FilterBus(b.sinks) }

// Ports returns sources followed by sinks.
func (b *Block) Ports() []element.Port {
	out := make([]element.Port, 0, len(b.sources)+len(b.sinks))
	out = append(out, b.sources...)
	return append(out, b.sinks...)
}

// PortsGUI returns SourcesGUI followed by SinksGUI.
func (b *Block) PortsGUI() []element.Port {
	src, snk := b.SourcesGUI(), b.SinksGUI()
	out := make([]element.Port, 0, len(src)+len(snk))
	out = append(out, src...)
	return append(out, snk...)
}

// Connections gathers the connections of every port.
func (b *Block) Connections() []element.Connection {
	var out []element.Connection
	for _, p := range b.Ports() {
		out = append(out, p.Connections()...)
	}
	return out
}

package block

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/specialistvlad/flowblock/internal/bus"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
)

// maxRewritePasses bounds the import loop. Real blocks settle in two or three
// passes.
const maxRewritePasses = 64

// paramsHash fingerprints the parameter list, order included.
func (b *Block) paramsHash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range b.params {
		binary.LittleEndian.PutUint64(buf[:], p.Hash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Import loads saved parameter values from n. Keys the block does not have are
// ignored. Because rewriting can add parameters that saved values refer to,
// the values are written and the rewrite hook is called until a pass leaves
// the parameter set unchanged. The buses saved in n are restored afterwards.
func (b *Block) Import(ctx context.Context, n *nested.Data) error {
	logger := ctxlog.FromContext(ctx).With("block_key", b.key)

	var settled uint64
	passes := 0
	for passes == 0 || b.paramsHash() != settled {
		if passes == maxRewritePasses {
			return fmt.Errorf("block %q: %w after %d passes", b.key, ErrRewriteDiverged, passes)
		}
		passes++

		for _, pn := range n.FindAll("param") {
			if p, err := b.Param(pn.Find("key")); err == nil {
				p.SetValue(pn.Find("value"))
			}
		}
		settled = b.paramsHash()
		if err := b.Rewrite(ctx); err != nil {
			return fmt.Errorf("block %q: rewrite: %w", b.key, err)
		}
	}
	logger.Debug("Parameters imported.", "passes", passes)

	if err := b.restoreBus(n, "bus_sink", element.Sink, b.bussifySink); err != nil {
		return err
	}
	return b.restoreBus(n, "bus_source", element.Source, b.bussifySource)
}

// restoreBus bussifies dir once when n marks it. A block whose description
// declares that bus was bussified at construction, so it gets the toggle
// twice: the standing bus is removed and then formed again from the imported
// parameter values.
func (b *Block) restoreBus(n *nested.Data, marker string, dir element.Direction, declared bool) error {
	if !n.Has(marker) {
		return nil
	}
	if err := b.Bussify(BusPortDescription(), dir); err != nil {
		return err
	}
	if !declared {
		return nil
	}
	return b.Bussify(BusPortDescription(), dir)
}

// Export writes the block key, its parameters sorted by their string form and
// a marker per bussified direction.
func (b *Block) Export() *nested.Data {
	n := nested.New("key", b.key)

	params := append([]element.Param(nil), b.params...)
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].String() < params[j].String()
	})
	for _, p := range params {
		n.AddChild("param", p.Export())
	}

	if bus.HasBus(b.sinks) {
		n.Add("bus_sink", "1")
	}
	if bus.HasBus(b.sources) {
		n.Add("bus_source", "1")
	}
	return n
}

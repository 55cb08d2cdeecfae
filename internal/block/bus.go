package block

import (
	"fmt"
	"strconv"

	"github.com/specialistvlad/flowblock/internal/bus"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
)

// BusPortDescription is the port description import hands to Bussify.
func BusPortDescription() *nested.Data {
	return nested.New("name", "bus", "type", element.BusType)
}

// BusStructure resolves the serialized bus structure the block description
// declares for dir. A missing or unreadable structure is nil.
func (b *Block) BusStructure(dir element.Direction) bus.Structure {
	tmpl := b.busStructureSrcTmpl
	if dir == element.Sink {
		tmpl = b.busStructureSinkTmpl
	}
	if tmpl == "" {
		return nil
	}
	s, err := bus.Parse(b.ResolveDependencies(tmpl))
	if err != nil {
		b.logger.Warn("Ignoring unreadable bus structure.", "direction", dir.String(), "error", err)
		return nil
	}
	return s
}

// CurrentBusStructure returns the structure cached by the last
// FormBusStructure or Bussify for dir.
func (b *Block) CurrentBusStructure(dir element.Direction) bus.Structure {
	return b.currentBusStructure[dir]
}

// FormBusStructure computes, caches and returns the bus structure of dir.
func (b *Block) FormBusStructure(dir element.Direction) bus.Structure {
	s := bus.Form(*b.portList(dir), b.BusStructure(dir))
	b.currentBusStructure[dir] = s
	return s
}

// Bussify toggles the bus of one direction. Every connection of that
// direction is removed from the graph first. Without a bus, one port built
// from n is appended per group of the bus structure; the plain ports stay in
// place behind them. With a bus, every bus port is removed and the cached
// structure is cleared. Callers must know which of the two they are asking
// for.
func (b *Block) Bussify(n *nested.Data, dir element.Direction) error {
	ports := b.portList(dir)

	for _, p := range *ports {
		for _, c := range p.Connections() {
			b.graph.RemoveElement(c)
		}
	}

	switch {
	case !bus.HasBus(*ports) && len(*ports) > 0:
		structure := b.FormBusStructure(dir)
		n = n.Clone()
		if nports, fixed := (*ports)[0].NPorts(); fixed && nports != 0 {
			n.Set("nports", "1")
		}
		for range structure {
			n.Set("key", strconv.Itoa(len(*ports)))
			p, err := b.graph.NewPort(n.Clone(), dir)
			if err != nil {
				return fmt.Errorf("block %q: bus %s: %w", b.key, dir, err)
			}
			*ports = append(*ports, p)
		}
		b.logger.Debug("Bus formed.", "direction", dir.String(), "structure", structure.String())

	case bus.HasBus(*ports):
		buses := bus.FilterBus(*ports)
		kept := (*ports)[:0:0]
		for _, p := range *ports {
			if !containsPort(buses, p) {
				kept = append(kept, p)
			}
		}
		*ports = kept
		b.currentBusStructure[dir] = nil
		b.logger.Debug("Bus removed.", "direction", dir.String(), "removed", len(buses))
	}
	return nil
}

func containsPort(ports []element.Port, p element.Port) bool {
	for _, q := range ports {
		if q == p {
			return true
		}
	}
	return false
}

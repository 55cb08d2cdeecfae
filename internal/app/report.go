package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
	"github.com/specialistvlad/flowblock/internal/session"
)

// writeReport prints one section per block in dataflow order: its state, the
// ports an editor would show and the resolved make template.
func writeReport(w io.Writer, g *flowgraph.Graph) error {
	blocks, err := g.Order()
	if err != nil {
		return err
	}
	var sb strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&sb, "%s (%s) [%s]\n", b.ID(), b.Key(), b.State())
		if src := portSummary(b.SourcesGUI()); src != "" {
			fmt.Fprintf(&sb, "  sources: %s\n", src)
		}
		if snk := portSummary(b.SinksGUI()); snk != "" {
			fmt.Fprintf(&sb, "  sinks:   %s\n", snk)
		}
		if b.MakeTemplate() != "" {
			fmt.Fprintf(&sb, "  make:    %s\n", b.MakeCode())
		}
	}
	fmt.Fprintf(&sb, "%d blocks, %d connections\n", len(g.Blocks()), len(g.Connections()))
	_, err = io.WriteString(w, sb.String())
	return err
}

func portSummary(ports []element.Port) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		part := p.Key() + ":" + p.Type()
		if n, fixed := p.NPorts(); fixed && n > 1 {
			part += fmt.Sprintf("x%d", n)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// connectionModel converts a live connection into its configuration form.
func connectionModel(sess session.Session, c *flowgraph.Connection) *config.Connection {
	out := &config.Connection{
		Source: config.Endpoint{PortKey: c.Source().Key()},
		Sink:   config.Endpoint{PortKey: c.Sink().Key()},
	}
	if b, ok := sess.Graph().Owner(c.Source()); ok {
		out.Source.BlockID = b.ID()
	}
	if b, ok := sess.Graph().Owner(c.Sink()); ok {
		out.Sink.BlockID = b.ID()
	}
	return out
}

// Package visualization exports a *core.Machine hierarchy to Graphviz DOT,
// as a debugging aid — it is not part of the dispatch-critical path.
package visualization

import (
	"fmt"
	"os"
	"strings"

	"github.com/anggasct/fluo/pkg/core"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	RankDirection string // "TB", "LR", "BT", "RL"
	ShowHistory   bool
}

// DefaultDOTOptions returns sensible default options.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{RankDirection: "TB", ShowHistory: true}
}

// DOTGenerator renders a *core.Machine hierarchy as Graphviz DOT.
type DOTGenerator struct {
	machine *core.Machine
	options DOTOptions
}

// NewDOTGenerator creates a generator for machine's hierarchy.
func NewDOTGenerator(machine *core.Machine, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return &DOTGenerator{machine: machine, options: opts}
}

// Generate renders the full hierarchy rooted at the generator's machine.
func (g *DOTGenerator) Generate() (string, error) {
	var dot strings.Builder
	dot.WriteString("digraph HFSM {\n")
	fmt.Fprintf(&dot, "  rankdir=%s;\n", g.options.RankDirection)
	dot.WriteString("  node [shape=box, style=filled];\n")
	dot.WriteString("  edge [fontsize=10];\n\n")

	seen := make(map[*core.Machine]bool)
	g.writeMachine(&dot, g.machine, "", seen)

	dot.WriteString("}\n")
	return dot.String(), nil
}

func (g *DOTGenerator) writeMachine(dot *strings.Builder, m *core.Machine, clusterPrefix string, seen map[*core.Machine]bool) {
	if m == nil || seen[m] {
		return
	}
	seen[m] = true

	clusterName := clusterPrefix
	if clusterName == "" {
		clusterName = "root"
	}
	fmt.Fprintf(dot, "  subgraph \"cluster_%s\" {\n", clusterName)
	fmt.Fprintf(dot, "    label=\"%s\";\n", clusterName)

	for i, s := range m.States {
		fillColor := "lightblue"
		label := s.Name
		if i == 0 {
			fillColor = "lightgreen"
			label += "\\n(entry)"
		}
		if s.SubMachine != nil {
			fillColor = "lightcyan"
		}
		nodeID := nodeID(clusterName, s)
		fmt.Fprintf(dot, "    %q [fillcolor=%s label=%q];\n", nodeID, fillColor, label)
	}
	fmt.Fprintf(dot, "    %q [shape=doublecircle fillcolor=lightcoral label=\"FINAL\"];\n", clusterName+"_final")

	dot.WriteString("  }\n")

	for _, t := range m.Transitions {
		from := nodeID(clusterName, t.From)
		to := clusterName + "_final"
		if t.To.ID != core.StateIDFinal {
			to = nodeID(clusterName, t.To)
		}
		label := fmt.Sprintf("%d", t.Event)
		if t.Event == core.EventIDComplete {
			label = "COMPLETE"
		}
		if g.options.ShowHistory && t.History != core.HistoryNone {
			label += fmt.Sprintf("\\n[history=%d]", t.History)
		}
		fmt.Fprintf(dot, "  %q -> %q [label=%q];\n", from, to, label)
	}

	for _, s := range m.States {
		if s.SubMachine != nil {
			g.writeMachine(dot, s.SubMachine, clusterName+"_"+s.Name, seen)
		}
	}
}

func nodeID(cluster string, s *core.State) string {
	return fmt.Sprintf("%s_%s", cluster, s.Name)
}

// GenerateToFile writes the DOT representation to filename.
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

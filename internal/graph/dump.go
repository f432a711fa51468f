package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/depsgraph/internal/node"
)

// Dump is a point-in-time description of the graph suitable for debugging
// tools. Callers hold the pass lock (see Lock) while taking it so statuses
// are consistent with a finished pass.
type Dump struct {
	IDs       []IDDump       `json:"ids"`
	Relations []RelationDump `json:"relations"`
}

// IDDump describes one ID node.
type IDDump struct {
	Key            string          `json:"key"`
	Type           string          `json:"type"`
	FullyEvaluated bool            `json:"fully_evaluated"`
	Components     []ComponentDump `json:"components"`
}

// ComponentDump describes one component node.
type ComponentDump struct {
	Kind       string          `json:"kind"`
	Entry      string          `json:"entry,omitempty"`
	Exit       string          `json:"exit,omitempty"`
	Operations []OperationDump `json:"operations"`
}

// OperationDump describes one operation node.
type OperationDump struct {
	Handle  int32  `json:"handle"`
	Address string `json:"address"`
	Opcode  string `json:"opcode"`
	Status  string `json:"status"`
}

// RelationDump describes one relation, active or broken.
type RelationDump struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Label         string `json:"label"`
	Seq           uint64 `json:"seq"`
	MayCauseCycle bool   `json:"may_cause_cycle,omitempty"`
	Cyclic        bool   `json:"cyclic,omitempty"`
}

// Dump snapshots the structure and state of the graph.
func (g *Graph) Dump() *Dump {
	d := &Dump{
		IDs:       make([]IDDump, 0, len(g.idOrder)),
		Relations: make([]RelationDump, 0, len(g.rels)),
	}
	for _, id := range g.idOrder {
		idd := IDDump{Key: id.Key(), Type: string(id.Type), FullyEvaluated: id.IsFullyEvaluated()}
		for _, c := range id.Components() {
			cd := ComponentDump{Kind: string(c.Kind())}
			if e := c.Entry(); e != nil {
				cd.Entry = string(e.Opcode())
			}
			if e := c.Exit(); e != nil {
				cd.Exit = string(e.Opcode())
			}
			for _, op := range c.Operations() {
				cd.Operations = append(cd.Operations, OperationDump{
					Handle:  int32(op.Handle()),
					Address: op.Address().String(),
					Opcode:  string(op.Opcode()),
					Status:  op.Status().String(),
				})
			}
			idd.Components = append(idd.Components, cd)
		}
		d.IDs = append(d.IDs, idd)
	}
	for _, r := range g.rels {
		d.Relations = append(d.Relations, RelationDump{
			From:          g.ops[r.From].Address().String(),
			To:            g.ops[r.To].Address().String(),
			Label:         r.Label,
			Seq:           r.Seq,
			MayCauseCycle: r.Flags.Has(node.FlagMayCauseCycle),
			Cyclic:        r.Flags.Has(node.FlagCyclic),
		})
	}
	return d
}

// WriteJSON writes the dump as indented JSON.
func (d *Dump) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteText writes a human readable listing.
func (d *Dump) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, id := range d.IDs {
		mark := ""
		if id.FullyEvaluated {
			mark = " (evaluated)"
		}
		fmt.Fprintf(&b, "%s [%s]%s\n", id.Key, id.Type, mark)
		for _, c := range id.Components {
			fmt.Fprintf(&b, "  %s entry=%s exit=%s\n", c.Kind, c.Entry, c.Exit)
			for _, op := range c.Operations {
				fmt.Fprintf(&b, "    #%d %s %s\n", op.Handle, op.Opcode, op.Status)
			}
		}
	}
	if len(d.Relations) > 0 {
		b.WriteString("relations:\n")
	}
	for _, r := range d.Relations {
		var flags []string
		if r.MayCauseCycle {
			flags = append(flags, "may-cycle")
		}
		if r.Cyclic {
			flags = append(flags, "cyclic")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ",") + "]"
		}
		fmt.Fprintf(&b, "  %s -> %s (%s)%s\n", r.From, r.To, r.Label, suffix)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDOT writes the dump as a Graphviz digraph with one cluster per ID.
// Broken relations are drawn dashed.
func (d *Dump) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph depsgraph {\n  rankdir=LR;\n  node [shape=box];\n")
	for i, id := range d.IDs {
		fmt.Fprintf(&b, "  subgraph cluster_%d {\n    label=%q;\n", i, id.Key)
		for _, c := range id.Components {
			for _, op := range c.Operations {
				style := ""
				if op.Status != node.StatusClean.String() {
					style = ", style=filled, fillcolor=lightyellow"
				}
				fmt.Fprintf(&b, "    %q [label=\"%s\\n%s\"%s];\n", op.Address, c.Kind, op.Opcode, style)
			}
		}
		b.WriteString("  }\n")
	}
	for _, r := range d.Relations {
		style := ""
		if r.Cyclic {
			style = ", style=dashed, color=red"
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q%s];\n", r.From, r.To, r.Label, style)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

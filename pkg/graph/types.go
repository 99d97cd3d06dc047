package graph

import (
	"encoding/json"
	"slices"
)

// Graph is the editor layout exchanged wholesale with the front end.
type Graph struct {
	Nodes []Node `json:"nodes"`

	// Connections are opaque to the server and kept byte-for-byte.
	Connections []json.RawMessage `json:"connections"`
}

// Node is one box on the editor canvas.
type Node struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Type selects the front-end renderer, e.g. "dni" or "DocBuilder".
	Type  string `json:"type"`
	Title string `json:"title"`

	// State is a lifecycle tag such as "empty".
	State string `json:"state,omitempty"`

	Inputs  []Port `json:"inputs"`
	Outputs []Port `json:"outputs"`

	// Data holds the form values of input nodes.
	Data map[string]any `json:"data,omitempty"`
}

// Port is a connection point on a node.
type Port struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Normalize replaces nil slices with empty ones so the graph encodes as
// arrays rather than null.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Connections == nil {
		g.Connections = []json.RawMessage{}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Inputs == nil {
			g.Nodes[i].Inputs = []Port{}
		}
		if g.Nodes[i].Outputs == nil {
			g.Nodes[i].Outputs = []Port{}
		}
	}
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes:       make([]Node, len(g.Nodes)),
		Connections: make([]json.RawMessage, len(g.Connections)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = n.clone()
	}
	for i, c := range g.Connections {
		out.Connections[i] = slices.Clone(c)
	}
	return out
}

func (n Node) clone() Node {
	n.Inputs = slices.Clone(n.Inputs)
	n.Outputs = slices.Clone(n.Outputs)
	if n.Data != nil {
		data := make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			data[k] = cloneValue(v)
		}
		n.Data = data
	}
	return n
}

// cloneValue copies the container types produced by encoding/json.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

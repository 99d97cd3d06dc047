package graph

import "encoding/json"

// Default returns the two-node graph a first-time visitor starts from: a
// person-details input node and a document builder with seller and buyer
// inputs. Every call returns a fresh copy.
func Default() Graph {
	return Graph{
		Nodes: []Node{
			{
				ID:      1,
				X:       200,
				Y:       100,
				Width:   375,
				Height:  100,
				Type:    "dni",
				Title:   "Empty",
				State:   "empty",
				Inputs:  []Port{{ID: "in_1", Name: "Input"}},
				Outputs: []Port{{ID: "out_1", Name: "Output"}},
				Data: map[string]any{
					"name":        "",
					"surname":     "",
					"dateOfBirth": "",
					"dni":         "",
					"address":     "",
				},
			},
			{
				ID:     2,
				X:      800,
				Y:      100,
				Width:  375,
				Height: 100,
				Type:   "DocBuilder",
				Title:  "DocBuilder empty",
				Inputs: []Port{
					{ID: "in_2_vendedor", Name: "Vendedor"},
					{ID: "in_2_comprador", Name: "Comprador"},
				},
				Outputs: []Port{{ID: "out_2", Name: "Output"}},
			},
		},
		Connections: []json.RawMessage{},
	}
}

package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys recorded on docforge spans.
const (
	AttrRequestID   = "docforge.request_id"
	AttrModel       = "docforge.model"
	AttrOperation   = "docforge.completion.op"
	AttrTokensTotal = "docforge.tokens.total"
	AttrNodes       = "docforge.graph.nodes"
	AttrConnections = "docforge.graph.connections"
	AttrBackend     = "docforge.graph.backend"
)

// CompletionAttributes returns the attributes set on a completion span.
func CompletionAttributes(op, model string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOperation, op),
		attribute.String(AttrModel, model),
	}
}

// GraphAttributes returns the attributes set on a graph save span.
func GraphAttributes(backend string, nodes, connections int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrBackend, backend),
		attribute.Int(AttrNodes, nodes),
		attribute.Int(AttrConnections, connections),
	}
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"docforge/studio/pkg/graph"
	"docforge/studio/pkg/graph/storage"
)

// Completer performs chat completions.
type Completer interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error)
	Ping(ctx context.Context) (string, error)
}

// PromptBuilder builds the contract-generation prompt.
type PromptBuilder interface {
	Build(fields any) string
	SystemInstruction() string
}

// GraphService loads and saves the editor graph.
type GraphService interface {
	Load(ctx context.Context) (graph.Graph, error)
	Save(ctx context.Context, g graph.Graph) error
}

// RevisionLister is implemented by graph backends that keep history.
type RevisionLister interface {
	Revisions(ctx context.Context, limit int) ([]storage.Revision, error)
}

// Page renders the index document.
type Page interface {
	Render(w io.Writer) error
}

// MessageNodesSaved acknowledges a graph save.
const MessageNodesSaved = "Nodes saved successfully"

// Handlers holds the request handlers and their dependencies.
type Handlers struct {
	completion Completer
	prompt     PromptBuilder
	graph      GraphService
	revisions  RevisionLister
	page       Page
	decoder    *Decoder
}

// GenerateRequest is the body of POST /api/generate-template.
type GenerateRequest struct {
	Fields json.RawMessage `json:"fields" validate:"required"`
}

// SaveGraphRequest is the body of POST /api/graph.
type SaveGraphRequest struct {
	Nodes       json.RawMessage   `json:"nodes" validate:"required"`
	Connections []json.RawMessage `json:"connections"`
}

// RevisionsResponse lists stored graph revisions.
type RevisionsResponse struct {
	Status    string             `json:"status"`
	Revisions []storage.Revision `json:"revisions"`
}

// Index serves the editor document.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return h.page.Render(w)
}

// TestCompletion runs the completion connectivity check.
func (h *Handlers) TestCompletion(w http.ResponseWriter, r *http.Request) error {
	reply, err := h.completion.Ping(r.Context())
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, MessageResponse{Status: StatusSuccess, Message: reply})
}

// GenerateTemplate builds the prompt and returns the model's template.
func (h *Handlers) GenerateTemplate(w http.ResponseWriter, r *http.Request) error {
	var req GenerateRequest
	if err := h.decoder.Decode(w, r, &req); err != nil {
		return err
	}

	// Only the key's presence is checked; the raw value goes to the builder.
	template, err := h.completion.Complete(r.Context(), h.prompt.SystemInstruction(), h.prompt.Build(req.Fields))
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, TemplateResponse{Status: StatusSuccess, Template: template})
}

// GetGraph returns the stored graph.
func (h *Handlers) GetGraph(w http.ResponseWriter, r *http.Request) error {
	g, err := h.graph.Load(r.Context())
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, g)
}

// SaveGraph accepts the editor graph.
func (h *Handlers) SaveGraph(w http.ResponseWriter, r *http.Request) error {
	var req SaveGraphRequest
	if err := h.decoder.Decode(w, r, &req); err != nil {
		return err
	}

	var nodes []graph.Node
	if err := json.Unmarshal(req.Nodes, &nodes); err != nil {
		return malformedBody(err)
	}

	if err := h.graph.Save(r.Context(), graph.Graph{Nodes: nodes, Connections: req.Connections}); err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, MessageResponse{Status: StatusSuccess, Message: MessageNodesSaved})
}

// ListRevisions returns stored revision metadata, newest first. The
// optional limit query parameter caps the result.
func (h *Handlers) ListRevisions(w http.ResponseWriter, r *http.Request) error {
	if h.revisions == nil {
		return &RequestError{Status: http.StatusNotFound, Message: "Graph backend does not keep revisions"}
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return &ValidationError{Field: "limit", Message: "limit must be a non-negative integer"}
		}
		limit = n
	}

	revisions, err := h.revisions.Revisions(r.Context(), limit)
	if err != nil {
		return err
	}
	return WriteJSON(w, http.StatusOK, RevisionsResponse{Status: StatusSuccess, Revisions: revisions})
}

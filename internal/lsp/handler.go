package lsp

import (
	"log"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SleuthHandler implements the LSP server handlers for snippet files:
// every open or change re-runs the full pipeline (parse, bind, lower,
// detect) and publishes the resulting diagnostics.
type SleuthHandler struct {
	mu      sync.RWMutex
	content map[protocol.DocumentUri]string
}

func NewSleuthHandler() *SleuthHandler {
	return &SleuthHandler{
		content: make(map[protocol.DocumentUri]string),
	}
}

// Initialize responds to the LSP client's initialize request and advertises
// the server's capabilities
func (h *SleuthHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
		},
	}, nil
}

func (h *SleuthHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("Sleuth LSP Initialized")
	return nil
}

func (h *SleuthHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("Sleuth LSP Shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *SleuthHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	h.setContent(params.TextDocument.URI, params.TextDocument.Text)
	h.publish(ctx, params.TextDocument.URI)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *SleuthHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, params.TextDocument.URI)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *SleuthHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.setContent(params.TextDocument.URI, whole.Text)
		}
	}
	h.publish(ctx, params.TextDocument.URI)
	return nil
}

// TextDocumentCompletion offers the fixed environment names.
func (h *SleuthHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	items := make([]protocol.CompletionItem, 0, len(completionNames))
	kind := protocol.CompletionItemKindVariable
	for _, name := range completionNames {
		items = append(items, protocol.CompletionItem{
			Label: name,
			Kind:  &kind,
		})
	}
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

var completionNames = []string{
	"msg.sender",
	"msg.value",
	"tx.origin",
	"this",
	"delete",
	"new",
	"type",
}

func (h *SleuthHandler) setContent(uri protocol.DocumentUri, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content[uri] = text
}

func (h *SleuthHandler) publish(ctx *glsp.Context, uri protocol.DocumentUri) {
	h.mu.RLock()
	source := h.content[uri]
	h.mu.RUnlock()

	diagnostics := Analyze(string(uri), source)
	if diagnostics == nil {
		// A non-nil empty list clears stale diagnostics on the client.
		diagnostics = []protocol.Diagnostic{}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

// Package lsp serves tablature structure to editors over the language
// server protocol: document symbols for blocks and measures, and folding
// ranges for tab segments.
package lsp

import (
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/tablature/config"
	"github.com/dhamidi/tablature/workspace"
)

const lsName = "tabs"

var log = commonlog.GetLogger("tabs.lsp")

type Server struct {
	mu      sync.Mutex
	docs    map[string]*workspace.Document
	budget  config.Budget
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(version string, cfg config.Config) *Server {
	ls := &Server{
		docs:    make(map[string]*workspace.Document),
		budget:  cfg.Budget,
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	change := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &change,
	}
	capabilities.DocumentSymbolProvider = true
	capabilities.FoldingRangeProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	clear(ls.docs)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.open(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ls.change(params.TextDocument.URI, params.ContentChanges)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.docs, params.TextDocument.URI)
	return nil
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc := ls.finished(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return DocumentSymbols(doc), nil
}

func (ls *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc := ls.finished(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return FoldingRanges(doc), nil
}

// open registers a document and runs a focused first slice of work.
func (ls *Server) open(uri, text string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc := workspace.NewDocument(uri, text, ls.budget)
	doc.Focus()
	doc.Work(ls.budget.Steps)
	ls.docs[uri] = doc
	log.Infof("opened %s", uri)
}

// change applies content changes and runs one slice of work.
func (ls *Server) change(uri string, changes []any) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	doc, ok := ls.docs[uri]
	if !ok {
		log.Warningf("change for unknown document %s", uri)
		return
	}
	doc.Edit(Edits(doc.Text(), changes)...)
	doc.Work(ls.budget.Steps)
}

func (ls *Server) finished(uri string) *workspace.Document {
	doc, ok := ls.docs[uri]
	if !ok {
		log.Warningf("request for unknown document %s", uri)
		return nil
	}
	doc.Finish()
	return doc
}

func boolPtr(b bool) *bool {
	return &b
}

// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"sleuth/internal/lsp"
)

const lsName = "sleuth" // Name identifier for the language server

var handler protocol.Handler

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	sleuthHandler := lsp.NewSleuthHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:             sleuthHandler.Initialize,
		Initialized:            sleuthHandler.Initialized,
		Shutdown:               sleuthHandler.Shutdown,
		TextDocumentDidOpen:    sleuthHandler.TextDocumentDidOpen,
		TextDocumentDidClose:   sleuthHandler.TextDocumentDidClose,
		TextDocumentDidChange:  sleuthHandler.TextDocumentDidChange,
		TextDocumentCompletion: sleuthHandler.TextDocumentCompletion,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting Sleuth LSP server...")

	// Serve over standard input/output, the transport editors expect
	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting Sleuth LSP server:", err)
		os.Exit(1)
	}
}

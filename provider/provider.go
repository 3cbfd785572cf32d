// Package provider implements translation backends for the doclai engine.
//
// Every provider receives a numbered map ("0".."n-1") and answers with a map
// over the same keys. Providers do not check the answer for completeness;
// the engine does that and retries once with a repair hint.
package provider

import "github.com/ZaguanLabs/doclai"

// AIProvider is the interface for AI translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = doclai.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = doclai.TranslateRequest

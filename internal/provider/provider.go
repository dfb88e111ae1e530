package provider

import (
	"context"

	"github.com/agisilaos/gfare/internal/model"
)

// Searcher prices one request. Errors are *Error values.
type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (model.Result, error)
}

// TokenSource hands out bearer tokens. Invalidate reports that stale was
// rejected upstream so the next Token call fetches a fresh one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(stale string)
}

var (
	_ Searcher    = (*AmadeusClient)(nil)
	_ TokenSource = (*TokenManager)(nil)
)

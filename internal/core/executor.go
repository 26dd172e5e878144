package core

import (
	"context"

	"github.com/coderoom/coderoom-server/internal/executor"
)

// Executor abstracts code execution for the Hub. The dispatcher in
// internal/executor implements it; tests substitute their own.
type Executor interface {
	// Execute runs one request to completion and always returns a result,
	// regardless of which failure path was taken.
	Execute(ctx context.Context, req executor.Request) executor.Result
}

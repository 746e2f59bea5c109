// File: services/intelligence/interface.go
package ai

import "context"

// Oracle turns a prompt into free-form text. Its output is untrusted and must go
// through ParseExtraction before use.
type Oracle interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

func (f OracleFunc) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

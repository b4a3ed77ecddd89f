package tips

import "context"

// Provider generates a tip for one fixture. The concrete generator lives in
// another service; this contract is all the core depends on.
type Provider interface {
	Generate(ctx context.Context, req Request) (Tip, error)
}

package checkout

import "context"

// StateStore persists checkout progress per storefront session.
type StateStore interface {
	// Load returns nil, nil for sessions without stored state.
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state State) error
}

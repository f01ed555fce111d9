package query

import (
	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// SearchBySignature finds nodes whose signature matches pattern (SQL `%`
// wildcards), optionally scoped to files under scopePath.
func (e *Engine) SearchBySignature(pattern, scopePath string) ([]*store.Node, error) {
	if pattern == "" {
		return nil, vgerr.InvalidInputf("pattern must not be empty")
	}
	nodes, err := e.Store.SignatureSearch(pattern, scopePath)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "signature search", err)
	}
	return nodes, nil
}

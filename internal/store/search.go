package store

import (
	"fmt"
	"slices"
	"strings"
)

// SignatureSearch returns nodes whose signature matches the given pattern
// (SQL `%` wildcards, per the spec's pattern contract), optionally scoped
// to files under scopePath, ranked exact-match > prefix > contains.
func (s *Store) SignatureSearch(pattern, scopePath string) ([]*Node, error) {
	query := "SELECT " + nodeColumns + " FROM nodes WHERE signature LIKE ?"
	args := []any{pattern}
	if scopePath != "" {
		// Match the scope file itself or anything beneath it as a
		// directory; a bare prefix would also match "srcfoo.py" for "src".
		scope := strings.TrimSuffix(scopePath, "/")
		query += " AND (file_path = ? OR file_path LIKE ?)"
		args = append(args, scope, scope+"/%")
	}

	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("signature search: %w", err)
	}
	defer rows.Close()
	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}

	literal := literalFromPattern(pattern)
	sortBySignatureRelevance(nodes, literal)
	return nodes, nil
}

// literalFromPattern strips leading/trailing `%` to get the literal
// substring a caller searched for, used only for relevance ranking; the
// SQL LIKE match itself still uses the pattern verbatim.
func literalFromPattern(pattern string) string {
	return strings.Trim(pattern, "%")
}

func sortBySignatureRelevance(nodes []*Node, literal string) {
	if literal == "" {
		return
	}
	lower := strings.ToLower(literal)
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		ra, rb := signatureRank(a.Signature, lower), signatureRank(b.Signature, lower)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// signatureRank returns 0 for an exact match, 1 for a prefix match, 2 for
// any other (contains) match; lower ranks sort first.
func signatureRank(signature, lowerLiteral string) int {
	lowerSig := strings.ToLower(signature)
	switch {
	case lowerSig == lowerLiteral:
		return 0
	case strings.HasPrefix(lowerSig, lowerLiteral):
		return 1
	default:
		return 2
	}
}

// Package ids computes the stable, content-addressable node identifiers
// the graph store keys on.
package ids

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/xxh3"
)

// NodeID derives a node's ID from the pair (normalised project-relative
// file path, qualified name): hex(xxh3_64(path + "::" + qualified_name)).
// xxh3 is not cryptographic, but node IDs need determinism and speed, not
// collision-resistance against an adversary.
//
// The separator is replaced explicitly rather than via filepath.ToSlash so
// the hash is identical across host OSes, not just on Windows.
func NodeID(filePath, qualifiedName string) string {
	normalised := strings.ReplaceAll(filePath, `\`, "/")
	h := xxh3.HashString(normalised + "::" + qualifiedName)
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(buf[:])
}

// PlaceholderID derives the ID for a placeholder node standing in for an
// unresolved qualified name, using the spec's fixed "<external>" file_path.
func PlaceholderID(qualifiedName string) string {
	return NodeID("<external>", qualifiedName)
}

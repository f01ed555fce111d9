package resolve

import "strings"

// CallRegistry indexes every node produced in a batch by qualified name and
// simple name, so call-site references can be resolved project-wide.
type CallRegistry struct {
	exact  map[string]string   // qualifiedName -> node ID
	byName map[string][]string // simple name -> []qualifiedName
}

// NewCallRegistry creates an empty registry.
func NewCallRegistry() *CallRegistry {
	return &CallRegistry{exact: make(map[string]string), byName: make(map[string][]string)}
}

// Register adds a node to the registry, keyed by its qualified name.
func (r *CallRegistry) Register(qualifiedName, nodeID string) {
	if _, exists := r.exact[qualifiedName]; exists {
		return
	}
	r.exact[qualifiedName] = nodeID
	simple := simpleName(qualifiedName)
	r.byName[simple] = append(r.byName[simple], qualifiedName)
}

// NodeID returns the node ID registered for an exact qualified name.
func (r *CallRegistry) NodeID(qualifiedName string) (string, bool) {
	id, ok := r.exact[qualifiedName]
	return id, ok
}

// Resolve finds the qualified name of a callee using the cascade: import-map
// hit, same-module match, project-wide unique match by simple name, then
// suffix/import-distance scoring among same-named candidates.
func (r *CallRegistry) Resolve(calleeName, moduleQN string, importMap map[string]string) (string, bool) {
	parts := strings.SplitN(calleeName, ".", 2)
	prefix := parts[0]
	var suffix string
	if len(parts) > 1 {
		suffix = parts[1]
	}

	if importMap != nil {
		if resolved, ok := importMap[prefix]; ok {
			var candidate string
			if suffix != "" {
				candidate = resolved + "." + suffix
			} else {
				candidate = resolved
			}
			if _, exists := r.exact[candidate]; exists {
				return candidate, true
			}
			if suffix != "" {
				for qn := range r.exact {
					if strings.HasPrefix(qn, resolved+".") && strings.HasSuffix(qn, "."+suffix) {
						return qn, true
					}
				}
			}
		}
	}

	sameModule := moduleQN + "." + calleeName
	if _, exists := r.exact[sameModule]; exists {
		return sameModule, true
	}
	if suffix != "" {
		sameModuleQualified := moduleQN + "." + suffix
		if _, exists := r.exact[sameModuleQualified]; exists {
			return sameModuleQualified, true
		}
	}

	lookupName := calleeName
	if suffix != "" {
		lookupName = suffix
	}
	simple := simpleName(lookupName)
	candidates := r.byName[simple]
	if len(candidates) == 1 {
		return candidates[0], true
	}

	if suffix != "" {
		var matches []string
		for _, qn := range candidates {
			if strings.HasSuffix(qn, "."+calleeName) {
				return qn, true
			}
			if strings.HasSuffix(qn, "."+suffix) {
				matches = append(matches, qn)
			}
		}
		if len(matches) == 1 {
			return matches[0], true
		}
		if len(matches) > 1 {
			return bestByImportDistance(matches, moduleQN), true
		}
	}

	if len(candidates) > 1 {
		return bestByImportDistance(candidates, moduleQN), true
	}

	return "", false
}

// FindByName returns every qualified name registered under a simple name,
// as a copy the caller may modify.
func (r *CallRegistry) FindByName(name string) []string {
	out := make([]string, len(r.byName[name]))
	copy(out, r.byName[name])
	return out
}

func simpleName(qn string) string {
	if idx := strings.LastIndex(qn, "."); idx >= 0 {
		return qn[idx+1:]
	}
	return qn
}

// bestByImportDistance picks the candidate sharing the longest common
// dot-segment prefix with the caller's module qualified name, approximating
// "closest in the project structure".
func bestByImportDistance(candidates []string, callerModuleQN string) string {
	best := candidates[0]
	bestLen := -1
	for _, c := range candidates {
		if l := commonPrefixLen(c, callerModuleQN); l > bestLen {
			bestLen = l
			best = c
		}
	}
	return best
}

func commonPrefixLen(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")
	count := 0
	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if aParts[i] != bParts[i] {
			break
		}
		count++
	}
	return count
}

package query

import (
	"sort"

	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/resolve"
	"github.com/vibegraph/vibegraph/internal/store"
	"github.com/vibegraph/vibegraph/internal/vgerr"
)

// Dependencies groups a file's outgoing imports by resolved category.
type Dependencies struct {
	FilePath   string
	Internal   []string
	StdLib     []string
	ThirdParty []string
}

// GetDependencies returns the categorized import targets of filePath.
// Internal imports are reported by their target file path; stdlib and
// third-party imports are reported by the import string as written.
func (e *Engine) GetDependencies(filePath string) (*Dependencies, error) {
	nodes, err := e.Store.FindNodesByFile(filePath)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "list nodes by file", err)
	}
	moduleNode := findModuleNode(nodes)
	if moduleNode == nil {
		return nil, vgerr.NotFoundf("no module found for file %q", filePath)
	}

	edges, err := e.Store.EdgesFrom(moduleNode.ID, store.RelationImports)
	if err != nil {
		return nil, vgerr.Wrap(vgerr.Internal, "list import edges", err)
	}

	l, _ := lang.LanguageForExtension(extOf(filePath))
	emptyReg := resolve.NewRegistry(nil)

	deps := &Dependencies{FilePath: filePath}
	internalSeen, stdlibSeen, thirdSeen := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, edge := range edges {
		target, err := e.Store.FindNodeByID(edge.ToID)
		if err != nil || target == nil {
			continue
		}
		if target.FilePath != store.ExternalFile {
			if !internalSeen[target.FilePath] {
				internalSeen[target.FilePath] = true
				deps.Internal = append(deps.Internal, target.FilePath)
			}
			continue
		}
		resn := resolve.Resolve(string(l), target.QualifiedName, filePath, emptyReg)
		if resn.Category == resolve.StdLib {
			if !stdlibSeen[target.QualifiedName] {
				stdlibSeen[target.QualifiedName] = true
				deps.StdLib = append(deps.StdLib, target.QualifiedName)
			}
		} else {
			if !thirdSeen[target.QualifiedName] {
				thirdSeen[target.QualifiedName] = true
				deps.ThirdParty = append(deps.ThirdParty, target.QualifiedName)
			}
		}
	}

	sort.Strings(deps.Internal)
	sort.Strings(deps.StdLib)
	sort.Strings(deps.ThirdParty)
	return deps, nil
}

func findModuleNode(nodes []*store.Node) *store.Node {
	for _, n := range nodes {
		if n.Kind == store.KindModule {
			return n
		}
	}
	return nil
}

func extOf(filePath string) string {
	for i := len(filePath) - 1; i >= 0; i-- {
		if filePath[i] == '.' {
			return filePath[i:]
		}
		if filePath[i] == '/' {
			break
		}
	}
	return ""
}

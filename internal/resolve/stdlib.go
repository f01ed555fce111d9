package resolve

import "strings"

// stdlibSets are static, per-language standard-library module name sets,
// consulted on an absolute-import registry miss.
var stdlibSets = map[string]map[string]bool{
	"python": {
		"os": true, "sys": true, "re": true, "json": true, "io": true,
		"time": true, "datetime": true, "collections": true, "itertools": true,
		"functools": true, "typing": true, "pathlib": true, "subprocess": true,
		"threading": true, "asyncio": true, "logging": true, "unittest": true,
		"math": true, "random": true, "string": true, "abc": true, "enum": true,
		"dataclasses": true, "contextlib": true, "copy": true, "pickle": true,
		"socket": true, "struct": true, "traceback": true, "warnings": true,
		"argparse": true, "shutil": true, "tempfile": true, "hashlib": true,
		"base64": true, "urllib": true, "http": true, "sqlite3": true,
		"csv": true, "xml": true, "uuid": true, "decimal": true, "queue": true,
		"multiprocessing": true, "inspect": true, "importlib": true,
	},
	"javascript": {
		"assert": true, "buffer": true, "child_process": true, "cluster": true,
		"crypto": true, "dgram": true, "dns": true, "domain": true,
		"events": true, "fs": true, "http": true, "https": true,
		"net": true, "os": true, "path": true, "perf_hooks": true,
		"process": true, "punycode": true, "querystring": true, "readline": true,
		"repl": true, "stream": true, "string_decoder": true, "sys": true,
		"timers": true, "tls": true, "tty": true, "url": true,
		"util": true, "v8": true, "vm": true, "worker_threads": true,
		"zlib": true, "console": true, "module": true,
	},
	"rust": {
		"std": true, "core": true, "alloc": true, "proc_macro": true, "test": true,
	},
	"java": {
		"java": true, "javax": true,
	},
	"csharp": {
		"System": true, "Microsoft": true,
	},
	"php": {
		"Closure": true, "Generator": true, "Iterator": true,
	},
	"ruby": {
		"json": true, "net": true, "uri": true, "set": true, "time": true,
		"date": true, "fileutils": true, "optparse": true, "logger": true,
		"digest": true, "base64": true, "socket": true, "yaml": true,
	},
}

var stdlibAliases = map[string]string{
	"typescript": "javascript",
	"tsx":        "javascript",
}

// isStdlib reports whether an import string names a standard-library module
// for the given language. Go has no fixed set: any import whose first path
// segment contains no dot is treated as stdlib, since third-party paths are
// always host/org-qualified (github.com/..., golang.org/x/...).
func isStdlib(language, importString string) bool {
	if language == "go" {
		first := importString
		if idx := strings.Index(importString, "/"); idx >= 0 {
			first = importString[:idx]
		}
		return !strings.Contains(first, ".")
	}
	if language == "rust" {
		root := importString
		if idx := strings.Index(root, "::"); idx >= 0 {
			root = root[:idx]
		}
		return stdlibSets["rust"][root]
	}

	if alias, ok := stdlibAliases[language]; ok {
		language = alias
	}
	set, ok := stdlibSets[language]
	if !ok {
		return false
	}

	root := importString
	root = strings.TrimPrefix(root, "node:")
	if idx := strings.IndexAny(root, "./\\"); idx > 0 {
		root = root[:idx]
	} else if idx == 0 {
		return false // relative import, never stdlib
	}
	return set[root]
}

package resolve

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/mark3labs/swagger2resolve/internal/spectree"
)

// DocLoader is the external collaborator contract described by spec.md §6:
// Load(absolutePath) -> SpecTree. The resolver never parses bytes itself;
// it only joins paths and asks a DocLoader for the resulting tree.
type DocLoader interface {
	Load(ctx context.Context, absolutePath string) (*spectree.Node, error)
}

// state is the ResolverState described in spec.md §3: the single owner of
// the tree being rewritten, plus the monotonic caches that break cross-file
// and allOf cycles.
type state struct {
	tree    *spectree.Node
	docPath string
	docDir  string
	opts    effectiveOptions
	loader  DocLoader

	// visitedEntities maps a local pointer already spliced in from an
	// external file to the spliced subtree, so a second encounter of the
	// same pointer short-circuits (spec.md §3, §5).
	visitedEntities map[string]*spectree.Node

	// resolvedAllOfModels maps a model's local pointer to the model once
	// ComposeModel has finished with it, breaking allOf re-entry cycles.
	resolvedAllOfModels map[string]*spectree.Node

	// docCache memoizes DocLoader.Load results by absolute path for the
	// lifetime of one Resolve call.
	docCache map[string]*spectree.Node

	// unrecognizedTopLevelKeys collects top-level document keys that are
	// neither a known Swagger 2.0 field nor an "x-" vendor extension.
	// Informational only; spec.md's Non-goals exclude schema validation.
	unrecognizedTopLevelKeys []string

	// discriminatorProps marks property nodes rewritten by
	// rewriteDiscriminatorProperty, by pointer identity, so NullableResolver
	// (a later pass) can leave them alone: a discriminator's single-value
	// enum must never be hidden inside a oneOf null wrapper.
	discriminatorProps map[*spectree.Node]bool
}

func newState(tree *spectree.Node, docPath string, opts effectiveOptions, loader DocLoader) *state {
	dir := docDirOf(docPath)
	return &state{
		tree:                tree,
		docPath:             docPath,
		docDir:              dir,
		opts:                opts,
		loader:              loader,
		visitedEntities:     make(map[string]*spectree.Node),
		resolvedAllOfModels: make(map[string]*spectree.Node),
		discriminatorProps:  make(map[*spectree.Node]bool),
	}
}

// docDirOf returns the directory portion of a path or URL. For URLs, only
// the URL's Path component is run through path.Dir — path.Dir ultimately
// calls path.Clean, which collapses repeated slashes, and would otherwise
// mangle the "//" after the scheme (https://example.com/... ->
// https:/example.com/...).
func docDirOf(docPath string) string {
	if isURL(docPath) {
		u, err := url.Parse(docPath)
		if err != nil {
			return docPath
		}
		u.Path = path.Dir(u.Path)
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	return filepath.Dir(docPath)
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// joinRef joins a $ref file path onto a base directory, the same way for
// both URLs and filesystem paths: relative segments resolve against dir.
func joinRef(dir, ref string) string {
	if isURL(ref) {
		return ref
	}
	if isURL(dir) {
		base, err := url.Parse(strings.TrimSuffix(dir, "/") + "/")
		if err != nil {
			return dir + "/" + ref
		}
		rel, err := url.Parse(ref)
		if err != nil {
			return dir + "/" + ref
		}
		return base.ResolveReference(rel).String()
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}

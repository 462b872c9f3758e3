package reader

import (
	"fmt"
	"strings"

	"github.com/joshuapare/shellbags/pkg/types"
)

var rootAliases = []string{
	"HKEY_CURRENT_USER", "HKCU",
	"HKEY_LOCAL_MACHINE", "HKLM",
	"HKEY_CLASSES_ROOT", "HKCR",
	"HKEY_USERS", "HKU",
}

// Find resolves a backslash separated path below the root key. Matching is
// case-insensitive; a leading hive alias or the root key's own name is
// ignored. The returned error names the first missing segment.
func (r *Reader) Find(path string) (types.NodeID, error) {
	current, err := r.Root()
	if err != nil {
		return 0, err
	}
	segments := normalizePath(stripRootPrefix(strings.TrimSpace(path)))
	if len(segments) == 0 {
		return current, nil
	}
	if rootName, err := r.KeyName(current); err == nil && strings.EqualFold(rootName, segments[0]) {
		segments = segments[1:]
	}

	for i, seg := range segments {
		next, err := r.Lookup(current, seg)
		if err != nil {
			if k, ok := types.KindOf(err); ok && k == types.ErrKindNotFound {
				return 0, &types.Error{
					Kind: types.ErrKindNotFound,
					Msg:  fmt.Sprintf(`key "%s"`, `\`+strings.Join(segments[:i+1], `\`)),
					Err:  types.ErrNotFound,
				}
			}
			return 0, err
		}
		current = next
	}
	return current, nil
}

func normalizePath(path string) []string {
	path = strings.ReplaceAll(path, "/", `\`)
	parts := strings.Split(path, `\`)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stripRootPrefix(path string) string {
	trimmed := strings.TrimLeft(path, `\/`)
	for _, alias := range rootAliases {
		if len(trimmed) < len(alias) || !strings.EqualFold(trimmed[:len(alias)], alias) {
			continue
		}
		rest := trimmed[len(alias):]
		if rest == "" || rest[0] == '\\' || rest[0] == '/' {
			return rest
		}
	}
	return path
}

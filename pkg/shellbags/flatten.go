package shellbags

import "strings"

// Row is one folder of the flattened tree.
type Row struct {
	Key         string    `json:"key"`  // subkey chain below BagMRU, e.g. 1\0\3
	Path        string    `json:"path"` // decoded names joined with '\'
	SubkeyCount int       `json:"subkeyCount"`
	Created     Timestamp `json:"created"`
	Modified    Timestamp `json:"modified"`
	Accessed    Timestamp `json:"accessed"`
}

// Flatten lists the named nodes of tree depth-first, parents before
// children, siblings in store order. Nodes without a name add no path
// segment and no row, but their descendants are still listed.
func Flatten(tree *Tree) []Row {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var rows []Row
	flattenNode(tree.Root, "", "", &rows)
	return rows
}

func flattenNode(n *BagNode, keyPrefix, pathPrefix string, rows *[]Row) {
	key := joinPath(keyPrefix, n.Key)
	path := pathPrefix
	if n.Named() {
		path = joinPath(pathPrefix, n.Item.Name)
		*rows = append(*rows, Row{
			Key:         key,
			Path:        path,
			SubkeyCount: n.SubkeyCount,
			Created:     n.Item.Created,
			Modified:    n.Item.Modified,
			Accessed:    n.Item.Accessed,
		})
	}
	if n.Children == nil {
		return
	}
	for el := n.Children.Front(); el != nil; el = el.Next() {
		flattenNode(el.Value, key, path, rows)
	}
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(seg))
	b.WriteString(prefix)
	b.WriteByte('\\')
	b.WriteString(seg)
	return b.String()
}

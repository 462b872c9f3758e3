package shellbags

import (
	"errors"
	"fmt"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/zap"

	"github.com/joshuapare/shellbags/pkg/types"
)

// ThisPCName is the name given to the synthesized This PC node.
const ThisPCName = `Desktop\This PC`

// DefaultMaxDepth bounds how many levels below a drive are walked.
const DefaultMaxDepth = 64

// Store is the read access the analyzer needs from a hive.
type Store interface {
	// Values lists the values of key in store order.
	Values(key types.NodeID) ([]types.Value, error)
	// Lookup returns the direct subkey called name. A missing subkey is
	// reported with an error wrapping types.ErrNotFound.
	Lookup(parent types.NodeID, name string) (types.NodeID, error)
	// SubkeyCount returns the subkey count recorded in key.
	SubkeyCount(key types.NodeID) (int, error)
}

// Children maps subkey names to nodes in store order.
type Children = orderedmap.OrderedMap[string, *BagNode]

// BagNode is one BagMRU subkey. Item is nil when the matching value did not
// decode as a folder item; the node is kept so its subkeys are still walked.
// SubkeyCount comes from the store and may exceed Children.Len().
type BagNode struct {
	Key         string
	Item        *ShellItem
	SubkeyCount int
	Children    *Children
}

// Named reports whether the node carries a decoded name.
func (n *BagNode) Named() bool { return n.Item != nil }

// Name returns the decoded name, or "" for nodes without metadata.
func (n *BagNode) Name() string {
	if n.Item == nil {
		return ""
	}
	return n.Item.Name
}

// Tree is the reconstructed history. Root is the This PC node; its children
// are the drives.
type Tree struct {
	Root *BagNode
}

func newNode(key string, item *ShellItem, subkeys int) *BagNode {
	return &BagNode{
		Key:         key,
		Item:        item,
		SubkeyCount: subkeys,
		Children:    orderedmap.NewOrderedMap[string, *BagNode](),
	}
}

// Builder walks BagMRU subkeys below a drive item.
type Builder struct {
	store    Store
	loc      *time.Location
	log      *zap.Logger
	maxDepth int
}

// NewBuilder returns a Builder reading from store.
func NewBuilder(store Store, opts ...Option) *Builder {
	o := newOptions(opts)
	return &Builder{store: store, loc: o.loc, log: o.log, maxDepth: o.maxDepth}
}

// BuildSubtree decodes every numbered value of key that has a same-named
// subkey and recurses into that subkey. Records that fail to decode give
// nodes without an Item; values without a subkey are skipped. Errors are
// only returned when the store itself cannot be read.
func (b *Builder) BuildSubtree(key types.NodeID) (*Children, error) {
	return b.build(key, "", 0, map[types.NodeID]struct{}{key: {}})
}

func (b *Builder) build(key types.NodeID, chain string, depth int, onPath map[types.NodeID]struct{}) (*Children, error) {
	children := orderedmap.NewOrderedMap[string, *BagNode]()
	vals, err := b.store.Values(key)
	if err != nil {
		return nil, fmt.Errorf(`read values of bag "%s": %w`, chain, err)
	}
	for _, v := range vals {
		if !IsDecimal(v.Name) {
			continue
		}
		childChain := joinPath(chain, v.Name)

		item, ok := DecodeShellItem(v.Data, b.loc)
		if !ok {
			b.log.Debug("no folder metadata", zap.String("bag", childChain), zap.Int("size", len(v.Data)))
		}

		sub, err := b.store.Lookup(key, v.Name)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				b.log.Debug("value without subkey", zap.String("bag", childChain))
				continue
			}
			return nil, fmt.Errorf(`open bag "%s": %w`, childChain, err)
		}
		count, err := b.store.SubkeyCount(sub)
		if err != nil {
			return nil, fmt.Errorf(`count subkeys of bag "%s": %w`, childChain, err)
		}
		node := newNode(v.Name, item, count)

		switch _, loop := onPath[sub]; {
		case loop:
			b.log.Warn("bag refers back to an ancestor, not descending", zap.String("bag", childChain))
		case depth+1 >= b.maxDepth:
			b.log.Warn("depth limit reached, not descending",
				zap.String("bag", childChain), zap.Int("max_depth", b.maxDepth))
		default:
			onPath[sub] = struct{}{}
			grand, err := b.build(sub, childChain, depth+1, onPath)
			delete(onPath, sub)
			if err != nil {
				return nil, err
			}
			node.Children = grand
		}
		children.Set(v.Name, node)
	}
	return children, nil
}

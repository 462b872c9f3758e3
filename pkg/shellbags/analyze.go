package shellbags

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joshuapare/shellbags/internal/reader"
	"github.com/joshuapare/shellbags/pkg/types"
)

// DefaultKeyPath is where UsrClass.dat keeps the BagMRU tree.
const DefaultKeyPath = `\Local Settings\Software\Microsoft\Windows\Shell\BagMRU`

// ErrThisPCNotFound is returned when no top-level BagMRU value is the
// This PC item.
var ErrThisPCNotFound = &types.Error{
	Kind: types.ErrKindNotFound,
	Msg:  "This PC item not found in BagMRU",
	Err:  types.ErrNotFound,
}

// Option configures Analyze, AnalyzeFile and NewBuilder.
type Option func(*options)

type options struct {
	log      *zap.Logger
	keyPath  string
	maxDepth int
	loc      *time.Location
}

func newOptions(opts []Option) options {
	o := options{
		log:      zap.NewNop(),
		keyPath:  DefaultKeyPath,
		maxDepth: DefaultMaxDepth,
		loc:      SourceZone,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for progress and skipped records.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithKeyPath overrides the BagMRU key path used by AnalyzeFile.
func WithKeyPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.keyPath = path
		}
	}
}

// WithMaxDepth bounds the number of levels walked below each drive.
// Non-positive values keep DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLocation sets the zone timestamps are converted to.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// Analyze rebuilds the tree below the BagMRU key bagMRU of store.
func Analyze(store Store, bagMRU types.NodeID, opts ...Option) (*Tree, error) {
	o := newOptions(opts)
	b := &Builder{store: store, loc: o.loc, log: o.log, maxDepth: o.maxDepth}

	top, err := store.Values(bagMRU)
	if err != nil {
		return nil, fmt.Errorf("read BagMRU values: %w", err)
	}
	pcKey, folder, ok := findThisPC(top)
	if !ok {
		return nil, ErrThisPCNotFound
	}
	o.log.Info("found This PC", zap.String("key", pcKey), zap.String("folder_id", folder.UUID().String()))

	pcID, err := store.Lookup(bagMRU, pcKey)
	if err != nil {
		return nil, fmt.Errorf(`open BagMRU\%s: %w`, pcKey, err)
	}
	pcCount, err := store.SubkeyCount(pcID)
	if err != nil {
		return nil, fmt.Errorf(`count subkeys of BagMRU\%s: %w`, pcKey, err)
	}
	root := newNode(pcKey, &ShellItem{Name: ThisPCName}, pcCount)

	pcValues, err := store.Values(pcID)
	if err != nil {
		return nil, fmt.Errorf(`read values of BagMRU\%s: %w`, pcKey, err)
	}
	for _, d := range FindDrives(pcValues) {
		chain := joinPath(pcKey, d.Key)
		driveID, err := store.Lookup(pcID, d.Key)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				o.log.Debug("drive without subkey", zap.String("bag", chain), zap.String("drive", d.Label))
				continue
			}
			return nil, fmt.Errorf(`open BagMRU\%s: %w`, chain, err)
		}
		count, err := store.SubkeyCount(driveID)
		if err != nil {
			return nil, fmt.Errorf(`count subkeys of BagMRU\%s: %w`, chain, err)
		}
		o.log.Info("found drive", zap.String("key", d.Key), zap.String("drive", d.Label))

		node := newNode(d.Key, &ShellItem{Name: d.Label}, count)
		onPath := map[types.NodeID]struct{}{bagMRU: {}, pcID: {}, driveID: {}}
		node.Children, err = b.build(driveID, chain, 0, onPath)
		if err != nil {
			return nil, err
		}
		root.Children.Set(d.Key, node)
	}
	return &Tree{Root: root}, nil
}

// AnalyzeFile opens the hive at path, resolves the BagMRU key and analyzes
// it. The hive is closed before returning.
func AnalyzeFile(path string, opts ...Option) (tree *Tree, err error) {
	o := newOptions(opts)
	r, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = fmt.Errorf(`close hive "%s": %w`, path, cerr)
		}
	}()

	bagMRU, err := r.Find(o.keyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	o.log.Debug("opened hive", zap.String("path", path), zap.String("key_path", o.keyPath))
	return Analyze(r, bagMRU, opts...)
}

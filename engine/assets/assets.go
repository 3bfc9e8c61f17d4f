package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetInfo struct {
	// Path is relative to the asset directory, with forward slashes.
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
	Modified   time.Time
}

// Name is the file name without directory and extension.
func (ai AssetInfo) Name() string {
	base := filepath.Base(ai.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ChangeHandler is called from the watcher goroutine when an indexed asset
// is created, written or removed.
type ChangeHandler func(info AssetInfo, op fsnotify.Op)

type AssetManager struct {
	basePath string
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader
	handlers []ChangeHandler

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// Initialize indexes every known asset under assetsDir. With watch set the
// directory tree is also watched and the index follows changes on disk.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	abs, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.basePath = abs

	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		core.LogWarn("Asset directory '%s' does not exist, no assets indexed.", abs)
		return nil
	}

	if watch {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
		go am.start()
	}

	if err := am.watchRecursive(am.basePath); err != nil {
		_ = am.Shutdown()
		return err
	}

	core.LogInfo("Asset manager initialized with base path '%s' (%d assets).", am.basePath, am.Len())
	return nil
}

// RegisterLoader sets the loader used for assetType.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// OnChange registers a handler for watched changes.
func (am *AssetManager) OnChange(handler ChangeHandler) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.handlers = append(am.handlers, handler)
}

// Len returns the number of indexed assets.
func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Assets returns the indexed assets of the given type sorted by path.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var out []AssetInfo
	for _, a := range am.assets {
		if a.Type == resourceType {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b AssetInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

// Lookup resolves name to an indexed asset. name is either a relative path
// ("models/quad.obj") or a bare name ("quad").
func (am *AssetManager) Lookup(name string, resourceType metadata.ResourceType) (AssetInfo, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	if asset, ok := am.assets[filepath.ToSlash(name)]; ok && asset.Type == resourceType {
		return asset, nil
	}
	var found []AssetInfo
	for _, a := range am.assets {
		if a.Type == resourceType && a.Name() == name {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return AssetInfo{}, fmt.Errorf("%w: %s (%s)", ErrAssetNotFound, name, resourceType)
	case 1:
		return found[0], nil
	default:
		return AssetInfo{}, fmt.Errorf("asset name %q is ambiguous (%d matches)", name, len(found))
	}
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	asset, err := am.Lookup(name, resourceType)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	loader, loaderExists := am.loaders[asset.Type]
	asset.LastLoaded = time.Now()
	am.assets[asset.Path] = asset
	am.mutex.Unlock()

	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	return loader.Load(am.fullPath(asset.Path), resourceType, params)
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

// Shutdown stops the watcher, if any.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	if am.fsnotify == nil {
		return nil
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) fullPath(rel string) string {
	return filepath.Join(am.basePath, filepath.FromSlash(rel))
}

func (am *AssetManager) relPath(path string) string {
	rel, err := filepath.Rel(am.basePath, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError(err.Error())
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					am.notify(info, e.Op)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if info, ok := am.removeAsset(e.Name); ok {
					am.notify(info, e.Op)
				}
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notify(info AssetInfo, op fsnotify.Op) {
	am.mutex.RLock()
	handlers := append([]ChangeHandler(nil), am.handlers...)
	am.mutex.RUnlock()

	for _, h := range handlers {
		h(info, op)
	}
}

// watchRecursive indexes all files under the given path and, when watching,
// adds every directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}

	info := AssetInfo{
		Path: am.relPath(path),
		Type: assetType,
	}
	if s, err := os.Stat(path); err == nil {
		info.Modified = s.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if prev, ok := am.assets[info.Path]; ok {
		info.LastLoaded = prev.LastLoaded
	}
	am.assets[info.Path] = info
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) (AssetInfo, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	rel := am.relPath(path)
	info, ok := am.assets[rel]
	delete(am.assets, rel)
	return info, ok
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return metadata.ResourceTypeMesh
	default:
		return metadata.ResourceTypeNone
	}
}

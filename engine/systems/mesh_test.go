package systems

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima/engine/assets"
	"github.com/spaghettifunk/anima/engine/assets/loaders"
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/mesh"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
f 1/1/1 2/1/1 3/1/1
`

func writeAssets(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newMeshLoader(t *testing.T, dir string) *MeshLoaderSystem {
	t.Helper()
	am, err := assets.NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir, false))
	am.RegisterLoader(metadata.ResourceTypeMesh, loaders.NewModelLoader(mesh.WeldHashed, false))

	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = js.Shutdown() })

	mls, err := NewMeshLoaderSystem(am, js)
	require.NoError(t, err)
	return mls
}

func TestMeshLoaderLoad(t *testing.T) {
	mls := newMeshLoader(t, writeAssets(t, map[string]string{
		"models/quad.obj": quadOBJ,
	}))

	m, err := mls.Load("quad")
	require.NoError(t, err)
	assert.Equal(t, "quad", m.Name)
	assert.Equal(t, uint32(1), m.Generation)
	require.NotNil(t, m.Geometry)
	assert.Equal(t, uint32(4), m.Geometry.VertexCount)
	assert.Equal(t, uint32(12), m.Geometry.IndexCount)

	got, ok := mls.Get("quad")
	require.True(t, ok)
	assert.Same(t, m, got)

	// loading again publishes a new generation under the same identity
	again, err := mls.Load("quad")
	require.NoError(t, err)
	assert.NotSame(t, m, again)
	assert.Equal(t, uint32(2), again.Generation)
	assert.Equal(t, m.UniqueID, again.UniqueID)
	assert.Equal(t, uint32(1), m.Generation)

	got, ok = mls.Get("quad")
	require.True(t, ok)
	assert.Same(t, again, got)

	loads, failures := mls.Metrics().Counts()
	assert.Equal(t, int64(2), loads)
	assert.Equal(t, int64(0), failures)

	assert.True(t, mls.Unload("quad"))
	assert.False(t, mls.Unload("quad"))
	_, ok = mls.Get("quad")
	assert.False(t, ok)
}

func TestMeshLoaderLoadFailure(t *testing.T) {
	mls := newMeshLoader(t, writeAssets(t, map[string]string{
		"models/broken.obj": "v 0 0 0\nf 1/1/1 1/1/1\n",
	}))

	_, err := mls.Load("broken")
	assert.ErrorIs(t, err, core.ErrParse)
	_, ok := mls.Get("broken")
	assert.False(t, ok)

	_, err = mls.Load("missing")
	assert.ErrorIs(t, err, assets.ErrAssetNotFound)

	_, failures := mls.Metrics().Counts()
	assert.Equal(t, int64(2), failures)
}

func TestMeshLoaderLoadAsync(t *testing.T) {
	mls := newMeshLoader(t, writeAssets(t, map[string]string{
		"models/quad.obj": quadOBJ,
		"models/tri.obj":  triangleOBJ,
		"models/bad.obj":  "v 0 0 0\nvn 0 0 1\nvt 0 0\nf 1/1/1 1/1/1 9/1/1\n",
	}))

	type outcome struct {
		mesh *metadata.Mesh
		err  error
	}
	results := make(chan outcome, 3)
	for _, name := range []string{"quad", "tri", "bad"} {
		require.NoError(t, mls.LoadAsync(name, func(m *metadata.Mesh, err error) {
			results <- outcome{m, err}
		}))
	}

	loaded := map[string]uint32{}
	var failed []error
	for i := 0; i < 3; i++ {
		select {
		case r := <-results:
			if r.err != nil {
				failed = append(failed, r.err)
				continue
			}
			loaded[r.mesh.Name] = r.mesh.Geometry.IndexCount
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for mesh loads")
		}
	}

	assert.Equal(t, map[string]uint32{"quad": 12, "tri": 6}, loaded)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], core.ErrIndex)
}

func TestMeshLoaderOnAssetChanged(t *testing.T) {
	dir := writeAssets(t, map[string]string{
		"models/quad.obj": triangleOBJ,
	})
	mls := newMeshLoader(t, dir)

	m, err := mls.Load("quad")
	require.NoError(t, err)
	require.Equal(t, uint32(6), m.Geometry.IndexCount)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "quad.obj"), []byte(quadOBJ), 0o644))
	info := assets.AssetInfo{Path: "models/quad.obj", Type: metadata.ResourceTypeMesh}

	// meshes that were never loaded are left alone
	mls.OnAssetChanged(assets.AssetInfo{Path: "models/other.obj", Type: metadata.ResourceTypeMesh}, fsnotify.Write)
	// removals do not trigger a reload
	mls.OnAssetChanged(info, fsnotify.Remove)

	mls.OnAssetChanged(info, fsnotify.Write)
	require.Eventually(t, func() bool {
		got, ok := mls.Get("quad")
		return ok && got.Generation == 2
	}, 5*time.Second, 10*time.Millisecond)

	reloaded, _ := mls.Get("quad")
	assert.Equal(t, uint32(12), reloaded.Geometry.IndexCount)
	assert.Equal(t, m.UniqueID, reloaded.UniqueID)
	// the mesh handed out before the reload is unchanged
	assert.Equal(t, uint32(6), m.Geometry.IndexCount)
	assert.Equal(t, uint32(1), m.Generation)
}

func TestMeshLoaderReadsDuringReload(t *testing.T) {
	mls := newMeshLoader(t, writeAssets(t, map[string]string{
		"models/quad.obj": quadOBJ,
	}))

	m, err := mls.Load("quad")
	require.NoError(t, err)

	const reloads = 8
	done := make(chan error, reloads)
	for i := 0; i < reloads; i++ {
		require.NoError(t, mls.LoadAsync("quad", func(_ *metadata.Mesh, err error) {
			done <- err
		}))
	}

	// readers only go through the public API while workers publish reloads
	for pending := reloads; pending > 0; {
		select {
		case err := <-done:
			require.NoError(t, err)
			pending--
		default:
		}
		assert.Equal(t, uint32(12), m.Geometry.IndexCount)
		if cur, ok := mls.Get("quad"); ok {
			assert.Equal(t, uint32(12), cur.Geometry.IndexCount)
			assert.Equal(t, m.UniqueID, cur.UniqueID)
			assert.GreaterOrEqual(t, cur.Generation, m.Generation)
		}
	}

	last, ok := mls.Get("quad")
	require.True(t, ok)
	assert.Equal(t, uint32(1+reloads), last.Generation)
	assert.Equal(t, uint32(1), m.Generation)
}

func TestMeshLoaderGenerationDoesNotWrap(t *testing.T) {
	mls := newMeshLoader(t, writeAssets(t, map[string]string{
		"models/quad.obj": quadOBJ,
	}))

	m, err := mls.Load("quad")
	require.NoError(t, err)

	mls.mutex.Lock()
	mls.meshes["quad"] = &metadata.Mesh{UniqueID: m.UniqueID, Name: m.Name, Generation: 255, Geometry: m.Geometry}
	mls.mutex.Unlock()

	next, err := mls.Load("quad")
	require.NoError(t, err)
	assert.Equal(t, uint32(256), next.Generation)
	assert.Equal(t, m.UniqueID, next.UniqueID)
}

func TestNewMeshLoaderSystemRequiresAssets(t *testing.T) {
	_, err := NewMeshLoaderSystem(nil, nil)
	assert.Error(t, err)
}

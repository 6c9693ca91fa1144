package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)
	return store
}

func TestLocalStoreUpload(t *testing.T) {
	store := newTestLocalStore(t)

	result, err := store.Upload(context.Background(), "plant_image", "user-1", "photo.JPG", "image/jpeg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.Equal(t, int64(len("fake image bytes")), result.Size)
	assert.True(t, strings.HasPrefix(result.Path, "plant_image/user-1/"))
	assert.True(t, strings.HasSuffix(result.Path, ".jpg"), "extension is lowercased: %s", result.Path)
	assert.Equal(t, "http://localhost:8080/storage/"+result.Path, result.URL)

	data, err := os.ReadFile(filepath.Join(store.BasePath(), filepath.FromSlash(result.Path)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestLocalStoreDelete(t *testing.T) {
	store := newTestLocalStore(t)

	result, err := store.Upload(context.Background(), "avatar", "user-1", "a.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), result.Path))
	_, err = os.Stat(filepath.Join(store.BasePath(), filepath.FromSlash(result.Path)))
	assert.True(t, os.IsNotExist(err))

	// deleting a missing object is not an error
	assert.NoError(t, store.Delete(context.Background(), result.Path))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := newTestLocalStore(t)

	_, err := store.Put("../escape.txt", strings.NewReader("nope"))
	assert.Error(t, err)

	err = store.Delete(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorePresignPointsAtUploadEndpoint(t *testing.T) {
	store := newTestLocalStore(t)

	url, err := store.PresignPut(context.Background(), "avatar/user-1/x.png", "image/png", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/storage/upload?path=avatar%2Fuser-1%2Fx.png", url)
}

func TestObjectKeyScoping(t *testing.T) {
	key := ObjectKey("avatar", "user-1", "Photo.JPEG")
	assert.True(t, strings.HasPrefix(key, "avatar/user-1/"))
	assert.True(t, strings.HasSuffix(key, ".jpeg"))

	other := ObjectKey("avatar", "user-1", "Photo.JPEG")
	assert.NotEqual(t, key, other, "object keys must be unique per upload")
}

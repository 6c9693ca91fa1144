package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fengwang001/plant-version-app/storage"
)

// StorageServer serves stored objects for the local backend under
// GET /storage/*. S3 deployments never mount this; objects resolve to the
// bucket's own URLs instead.
func StorageServer(store *storage.LocalStore) http.HandlerFunc {
	basePath := store.BasePath()
	log.Printf("Serving stored assets for '/storage/*' from directory: %s", basePath)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, "/storage/")
		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		requestedPath := filepath.Join(basePath, filepath.FromSlash(relativePath))
		cleanedPath := filepath.Clean(requestedPath)

		if !strings.HasPrefix(cleanedPath, basePath) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted asset access outside storage root: Request='%s', Resolved='%s'", r.URL.Path, cleanedPath)
			return
		}

		if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", cleanedPath, err)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, cleanedPath)
	}
}

// StorageUploadHandler accepts the PUT that a local-backend presigned URL
// points at. The object key arrives in the path query parameter; the bytes
// land exactly where a real presigned upload would have put them.
func StorageUploadHandler(store *storage.LocalStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("path")
		if path == "" || strings.Contains(path, "..") {
			http.Error(w, "Invalid upload path", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		result, err := store.Put(path, r.Body)
		if err != nil {
			log.Printf("storage: direct upload to %s failed: %v", path, err)
			http.Error(w, "Failed to store object", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"path": result.Path,
			"url":  result.URL,
			"size": result.Size,
		})
	}
}

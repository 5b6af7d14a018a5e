// Package storage persists uploaded images (profile avatars and product
// photos) under collision-reducing names of the form <unix>_<filename>.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"time"
)

// Folder is a logical image category inside the asset store.
type Folder string

const (
	ProfileImages Folder = "profile_images"
	ProductImages Folder = "product_images"
)

// AssetStore stores, deletes and checks uploaded image files.
type AssetStore interface {
	// Store persists the upload and returns the generated stored name.
	Store(ctx context.Context, folder Folder, file *multipart.FileHeader) (string, error)
	// Delete removes a stored file. A missing file is not an error.
	Delete(ctx context.Context, folder Folder, name string) error
	Exists(ctx context.Context, folder Folder, name string) (bool, error)
}

// StoredName builds the persisted name of an upload: the unix timestamp, an
// underscore and the client's file name. Two uploads of the same file name
// within the same second map to the same name.
func StoredName(now time.Time, originalName string) string {
	return fmt.Sprintf("%d_%s", now.Unix(), clientBase(originalName))
}

// PublicPath is the URL path under which a stored file is served.
func PublicPath(folder Folder, name string) string {
	if name == "" {
		return ""
	}
	return path.Join("/imagens", string(folder), name)
}

// clientBase strips any directory part a client may have sent, accepting
// both separators regardless of the server OS.
func clientBase(name string) string {
	name = filepath.ToSlash(name)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' || name[i] == '\\' {
			return name[i+1:]
		}
	}
	return name
}

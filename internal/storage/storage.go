// Package storage implements the image blob store backing costume
// uploads. Files live on the local filesystem under a configured root;
// stored paths are relative so the root can move between environments.
// The store also resolves the tagged image source (external URL or
// stored path) into the public URL returned by the API.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

// MaxImageBytes caps uploaded costume images at 5 MiB.
const MaxImageBytes = 5 << 20

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var (
	ErrBadImageType = errors.New("unsupported image type")
	ErrImageTooBig  = errors.New("image exceeds size limit")
)

// Store is a local-disk blob store rooted at Root. BaseURL is the public
// prefix under which stored files are served (e.g. "/storage").
type Store struct {
	Root    string
	BaseURL string
}

func New(root, baseURL string) *Store {
	return &Store{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SaveCostumeImage writes an uploaded image under costumes/ with a
// random filename and returns the store-relative path.
func (s *Store) SaveCostumeImage(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrBadImageType
	}
	if fh.Size > MaxImageBytes {
		return "", ErrImageTooBig
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	rel := path.Join("costumes", uuid.New().String()+ext)
	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	// Copy with a hard cap in case the declared size lied.
	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageBytes+1)); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	if fi, err := dst.Stat(); err == nil && fi.Size() > MaxImageBytes {
		_ = os.Remove(full)
		return "", ErrImageTooBig
	}
	return rel, nil
}

// Delete removes a stored file. A missing file is not an error; the
// record it belonged to is already gone or being replaced.
func (s *Store) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ResolveImage turns a tagged image source into the public URL exposed
// by the API, or nil when the costume has no image.
func (s *Store) ResolveImage(img model.ImageSource) *string {
	switch img.Kind {
	case model.ImageURL:
		u := img.Ref
		return &u
	case model.ImageStored:
		u := fmt.Sprintf("%s/%s", s.BaseURL, img.Ref)
		return &u
	}
	return nil
}

package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoub-kd/costume-rental/internal/model"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveCostumeImage(t *testing.T) {
	s := New(t.TempDir(), "/storage")
	fh := uploadHeader(t, "pic.PNG", []byte("fake png bytes"))

	rel, err := s.SaveCostumeImage(fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "costumes/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)
}

func TestSaveCostumeImageRejectsExtension(t *testing.T) {
	s := New(t.TempDir(), "/storage")
	fh := uploadHeader(t, "evil.exe", []byte("nope"))

	_, err := s.SaveCostumeImage(fh)
	assert.ErrorIs(t, err, ErrBadImageType)
}

func TestDeleteMissingFileIsNoError(t *testing.T) {
	s := New(t.TempDir(), "/storage")
	assert.NoError(t, s.Delete("costumes/gone.png"))
	assert.NoError(t, s.Delete(""))
}

func TestResolveImage(t *testing.T) {
	s := New(t.TempDir(), "/storage")

	assert.Nil(t, s.ResolveImage(model.ImageSource{}))

	u := s.ResolveImage(model.ImageSource{Kind: model.ImageURL, Ref: "https://example.com/p.jpg"})
	require.NotNil(t, u)
	assert.Equal(t, "https://example.com/p.jpg", *u)

	u = s.ResolveImage(model.ImageSource{Kind: model.ImageStored, Ref: "costumes/abc.png"})
	require.NotNil(t, u)
	assert.Equal(t, "/storage/costumes/abc.png", *u)
}

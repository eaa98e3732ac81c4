package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{BasePath: dir, BaseURL: "/uploads"})
	require.NoError(t, err)
	logger := zap.NewNop()
	return Routes(NewHandler(store, auditlog.New(nil, logger, auditlog.Config{}), errorsfeature.NewErrorLogger(logger))), dir
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := testutil.NewRequest(http.MethodPost, "/")
	req.Body = nopCloser{bytes.NewReader(buf.Bytes())}
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, testutil.AdminUser())
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

func TestUpload_StoresFile(t *testing.T) {
	router, dir := newRouter(t)
	content := []byte("fake image bytes")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "file", "Front View.JPG", content))
	rec.AssertStatus(t, http.StatusOK)

	var resp Response
	rec.DecodeJSON(t, &resp)
	assert.True(t, strings.HasPrefix(resp.Path, Prefix))
	assert.True(t, strings.HasSuffix(resp.Path, ".jpg"))
	assert.Equal(t, "Front View.JPG", resp.Name)
	assert.Equal(t, int64(len(content)), resp.Size)
	assert.NotEmpty(t, resp.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(resp.Path)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestUpload_NoFile(t *testing.T) {
	router, _ := newRouter(t)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "", "", nil))
	rec.AssertStatus(t, http.StatusBadRequest)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, rec.Body.String())

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpload_RequiresAdmin(t *testing.T) {
	router, _ := newRouter(t)
	req := multipartRequest(t, "file", "a.png", []byte("x"))
	req = testutil.WithUser(req, testutil.RegularUser())

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestStoragePath(t *testing.T) {
	tests := []struct {
		name    string
		wantExt string
	}{
		{"photo.PNG", ".png"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"weird.ph p", ""},
	}
	for _, tt := range tests {
		got := StoragePath(tt.name)
		if !strings.HasPrefix(got, Prefix) {
			t.Errorf("StoragePath(%q) = %q, missing prefix", tt.name, got)
		}
		if filepath.Ext(got) != tt.wantExt {
			t.Errorf("StoragePath(%q) ext = %q, want %q", tt.name, filepath.Ext(got), tt.wantExt)
		}
	}
	if StoragePath("a.jpg") == StoragePath("a.jpg") {
		t.Error("StoragePath should be unique per call")
	}
}

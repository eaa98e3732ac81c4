// Package upload serves POST /api/upload, which stores an admin-supplied
// file through the configured waffle storage backend.
package upload

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20

// Prefix is the storage directory uploads are written under.
const Prefix = "uploads/"

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// Handler serves the upload endpoint.
type Handler struct {
	storage storage.Store
	audit   *auditlog.Logger
	errLog  *errorsfeature.ErrorLogger
}

// NewHandler creates a new upload Handler.
func NewHandler(store storage.Store, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{storage: store, audit: audit, errLog: errLog}
}

// Response describes a stored file.
type Response struct {
	URL  string `json:"url"`
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// StoragePath returns the storage key for an uploaded file name: a fresh
// uuid plus the lowercased extension, when it is a plain one.
func StoragePath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return Prefix + uuid.NewString() + ext
}

// Upload handles POST /api/upload with multipart field "file".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonutil.Error(w, http.StatusRequestEntityTooLarge, "File too large (max "+strconv.Itoa(MaxUploadSize>>20)+"MB)")
			return
		}
		jsonutil.BadRequest(w, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := StoragePath(header.Filename)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()
	if err := h.storage.Put(ctx, path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.errLog.Log(r, "failed to store upload", err)
		jsonutil.Error(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	h.audit.System(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventFileUploaded, true, map[string]string{
		"path": path,
		"name": header.Filename,
	})
	jsonutil.OK(w, Response{
		URL:  h.storage.URL(path),
		Path: path,
		Name: header.Filename,
		Size: header.Size,
	})
}

package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// maxUploadSize bounds multipart parsing; images beyond this are rejected.
const maxUploadSize = 32 << 20

// saveUploadedImage copies the "image" part of a multipart request to a
// temporary file and returns its path. An empty path means no file was
// supplied. The cleanup func removes the temp file and is always safe to
// call; callers defer it so local files never outlive the request,
// whether the upload succeeds or fails.
func saveUploadedImage(r *http.Request) (string, func(), error) {
	noop := func() {}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", noop, nil
		}
		return "", noop, fmt.Errorf("failed to read image part: %w", err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "menu-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, fmt.Errorf("failed to buffer image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, fmt.Errorf("failed to close temp file: %w", err)
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

// formValue reports a multipart field and whether the client supplied it,
// so patches can distinguish "omitted" from "explicitly empty/zero".
func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// parseTruthy mirrors the lenient boolean coercion of form input: only the
// string "true" is true.
func parseTruthy(value string) bool {
	return value == "true"
}

func parseFloatField(value, name string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return f, nil
}

func parseUUIDField(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid UUID", name)
	}
	return id, nil
}

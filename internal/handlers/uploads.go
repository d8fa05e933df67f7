package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const maxUploadMemory = 32 << 20

// formFile spools the named multipart file into a temp file and returns its
// path. The uploader that consumes the path removes the file; callers still
// defer a removal of their own so aborted requests leave nothing behind.
// A missing field returns ok=false without error.
func formFile(r *http.Request, field string) (string, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, err
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", false, err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", false, err
	}
	return tmp.Name(), true, nil
}

func discardTemp(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

package utils

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

type Fs struct {
	AppFs afero.Fs
}

func NewFs(appFs afero.Fs) Fs {
	return Fs{AppFs: appFs}
}

// CreateNew creates filePath and its parent directories. It fails when the
// file already exists; reports are never overwritten.
func (fs Fs) CreateNew(filePath string) (afero.File, error) {
	if err := fs.AppFs.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, xerrors.Errorf("mkdir error: %w", err)
	}

	f, err := fs.AppFs.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return nil, xerrors.Errorf("%s already exists: %w", filePath, err)
	} else if err != nil {
		return nil, xerrors.Errorf("unable to open a file: %w", err)
	}
	return f, nil
}

package credentials

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultFile is where credentials are kept when no path is configured.
const DefaultFile = "credentials.json"

// FileStore keeps credentials as a JSON document on disk.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(_ context.Context) (Credentials, error) {
	data, err := readFile(f.path)
	if err != nil {
		return Credentials{}, err
	}
	return Decode(data)
}

func (f *FileStore) Save(_ context.Context, creds Credentials) error {
	data, err := Encode(creds)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] encode")
	}
	return writeFile(f.path, data)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[credentials.readFile]")
	}
	return data, nil
}

// writeFile replaces path atomically so a crash never leaves a half-written record.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "[credentials.writeFile] create temp")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[credentials.writeFile] write")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[credentials.writeFile] chmod")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[credentials.writeFile] close")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "[credentials.writeFile] rename")
	}
	return nil
}

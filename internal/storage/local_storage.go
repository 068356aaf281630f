package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fileport/internal/models"

	"github.com/spf13/afero"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid path")
	ErrIsDirectory = errors.New("path is a directory")
)

// LocalStorage confines every operation to a single root. Paths handed to it
// are normalized first, so callers may pass raw user input.
type LocalStorage struct {
	basePath string
	fs       afero.Fs
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	return &LocalStorage{
		basePath: abs,
		fs:       afero.NewBasePathFs(afero.NewOsFs(), abs),
	}, nil
}

// NewFromFs wraps an existing filesystem whose "/" is the storage root.
func NewFromFs(fs afero.Fs) *LocalStorage {
	return &LocalStorage{basePath: "/", fs: fs}
}

func (ls *LocalStorage) Fs() afero.Fs {
	return ls.fs
}

func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// ForUser returns a storage rooted at /users/<userID>.
func (ls *LocalStorage) ForUser(userID string) (*LocalStorage, error) {
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return nil, fmt.Errorf("user id %q: %w", userID, ErrInvalidPath)
	}
	dir := path.Join("/users", userID)
	return &LocalStorage{
		basePath: path.Join(ls.basePath, dir),
		fs:       afero.NewBasePathFs(ls.fs, dir),
	}, nil
}

// Save writes data to rel, creating parent directories, and returns the
// normalized path together with the number of bytes written.
func (ls *LocalStorage) Save(rel string, data io.Reader) (string, int64, error) {
	filePath := NormalizePath(rel)
	if filePath == "/" {
		return "", 0, fmt.Errorf("save %q: %w", rel, ErrInvalidPath)
	}

	if info, err := ls.fs.Stat(filePath); err == nil && info.IsDir() {
		return "", 0, fmt.Errorf("save %s: %w", filePath, ErrIsDirectory)
	}

	if err := ls.fs.MkdirAll(path.Dir(filePath), os.ModePerm); err != nil {
		return "", 0, err
	}

	file, err := ls.fs.Create(filePath)
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(file, data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = ls.fs.Remove(filePath)
		return "", 0, err
	}

	return filePath, n, nil
}

// Open returns a regular file for reading. Directories and missing paths are
// reported as ErrIsDirectory and ErrNotFound.
func (ls *LocalStorage) Open(rel string) (afero.File, os.FileInfo, error) {
	filePath := NormalizePath(rel)

	info, err := ls.fs.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("file %s: %w", filePath, ErrNotFound)
		}
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("file %s: %w", filePath, ErrIsDirectory)
	}

	file, err := ls.fs.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("file %s: %w", filePath, ErrNotFound)
		}
		return nil, nil, err
	}

	return file, info, nil
}

// Delete removes rel and returns the size it occupied.
func (ls *LocalStorage) Delete(rel string) (int64, error) {
	filePath := NormalizePath(rel)
	if filePath == "/" {
		return 0, fmt.Errorf("delete %q: %w", rel, ErrInvalidPath)
	}

	info, err := ls.fs.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("file %s: %w", filePath, ErrNotFound)
		}
		return 0, err
	}

	if err := ls.fs.Remove(filePath); err != nil {
		return 0, err
	}

	if info.IsDir() {
		return 0, nil
	}
	return info.Size(), nil
}

func (ls *LocalStorage) Exists(rel string) (bool, error) {
	return afero.Exists(ls.fs, NormalizePath(rel))
}

// Files walks the whole tree and returns every regular file with its path
// relative to the root. A missing root yields an empty list.
func (ls *LocalStorage) Files() ([]models.UserFile, error) {
	files := make([]models.UserFile, 0)
	err := ls.walkFiles(func(p string, info os.FileInfo) {
		files = append(files, models.UserFile{
			Name: info.Name(),
			Size: info.Size(),
			Path: strings.TrimPrefix(p, "/"),
		})
	})
	return files, err
}

// Size is the recursive sum of regular file sizes. A missing root is 0.
func (ls *LocalStorage) Size() (int64, error) {
	var size int64
	err := ls.walkFiles(func(_ string, info os.FileInfo) {
		size += info.Size()
	})
	return size, err
}

func (ls *LocalStorage) walkFiles(fn func(p string, info os.FileInfo)) error {
	exists, err := afero.DirExists(ls.fs, "/")
	if err != nil || !exists {
		return err
	}

	return afero.Walk(ls.fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			fn(filepath.ToSlash(p), info)
		}
		return nil
	})
}

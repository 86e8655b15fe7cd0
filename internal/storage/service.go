package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const gpxExt = ".gpx"

var (
	ErrInvalidName = errors.New("invalid filename")
	ErrNotFound    = errors.New("file not found")
)

type FileInfo struct {
	Name     string
	Size     int64
	Modified time.Time
}

// Service gives read-only access to the GPX files of one directory. Names
// are plain file names; anything that could leave the directory is
// rejected.
type Service struct {
	dir string
}

func NewService(dir string) *Service {
	return &Service{dir: dir}
}

// Open returns a Service for dir after checking that dir is a readable
// directory.
func Open(dir string) (*Service, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("gpx dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("gpx dir %s: not a directory", dir)
	}
	return NewService(dir), nil
}

func (s *Service) Dir() string {
	return s.dir
}

// ValidName reports whether name can address a GPX file in the directory.
func ValidName(name string) bool {
	return strings.HasSuffix(name, gpxExt) &&
		!strings.Contains(name, "/") &&
		!strings.Contains(name, `\`) &&
		!strings.Contains(name, "..")
}

// List returns the regular .gpx files of the directory sorted by name.
func (s *Service) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read gpx dir: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), gpxExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, fileInfo(info))
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *Service) Stat(ctx context.Context, name string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}
	path, err := s.resolve(name)
	if err != nil {
		return FileInfo{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, notFound(name, err)
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fileInfo(info), nil
}

func (s *Service) Read(ctx context.Context, name string) ([]byte, error) {
	if _, err := s.Stat(ctx, name); err != nil {
		return nil, err
	}
	path, _ := s.resolve(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(name, err)
	}
	return data, nil
}

// OpenFile opens name for streaming. The caller closes the file.
func (s *Service) OpenFile(ctx context.Context, name string) (*os.File, FileInfo, error) {
	info, err := s.Stat(ctx, name)
	if err != nil {
		return nil, FileInfo{}, err
	}
	path, _ := s.resolve(name)
	f, err := os.Open(path)
	if err != nil {
		return nil, FileInfo{}, notFound(name, err)
	}
	return f, info, nil
}

func (s *Service) resolve(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir, name), nil
}

func notFound(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", name, err)
}

func fileInfo(info fs.FileInfo) FileInfo {
	return FileInfo{Name: info.Name(), Size: info.Size(), Modified: info.ModTime()}
}

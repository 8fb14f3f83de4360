package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// exportedFile — содержимое файла учёта выгрузки
type exportedFile struct {
	Sessions map[string]int64 `json:"sessions"`
}

// FileStore хранит ключи выгруженных сессий в JSON-файле рядом с отчётом
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load возвращает пустой набор, если файла ещё нет или он пуст
func (f *FileStore) Load() (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bs, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", f.Path, err)
	}
	var ef exportedFile
	if len(bytes.TrimSpace(bs)) > 0 {
		if err := json.Unmarshal(bs, &ef); err != nil {
			return nil, fmt.Errorf("разбор %s: %w", f.Path, err)
		}
	}
	if ef.Sessions == nil {
		ef.Sessions = map[string]int64{}
	}
	return ef.Sessions, nil
}

// Save пишет набор целиком через временный файл в том же каталоге,
// так что прерванная запись не портит предыдущее состояние.
func (f *FileStore) Save(data map[string]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("каталог %s: %w", dir, err)
	}
	bs, err := json.MarshalIndent(exportedFile{Sessions: data}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("временный файл: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(bs); err != nil {
		tmp.Close()
		return fmt.Errorf("запись %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("запись %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("замена %s: %w", f.Path, err)
	}
	return nil
}

package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilePartitions stands in for the two flash partitions using two sibling
// files on disk plus a small JSON pointer file recording which one is
// active, for the hosted simulator where persistence across restarts is
// useful.
type FilePartitions struct {
	dir string
}

type pointerFile struct {
	Active int `json:"active"`
}

// NewFilePartitions returns a Partitions rooted at dir, creating it if
// necessary.
func NewFilePartitions(dir string) (*FilePartitions, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("flash: create partition dir: %w", err)
	}

	return &FilePartitions{dir: dir}, nil
}

func (p *FilePartitions) pointerPath() string {
	return filepath.Join(p.dir, "active.json")
}

func (p *FilePartitions) readActive() int {
	var data, err = os.ReadFile(p.pointerPath())
	if err != nil {
		return 0
	}

	var ptr pointerFile
	if json.Unmarshal(data, &ptr) != nil {
		return 0
	}

	return ptr.Active
}

func (p *FilePartitions) partitionPath(slot int) string {
	return filepath.Join(p.dir, fmt.Sprintf("partition-%d.bin", slot))
}

func (p *FilePartitions) NextWriter(_ context.Context) (Writer, error) {
	var next = 1 - p.readActive()
	var path = p.partitionPath(next)

	var f, err = os.Create(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("flash: open partition %d: %w", next, err)
	}

	return &fileWriter{owner: p, slot: next, f: f}, nil
}

type fileWriter struct {
	owner *FilePartitions
	slot  int
	f     *os.File
}

func (w *fileWriter) Write(_ context.Context, chunk []byte) error {
	var _, err = w.f.Write(chunk)
	if err != nil {
		return fmt.Errorf("flash: write partition %d: %w", w.slot, err)
	}

	return nil
}

func (w *fileWriter) Commit(_ context.Context) error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("flash: close partition %d: %w", w.slot, err)
	}

	var data, marshalErr = json.Marshal(pointerFile{Active: w.slot})
	if marshalErr != nil {
		return fmt.Errorf("flash: marshal pointer: %w", marshalErr)
	}

	if err := os.WriteFile(w.owner.pointerPath(), data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("flash: write pointer: %w", err)
	}

	return nil
}

func (w *fileWriter) Abort(_ context.Context) error {
	var closeErr = w.f.Close()
	var removeErr = os.Remove(w.f.Name())

	if closeErr != nil {
		return fmt.Errorf("flash: abort close: %w", closeErr)
	}

	if removeErr != nil {
		return fmt.Errorf("flash: abort remove: %w", removeErr)
	}

	return nil
}

package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/osse101/IdleGarden_Go/internal/domain"
)

const fileExt = ".garden.zst"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// FileStore keeps one zstd-compressed document per user in a directory.
// Each file starts with a JSON header line followed by the JSON document.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates the directory if needed and returns a store rooted there
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty snapshot dir", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, unsafeChars.ReplaceAllString(userID, "_")+fileExt)
}

// LoadGarden reads the user's snapshot file
func (s *FileStore) LoadGarden(_ context.Context, userID string) (*domain.GardenState, error) {
	doc, err := ReadSnapshot(s.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGardenNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	return doc.ToState()
}

// SaveGarden replaces the user's snapshot file atomically
func (s *FileStore) SaveGarden(_ context.Context, userID string, state *domain.GardenState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := FromState(state, s.now())
	doc.Header.UserID = userID
	if err := WriteSnapshot(s.path(userID), doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// Close is a no-op; files are closed after every write
func (s *FileStore) Close() error {
	return nil
}

// WriteSnapshot writes doc to path through a temp file and rename
func WriteSnapshot(path string, doc GardenDocumentV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := encode(tmp, doc); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func encode(f *os.File, doc GardenDocumentV1) error {
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(doc.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&doc); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSnapshot reads a document written by WriteSnapshot
func ReadSnapshot(path string) (GardenDocumentV1, error) {
	var doc GardenDocumentV1
	f, err := os.Open(path)
	if err != nil {
		return doc, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return doc, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	headerLine, err := br.ReadBytes('\n')
	if err != nil {
		return doc, fmt.Errorf("read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerLine, &header); err != nil {
		return doc, fmt.Errorf("decode header: %w", err)
	}
	if header.Version != DocumentVersion {
		return doc, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}

	if err := json.NewDecoder(br).Decode(&doc); err != nil {
		return doc, fmt.Errorf("json decode: %w", err)
	}
	return doc, nil
}

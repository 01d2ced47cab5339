// Package cv turns base64 CV payloads into PDF files that live for one
// session. Each decoded file is a Handle the UI can show and open.
package cv

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/ledongthuc/pdf"
)

// ErrDecode marks a CV payload that could not be decoded. It only ever affects
// the row it belongs to.
var ErrDecode = errors.New("decode cv payload")

// Handle references a decoded CV on disk. The zero value means no CV.
type Handle struct {
	Path  string
	Size  int64
	Pages int
}

// Available reports whether the handle points at a decoded file.
func (h Handle) Available() bool {
	return h.Path != ""
}

// Label is the short cell text for the handle.
func (h Handle) Label() string {
	if !h.Available() {
		return "—"
	}
	if h.Pages > 0 {
		return "PDF (" + strconv.Itoa(h.Pages) + "p)"
	}
	return "PDF"
}

const (
	inspectCacheSize = 256
	inspectCacheTTL  = 30 * time.Minute
	dataURLMarker    = ";base64,"
)

// Store owns the session directory that decoded CVs are written to.
type Store struct {
	mu     sync.Mutex
	dir    string
	closed bool
	pages  *expirable.LRU[string, int]
}

// NewStore creates a fresh session directory under base. An empty base uses
// the system temp dir.
func NewStore(base string) (*Store, error) {
	if strings.TrimSpace(base) == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "docket-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cv session dir: %w", err)
	}
	return &Store{
		dir:   dir,
		pages: expirable.NewLRU[string, int](inspectCacheSize, nil, inspectCacheTTL),
	}, nil
}

// Dir returns the session directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put decodes payload and writes it as the CV for application id. An empty
// payload yields a zero Handle and no error. A payload that is not valid
// base64 returns an error wrapping ErrDecode.
func (s *Store) Put(id int64, payload string) (Handle, error) {
	data, err := Decode(payload)
	if err != nil || data == nil {
		return Handle{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Handle{}, fmt.Errorf("cv store is closed")
	}

	path := filepath.Join(s.dir, fmt.Sprintf("application-%d.pdf", id))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Handle{}, fmt.Errorf("write cv %d: %w", id, err)
	}
	return Handle{Path: path, Size: int64(len(data)), Pages: s.pageCount(data)}, nil
}

// Close removes the session directory and every CV written to it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.pages.Purge()
	return os.RemoveAll(s.dir)
}

// Decode strips an optional data URL prefix and base64-decodes payload.
// A blank payload returns nil, nil.
func Decode(payload string) ([]byte, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "data:") {
		idx := strings.Index(trimmed, dataURLMarker)
		if idx < 0 {
			return nil, fmt.Errorf("%w: data url is not base64", ErrDecode)
		}
		trimmed = trimmed[idx+len(dataURLMarker):]
	}
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	return data, nil
}

// pageCount returns the page count of data, or 0 when it cannot be parsed.
// Identical payloads are only parsed once.
func (s *Store) pageCount(data []byte) int {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if n, ok := s.pages.Get(key); ok {
		return n
	}
	n := inspect(data)
	s.pages.Add(key, n)
	return n
}

func inspect(data []byte) (pages int) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return r.NumPage()
}

package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
)

// Deduper remembers the content hash of every file it has seen, so a bill
// dropped twice (or reported by several watch events) is processed once.
type Deduper struct {
	mu   sync.Mutex
	seen map[string]string // hash -> first path
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]string)}
}

// Check hashes path and reports whether identical content was seen before.
// The first path with that content is returned alongside.
func (d *Deduper) Check(path string) (hashHex string, firstPath string, dup bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", false, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", "", false, err
	}
	hashHex = hex.EncodeToString(h.Sum(nil))

	d.mu.Lock()
	defer d.mu.Unlock()
	if first, ok := d.seen[hashHex]; ok {
		return hashHex, first, true, nil
	}
	d.seen[hashHex] = path
	return hashHex, path, false, nil
}

// Forget drops a hash so the content can be processed again, e.g. after a
// failed run.
func (d *Deduper) Forget(hashHex string) {
	d.mu.Lock()
	delete(d.seen, hashHex)
	d.mu.Unlock()
}

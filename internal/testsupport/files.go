package testsupport

import (
	"bytes"
	"os"
	"sort"
	"testing"
)

// VideoBytes returns size bytes of a repeating pattern standing in for video
// content. A size <= 0 yields a single byte.
func VideoBytes(size int) []byte {
	if size <= 0 {
		size = 1
	}
	return bytes.Repeat([]byte{0x42}, size)
}

// ListDir returns the sorted names of entries in dir. A missing directory
// yields nil.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

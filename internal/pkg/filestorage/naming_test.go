package filestorage

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentType(t *testing.T) {
	cases := map[string]string{
		"exam.pdf":          "application/pdf",
		"EXAM.PDF":          "application/pdf",
		"notes.doc":         "application/msword",
		"notes.Docx":        "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"sheet.xls":         "application/vnd.ms-excel",
		"sheet.XLSX":        "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"scan.png":          "image/png",
		"scan.jpg":          "image/jpeg",
		"scan.JPEG":         "image/jpeg",
		"u1/17000-abc.pdf":  "application/pdf",
		"archive.zip":       DefaultContentType,
		"README":            DefaultContentType,
		"trailing.":         DefaultContentType,
		"":                  DefaultContentType,
		"dir.pdf/something": DefaultContentType,
	}
	for name, want := range cases {
		assert.Equal(t, want, ResolveContentType(name), name)
		// deterministic
		assert.Equal(t, ResolveContentType(name), ResolveContentType(name), name)
	}
}

func TestDeriveStorageKeyShape(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	key := DeriveStorageKey("owner-1", "Final Exam.PDF", now)
	require.True(t, strings.HasPrefix(key, "owner-1/1700000000123-"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)

	bare := DeriveStorageKey("owner-1", "README", now)
	assert.False(t, strings.Contains(BaseName(bare), "."), bare)
}

func TestDeriveStorageKeyDifferentOwners(t *testing.T) {
	now := time.Now()
	a := DeriveStorageKey("owner-a", "exam.pdf", now)
	b := DeriveStorageKey("owner-b", "exam.pdf", now)
	assert.NotEqual(t, a, b)
}

func TestDeriveStorageKeyConcurrentUploadsAreUnique(t *testing.T) {
	const uploads = 1000
	now := time.Now()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{}, uploads)
	)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := DeriveStorageKey("owner-1", "exam.pdf", now)
			mu.Lock()
			seen[key] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, uploads)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "1-a.pdf", BaseName("owner/1-a.pdf"))
	assert.Equal(t, "plain.pdf", BaseName("plain.pdf"))
	assert.Equal(t, "file", BaseName("owner/"))
}

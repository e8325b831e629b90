package dedup_test

import (
	"bytes"
	"errors"
	"testing"

	"dedup-go/internal/dedup"
	"dedup-go/internal/testutil"
)

// sampledFile builds content larger than both sampling windows: head
// and tail are fixed, the middle byte is caller-controlled.
func sampledFile(middle byte) []byte {
	content := bytes.Repeat([]byte{'h'}, 4096)
	content = append(content, bytes.Repeat([]byte{middle}, 2000)...)
	content = append(content, bytes.Repeat([]byte{'t'}, 4096)...)
	return content
}

func addRecord(fsys *testutil.MockFilesystem, path string, content []byte) dedup.FileRecord {
	fsys.AddFile(path, content, testTime(1))
	return dedup.FileRecord{Path: path, Size: int64(len(content))}
}

func TestQuickFingerprint(t *testing.T) {
	t.Run("equal small files agree", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		a := addRecord(fsys, "/a", []byte("same content"))
		b := addRecord(fsys, "/b", []byte("same content"))

		fpA, err := dedup.QuickFingerprint(fsys, a)
		if err != nil {
			t.Fatalf("QuickFingerprint(a) error = %v", err)
		}
		fpB, err := dedup.QuickFingerprint(fsys, b)
		if err != nil {
			t.Fatalf("QuickFingerprint(b) error = %v", err)
		}
		if fpA != fpB {
			t.Errorf("fingerprints differ for identical content: %s vs %s", fpA, fpB)
		}
	})

	t.Run("differing small files disagree", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		a := addRecord(fsys, "/a", []byte("content one!"))
		b := addRecord(fsys, "/b", []byte("content two!"))

		fpA, _ := dedup.QuickFingerprint(fsys, a)
		fpB, _ := dedup.QuickFingerprint(fsys, b)
		if fpA == fpB {
			t.Error("fingerprints agree for different content")
		}
	})

	t.Run("size is part of the fingerprint", func(t *testing.T) {
		// Same sampled bytes, different declared sizes must never
		// produce the same key.
		fsys := testutil.NewMockFilesystem()
		content := []byte("shared")
		fsys.AddFile("/a", content, testTime(1))
		fsys.AddFile("/b", content, testTime(1))

		a := dedup.FileRecord{Path: "/a", Size: 6}
		b := dedup.FileRecord{Path: "/b", Size: 7}

		fpA, _ := dedup.QuickFingerprint(fsys, a)
		fpB, _ := dedup.QuickFingerprint(fsys, b)
		if fpA == fpB {
			t.Error("fingerprints agree across different sizes")
		}
	})

	t.Run("middle bytes are not sampled in large files", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		a := addRecord(fsys, "/a", sampledFile('x'))
		b := addRecord(fsys, "/b", sampledFile('y'))

		fpA, _ := dedup.QuickFingerprint(fsys, a)
		fpB, _ := dedup.QuickFingerprint(fsys, b)
		if fpA != fpB {
			t.Error("fingerprints differ despite identical head, tail and size")
		}
	})

	t.Run("open failure propagates", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		rec := addRecord(fsys, "/a", []byte("data"))
		fsys.OpenErrors["/a"] = errors.New("permission denied")

		if _, err := dedup.QuickFingerprint(fsys, rec); err == nil {
			t.Error("expected error from unreadable file")
		}
	})
}

func TestContentDigest(t *testing.T) {
	t.Run("known digest", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		rec := addRecord(fsys, "/a", []byte("hello world"))

		digest, err := dedup.ContentDigest(fsys, rec)
		if err != nil {
			t.Fatalf("ContentDigest() error = %v", err)
		}
		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if digest != want {
			t.Errorf("digest = %s, want %s", digest, want)
		}
	})

	t.Run("middle bytes distinguish large files", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		a := addRecord(fsys, "/a", sampledFile('x'))
		b := addRecord(fsys, "/b", sampledFile('y'))

		digestA, _ := dedup.ContentDigest(fsys, a)
		digestB, _ := dedup.ContentDigest(fsys, b)
		if digestA == digestB {
			t.Error("digests agree despite differing content")
		}
	})

	t.Run("open failure propagates", func(t *testing.T) {
		fsys := testutil.NewMockFilesystem()
		rec := addRecord(fsys, "/a", []byte("data"))
		fsys.OpenErrors["/a"] = errors.New("permission denied")

		if _, err := dedup.ContentDigest(fsys, rec); err == nil {
			t.Error("expected error from unreadable file")
		}
	})
}

package dedup

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// quickSampleSize is the number of bytes sampled from each end of a
// file for the quick fingerprint.
const quickSampleSize = 4096

// hashBufferSize is the read buffer used when streaming full content.
const hashBufferSize = 64 * 1024

// QuickFingerprint computes the cheap candidate fingerprint for a
// record: MD5 over the decimal size, the first quickSampleSize bytes
// and the last quickSampleSize bytes. Files no larger than twice the
// sample are read whole, once. A differing fingerprint certifies
// non-duplication; an equal fingerprint is only a candidate signal.
func QuickFingerprint(fsys Filesystem, rec FileRecord) (string, error) {
	f, err := fsys.Open(rec.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", rec.Path, err)
	}
	defer f.Close()

	hasher := md5.New()
	hasher.Write([]byte(strconv.FormatInt(rec.Size, 10)))

	if rec.Size <= 2*quickSampleSize {
		if _, err := io.Copy(hasher, f); err != nil {
			return "", fmt.Errorf("reading %s: %w", rec.Path, err)
		}
		return hex.EncodeToString(hasher.Sum(nil)), nil
	}

	if _, err := io.CopyN(hasher, f, quickSampleSize); err != nil {
		return "", fmt.Errorf("reading head of %s: %w", rec.Path, err)
	}
	if _, err := f.Seek(-quickSampleSize, io.SeekEnd); err != nil {
		return "", fmt.Errorf("seeking tail of %s: %w", rec.Path, err)
	}
	if _, err := io.CopyN(hasher, f, quickSampleSize); err != nil {
		return "", fmt.Errorf("reading tail of %s: %w", rec.Path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// ContentDigest streams the entire file content through SHA-256 and
// returns the hex digest. Equal digests confirm duplication.
func ContentDigest(fsys Filesystem, rec FileRecord) (string, error) {
	f, err := fsys.Open(rec.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", rec.Path, err)
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", fmt.Errorf("hashing %s: %w", rec.Path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

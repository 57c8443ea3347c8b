// Package fingerprint computes point-in-time snapshots of log files: size,
// timestamps, a binary-safe line count, and a streamed 128-bit content hash
// used for change detection.
package fingerprint

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aASDa213ASD/noiseless/models"
	"github.com/zeebo/xxh3"
)

// blockSize is the read size used when streaming a file through the hasher.
const blockSize = 16 * 1024 * 1024

// Info takes a fresh snapshot of the file at path. It is read-only and
// recomputes everything on every call; nothing is cached between calls.
func Info(path string) (models.FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}

	hash, lines, err := hashAndCount(path)
	if err != nil {
		return models.FileInfo{}, err
	}

	return models.FileInfo{
		FileName:   stat.Name(),
		FileSize:   fmt.Sprintf("%d bytes", stat.Size()),
		CreatedAt:  createdAt(stat).Format(models.TimestampLayout),
		ModifiedAt: stat.ModTime().Format(models.TimestampLayout),
		Hash:       hash,
		Lines:      lines,
		Path:       path,
	}, nil
}

// hashAndCount streams the file once in fixed-size blocks, in file order with
// no seeking, feeding the hasher and counting line terminators as raw bytes.
// A trailing record without a final newline still counts; an empty file has
// zero lines. Nothing here decodes text, so non-UTF8 content is fine.
func hashAndCount(path string) (string, int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hasher := xxh3.New()
	buf := make([]byte, blockSize)
	lines := 0
	lastByte := byte('\n')

	for {
		n, err := f.Read(buf)
		if n > 0 {
			_, _ = hasher.Write(buf[:n])
			lines += bytes.Count(buf[:n], []byte{'\n'})
			lastByte = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to read file: %w", err)
		}
	}

	if lastByte != '\n' {
		lines++
	}

	sum := hasher.Sum128()
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo), lines, nil
}

package models

// TimestampLayout is the display format used for file timestamps and the
// filtered_at field in metadata artifacts.
const TimestampLayout = "02-01-2006 15:04:05"

// FileInfo is a point-in-time snapshot of a log file's metadata.
// Snapshots are recomputed on every call and never cached, so they always
// reflect the current on-disk state of the file.
type FileInfo struct {
	FileName   string `json:"file_name"`
	FileSize   string `json:"file_size"` // rendered as "<N> bytes"
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	Hash       string `json:"hash"` // 32-char hex, XXH3-128
	Lines      int    `json:"lines"`

	// Path is the resolved on-disk location the snapshot was taken from.
	// Carried for callers, not part of the JSON shape.
	Path string `json:"-"`
}

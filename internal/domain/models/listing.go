package models

import (
	"fmt"
	"time"
)

// DirectoryEntry is a top-level category folder returned by the dirs
// endpoint. Immutable once fetched; refreshed only by re-listing.
type DirectoryEntry struct {
	Name     string    `json:"name"`
	Modified time.Time `json:"modified"`
}

// FileSystemNode is a folder or leaf file within a category listing.
// Path is unique within one listing response; there is no cross-request
// identity guarantee.
type FileSystemNode struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	IsDir    bool      `json:"is_dir"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Sign     string    `json:"sign,omitempty"`
	Thumb    string    `json:"thumb,omitempty"`
}

// HumanSize formats the byte count for display, binary units.
func (n FileSystemNode) HumanSize() string {
	const unit = 1024
	if n.Size < unit {
		return fmt.Sprintf("%d B", n.Size)
	}
	div, exp := int64(unit), 0
	for s := n.Size / unit; s >= unit; s /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n.Size)/float64(div), "KMGTPE"[exp])
}

// FileListPage is one page of a listing.
type FileListPage struct {
	Content []FileSystemNode `json:"content"`
	Total   int              `json:"total"`
}

// FileDetail is the metadata returned by the get endpoint, including
// the raw URL used for the follow-up direct content fetch.
type FileDetail struct {
	FileSystemNode
	RawURL   string `json:"raw_url"`
	Provider string `json:"provider,omitempty"`
}

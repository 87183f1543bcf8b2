// Package listing is the thin client for the remote file listing
// service: list directories, list files with pagination, fetch file
// metadata and raw content.
package listing

import (
	"context"
	"log/slog"

	"lorehub/internal/backend"
	"lorehub/internal/domain/models"
)

type dirsRequest struct {
	Path string `json:"path"`
}

type listRequest struct {
	Path    string `json:"path"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

type getRequest struct {
	Path string `json:"path"`
}

// Client wraps the three listing operations. A failed call surfaces
// immediately; callers leave prior state untouched on failure.
type Client struct {
	caller *backend.Caller
	root   string
	logger *slog.Logger
}

// NewClient creates a listing client rooted at the service's route
// prefix, e.g. "/openlist/fs".
func NewClient(caller *backend.Caller, root string, logger *slog.Logger) *Client {
	return &Client{caller: caller, root: root, logger: logger}
}

// Dirs lists the category/subdirectory entries under a remote path.
func (c *Client) Dirs(ctx context.Context, path string) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	if err := c.caller.Post(ctx, c.root+"/dirs", dirsRequest{Path: path}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// List fetches one page of nodes under a remote path. Item order
// within the page is whatever the backend returned.
func (c *Client) List(ctx context.Context, path string, page, perPage int) (*models.FileListPage, error) {
	var result models.FileListPage
	req := listRequest{Path: path, Page: page, PerPage: perPage}
	if err := c.caller.Post(ctx, c.root+"/list", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Get fetches file metadata including the raw URL for a follow-up
// direct content fetch.
func (c *Client) Get(ctx context.Context, path string) (*models.FileDetail, error) {
	var detail models.FileDetail
	if err := c.caller.Post(ctx, c.root+"/get", getRequest{Path: path}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Content resolves a path to its raw bytes: get for the metadata, then
// a direct fetch of the raw URL.
func (c *Client) Content(ctx context.Context, path string) (*models.FileDetail, []byte, error) {
	detail, err := c.Get(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	raw, err := c.caller.FetchRaw(ctx, detail.RawURL)
	if err != nil {
		return nil, nil, err
	}
	return detail, raw, nil
}

// Package browse implements the directory/pagination state machine
// behind the notes and gallery views: category selection, sub-path
// descent with breadcrumbs, pagination, and local search over loaded
// pages.
package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"lorehub/internal/domain/models"
)

// Mode declares the pagination contract of a view: the notes browser
// replaces the visible list per page, the gallery accumulates across
// load-more actions.
type Mode int

const (
	ModeReplace Mode = iota
	ModeAppend
)

// ErrNotDirectory is returned by EnterDirectory for leaf files; the
// browser state is left untouched and the caller routes to the detail
// view instead.
var ErrNotDirectory = errors.New("not a directory")

// Source is the slice of the listing client the browser drives.
type Source interface {
	Dirs(ctx context.Context, path string) ([]models.DirectoryEntry, error)
	List(ctx context.Context, path string, page, perPage int) (*models.FileListPage, error)
}

// Snapshot is an immutable view of the browser state for rendering.
// Directories and files are partitioned (directories first) without
// re-sorting within each group.
type Snapshot struct {
	Categories  []models.DirectoryEntry `json:"categories"`
	Category    string                  `json:"category"`
	SubPath     []string                `json:"sub_path"`
	Page        int                     `json:"page"`
	PageSize    int                     `json:"page_size"`
	Directories []models.FileSystemNode `json:"directories"`
	Files       []models.FileSystemNode `json:"files"`
	Total       int                     `json:"total"`
	HasMore     bool                    `json:"has_more"`
	LoadingMore bool                    `json:"loading_more"`
}

// Browser is one user's browse state for one view. All transitions are
// serialized through the mutex; fetches run outside the lock and apply
// their result only if their generation is still current, so a stale
// response can never overwrite newer state.
type Browser struct {
	src      Source
	root     string
	mode     Mode
	pageSize int
	logger   *slog.Logger

	mu          sync.Mutex
	gen         uint64
	categories  []models.DirectoryEntry
	category    string
	subPath     []string
	page        int
	items       []models.FileSystemNode
	total       int
	hasMore     bool
	loadingMore bool
}

// New creates a browser anchored at a remote root path.
func New(src Source, root string, mode Mode, pageSize int, logger *slog.Logger) *Browser {
	return &Browser{
		src:      src,
		root:     root,
		mode:     mode,
		pageSize: pageSize,
		page:     1,
		logger:   logger,
	}
}

// LoadCategories lists the top-level category folders.
func (b *Browser) LoadCategories(ctx context.Context) ([]models.DirectoryEntry, error) {
	entries, err := b.src.Dirs(ctx, b.root)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.categories = entries
	b.mu.Unlock()
	return entries, nil
}

// SelectCategory switches the browser to a category: the sub-path
// stack empties, the page resets to 1, and page 1 replaces the items.
// Selecting the already-current category reloads it the same way.
func (b *Browser) SelectCategory(ctx context.Context, name string) error {
	b.mu.Lock()
	prevCategory, prevSub, prevPage := b.category, b.subPath, b.page
	b.category = name
	b.subPath = nil
	b.page = 1
	gen := b.bumpGen()
	path := b.remotePathLocked()
	b.mu.Unlock()

	return b.fetchAndApply(ctx, gen, path, 1, false, func() {
		b.category, b.subPath, b.page = prevCategory, prevSub, prevPage
	})
}

// EnterDirectory descends into a folder node: its name is pushed onto
// the sub-path stack and page 1 of the new path replaces the items.
// Leaf files return ErrNotDirectory without touching any state.
func (b *Browser) EnterDirectory(ctx context.Context, node models.FileSystemNode) error {
	if !node.IsDir {
		return ErrNotDirectory
	}

	b.mu.Lock()
	prevSub, prevPage := b.subPath, b.page
	b.subPath = append(append([]string(nil), b.subPath...), node.Name)
	b.page = 1
	gen := b.bumpGen()
	path := b.remotePathLocked()
	b.mu.Unlock()

	return b.fetchAndApply(ctx, gen, path, 1, false, func() {
		b.subPath, b.page = prevSub, prevPage
	})
}

// NavigateBreadcrumb truncates the sub-path stack to the given depth;
// index -1 returns to the category root. The page resets to 1.
func (b *Browser) NavigateBreadcrumb(ctx context.Context, index int) error {
	b.mu.Lock()
	if index < -1 || index >= len(b.subPath) {
		b.mu.Unlock()
		return nil
	}
	prevSub, prevPage := b.subPath, b.page
	b.subPath = b.subPath[:index+1]
	b.page = 1
	gen := b.bumpGen()
	path := b.remotePathLocked()
	b.mu.Unlock()

	return b.fetchAndApply(ctx, gen, path, 1, false, func() {
		b.subPath, b.page = prevSub, prevPage
	})
}

// NextPage jumps to an absolute page, replacing the visible list.
func (b *Browser) NextPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	b.mu.Lock()
	prevPage := b.page
	b.page = page
	gen := b.bumpGen()
	path := b.remotePathLocked()
	b.mu.Unlock()

	return b.fetchAndApply(ctx, gen, path, page, false, func() {
		b.page = prevPage
	})
}

// LoadMore fetches the next page. In append mode the results accumulate
// onto the visible list. Calls are ignored while a load is already in
// flight, and a no-op when no further pages exist.
func (b *Browser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if b.loadingMore || !b.hasMore {
		b.mu.Unlock()
		return nil
	}
	b.loadingMore = true
	gen := b.gen
	path := b.remotePathLocked()
	page := b.page + 1
	b.mu.Unlock()

	err := b.fetchAndApply(ctx, gen, path, page, b.mode == ModeAppend, nil)

	b.mu.Lock()
	b.loadingMore = false
	b.mu.Unlock()
	return err
}

// Search filters the currently loaded items by case-insensitive
// substring match on the name. It never requeries the backend, so the
// result is bounded by the pages already fetched.
func (b *Browser) Search(text string) Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.snapshotLocked()
	if text == "" {
		return snap
	}

	needle := strings.ToLower(text)
	filter := func(nodes []models.FileSystemNode) []models.FileSystemNode {
		var out []models.FileSystemNode
		for _, n := range nodes {
			if strings.Contains(strings.ToLower(n.Name), needle) {
				out = append(out, n)
			}
		}
		return out
	}
	snap.Directories = filter(snap.Directories)
	snap.Files = filter(snap.Files)
	return snap
}

// Snapshot returns the current state for rendering.
func (b *Browser) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// bumpGen invalidates any in-flight fetch. Callers must hold the mutex.
func (b *Browser) bumpGen() uint64 {
	b.gen++
	return b.gen
}

// remotePathLocked reconstructs the full remote path from the root,
// the category, and the sub-path stack. Callers must hold the mutex.
func (b *Browser) remotePathLocked() string {
	path := b.root
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if b.category != "" {
		path += b.category + "/"
	}
	for _, segment := range b.subPath {
		path += segment + "/"
	}
	return path
}

// fetchAndApply runs the listing call outside the lock, then applies
// the result only if the generation is still current. A failed fetch
// leaves the previously displayed items untouched; restore runs under
// the lock to roll the navigation fields back to their pre-fetch
// values, so the snapshot never labels old items with a new location.
func (b *Browser) fetchAndApply(ctx context.Context, gen uint64, path string, page int, appendItems bool, restore func()) error {
	result, err := b.src.List(ctx, path, page, b.pageSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		b.logger.Debug("discarding stale listing response",
			"path", path,
			"page", page,
		)
		return nil
	}

	if err != nil {
		if restore != nil {
			restore()
		}
		return err
	}

	if appendItems {
		b.items = append(b.items, result.Content...)
	} else {
		b.items = result.Content
	}
	b.page = page
	b.total = result.Total

	if result.Total > 0 {
		b.hasMore = page*b.pageSize < result.Total
	} else {
		b.hasMore = len(result.Content) >= b.pageSize
	}
	return nil
}

func (b *Browser) snapshotLocked() Snapshot {
	snap := Snapshot{
		Categories:  b.categories,
		Category:    b.category,
		SubPath:     append([]string(nil), b.subPath...),
		Page:        b.page,
		PageSize:    b.pageSize,
		Total:       b.total,
		HasMore:     b.hasMore,
		LoadingMore: b.loadingMore,
	}

	for _, item := range b.items {
		if item.IsDir {
			snap.Directories = append(snap.Directories, item)
		} else {
			snap.Files = append(snap.Files, item)
		}
	}
	return snap
}

package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/pods/pkg/episode"
)

const pagesDir = "pages"

// ErrNotCached is returned by Get for a page with no snapshot.
var ErrNotCached = errors.New("store: page not cached")

// Snapshot is the last known content of a page.
type Snapshot struct {
	Page     string            `json:"page"`
	Saved    time.Time         `json:"saved"`
	Episodes []episode.Episode `json:"episodes"`
}

// Cache keeps page snapshots on disk so pages render without the server.
type Cache interface {
	Put(page string, episodes []episode.Episode) error
	Get(page string) (*Snapshot, error)
	Pages(ctx context.Context) []string
	Delete(page string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Cache backed by diskv using the provided config.
func Load(cfg Config) (Cache, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: cache path unknown")
	}
	return &cache{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type cache struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

func (c *cache) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *cache) Put(page string, episodes []episode.Episode) error {
	if page == "" {
		return errors.New("store: empty page name")
	}
	snap := Snapshot{Page: page, Saved: c.clock().UTC(), Episodes: episode.CloneAll(episodes)}
	if snap.Episodes == nil {
		snap.Episodes = []episode.Episode{}
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", page, err)
	}
	return c.d.Write(toKey(page), b)
}

func (c *cache) Get(page string) (*Snapshot, error) {
	key := toKey(page)
	if !c.d.Has(key) {
		return nil, ErrNotCached
	}
	val, err := c.d.Read(key)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(val, snap); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", page, err)
	}
	if snap.Page == "" {
		snap.Page = page
	}
	return snap, nil
}

func (c *cache) Pages(ctx context.Context) []string {
	pages := make([]string, 0)
	for key := range c.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) != 1 || pk.Path[0] != pagesDir {
			continue
		}
		page, err := fromPage(pk.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

func (c *cache) Delete(page string) error {
	key := toKey(page)
	if !c.d.Has(key) {
		return nil
	}
	return c.d.Erase(key)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `pages-<encoded page>`
func toKey(page string) string {
	return fmt.Sprintf("%s-%s", pagesDir, toPage(page))
}

func toPage(s string) string {
	return hex.EncodeToString([]byte(s))
}

func fromPage(s string) (string, error) {
	page, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("fromPage: %w", err)
	}
	return string(page), nil
}

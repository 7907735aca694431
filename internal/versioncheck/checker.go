package versioncheck

import (
	"context"
	"time"

	"github.com/createkit/createkit/internal/pkgmanager"
	"github.com/rs/zerolog/log"
)

// Checker answers "what is the newest release of this manager", consulting
// the cache before the registry.
type Checker struct {
	Client    *Client
	ConfigDir string
	MaxAge    time.Duration
	Now       func() time.Time
}

// NewChecker returns a Checker caching under configDir.
func NewChecker(configDir string, opts ...Option) *Checker {
	return &Checker{
		Client:    NewClient(opts...),
		ConfigDir: configDir,
		MaxAge:    DefaultCacheMaxAge,
		Now:       time.Now,
	}
}

// PackageName returns the npm package that ships m.
func PackageName(m pkgmanager.Manager) string {
	return m.String()
}

// Latest returns the newest published version of m. A fresh cache entry is
// returned without a network request; a successful lookup refreshes it.
func (c *Checker) Latest(ctx context.Context, m pkgmanager.Manager) (string, error) {
	pkg := PackageName(m)
	now := c.Now()

	cache, err := LoadCache(c.ConfigDir)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring unreadable version cache")
		cache = &Cache{Entries: map[string]Entry{}}
	}
	if e, ok := cache.Entries[pkg]; ok && !e.IsStale(now, c.MaxAge) {
		return e.Latest, nil
	}

	latest, err := c.Client.LatestVersion(ctx, pkg)
	if err != nil {
		return "", err
	}

	cache.Entries[pkg] = Entry{Latest: latest, CheckedAt: now}
	if err := SaveCache(c.ConfigDir, cache); err != nil {
		log.Debug().Err(err).Msg("saving version cache")
	}
	return latest, nil
}

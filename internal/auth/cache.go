package auth

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mfauzirh/workforce-management/internal"
)

// RoleSnapshot is the cached projection of a role: its metadata plus the
// flattened permission set, stamped with the load time.
type RoleSnapshot struct {
	RoleID      int64
	RoleName    string
	DisplayName string
	IsActive    bool
	Permissions []string
	CachedAt    time.Time
}

// RoleCache is the process-local, TTL-bounded cache consulted by the
// fallback path. Keyed by role id; the key space is bounded by the fixed
// role set, so there is no size limit and eviction is pure TTL. There is no
// invalidation channel: a permission edit becomes visible here only when the
// entry ages out, which is the documented staleness window.
//
// Concurrent misses for the same role may race to repopulate an entry; both
// loads produce the same store value, so last-write-wins is benign.
type RoleCache struct {
	entries *lru.LRU[int64, RoleSnapshot]
	ttl     time.Duration
}

func NewRoleCache(ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = internal.DefaultPermissionCacheTTL
	}
	return &RoleCache{
		// size 0 means unbounded; entries expire by TTL only.
		entries: lru.NewLRU[int64, RoleSnapshot](0, nil, ttl),
		ttl:     ttl,
	}
}

// Get returns the snapshot for roleID if present and younger than the TTL.
func (c *RoleCache) Get(roleID int64) (RoleSnapshot, bool) {
	return c.entries.Get(roleID)
}

// Set stores a freshly loaded snapshot, overwriting any stale entry.
func (c *RoleCache) Set(snapshot RoleSnapshot) {
	c.entries.Add(snapshot.RoleID, snapshot)
}

// Len reports the live entry count.
func (c *RoleCache) Len() int {
	return c.entries.Len()
}

// TTL reports the configured entry lifetime.
func (c *RoleCache) TTL() time.Duration {
	return c.ttl
}

// Package emitcache implements the emitter's two-level incremental cache:
// a per-class tree cache (DesugaredClassCache) holding one-shot pieces, and
// a per-method tree cache (MethodCache) holding version-gated method
// bodies, both scoped inside a ClassCache keyed by ancestor list. Grounded
// on internal/cache/cache_ast.go's "check cache by key, compare recorded
// value, else reproduce and store" shape (see DESIGN.md).
package emitcache

import (
	"sync"

	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
)

// Stats accumulates the run statistics SPEC_FULL.md §5 says are "updated
// imperatively during emission and reported once at endRun".
type Stats struct {
	ClassesReused      int
	ClassesInvalidated int
	MethodsReused      int
	MethodsInvalidated int
}

// MethodCache is the canonical version-gated memo described in
// SPEC_FULL.md §3/§4.4: an absent stored version never matches a request,
// so a class with no version information is always recomputed.
type MethodCache struct {
	mu      sync.Mutex
	tree    jstree.Stmt
	version string
	hasTree bool
	used    bool
}

// StartRun clears the "used this run" flag; callers must do this once per
// run before any GetOrElseUpdate call, mirroring the teacher's per-run reset
// of transient bookkeeping.
func (m *MethodCache) StartRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used = false
}

// GetOrElseUpdate returns the cached tree if its stored version equals
// version; otherwise it invokes producer, stores the result under version,
// and returns that. An empty stored version (never set, or explicitly
// invalidated) never matches, forcing recomputation -- this is the "None
// always misses" rule from SPEC_FULL.md §3.
func (m *MethodCache) GetOrElseUpdate(version string, stats *Stats, producer func() jstree.Stmt) jstree.Stmt {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used = true

	if m.hasTree && m.version == version && version != "" {
		stats.MethodsReused++
		return m.tree
	}

	stats.MethodsInvalidated++
	tree := producer()
	m.tree = tree
	m.version = version
	m.hasTree = true
	return tree
}

// Invalidate clears the stored tree unconditionally, used by ctoropt's
// invalidation callback when a method's ctor-opt dependency flips.
func (m *MethodCache) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasTree = false
	m.tree = nil
	m.version = ""
}

// CleanAfterRun reports whether this cache was consulted during the run
// that just ended; ClassCache uses this to decide whether to keep it.
func (m *MethodCache) CleanAfterRun() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// OneTimeCache is a single fill-once-per-lifetime slot, used for the seven
// per-class pieces that are computed at most once per DesugaredClassCache
// lifetime (constructor, exportedMembers, instanceTests, typeData,
// setTypeData, moduleAccessor, classExports).
type OneTimeCache struct {
	tree    jstree.Stmt
	hasTree bool
}

// GetOrElseUpdate fills the slot on first call and returns the same value
// on every subsequent call until Invalidate resets it.
func (o *OneTimeCache) GetOrElseUpdate(producer func() jstree.Stmt) jstree.Stmt {
	if !o.hasTree {
		o.tree = producer()
		o.hasTree = true
	}
	return o.tree
}

// Invalidate resets the slot to empty.
func (o *OneTimeCache) Invalidate() {
	o.hasTree = false
	o.tree = nil
}

// Filled reports whether the slot has been filled since the last
// Invalidate.
func (o *OneTimeCache) Filled() bool { return o.hasTree }

// DesugaredClassCache holds the one-shot slots for a single (ancestors,
// version) pair.
type DesugaredClassCache struct {
	Constructor     OneTimeCache
	ExportedMembers OneTimeCache
	InstanceTests   OneTimeCache
	TypeData        OneTimeCache
	SetTypeData     OneTimeCache
	ModuleAccessor  OneTimeCache
	ClassExports    OneTimeCache
}

func (d *DesugaredClassCache) used() bool {
	return d.Constructor.Filled() || d.ExportedMembers.Filled() || d.InstanceTests.Filled() ||
		d.TypeData.Filled() || d.SetTypeData.Filled() || d.ModuleAccessor.Filled() || d.ClassExports.Filled()
}

// ClassCache holds the current DesugaredClassCache plus per-method and
// per-static-method caches for a single ancestor list.
type ClassCache struct {
	version       string
	hasVersion    bool
	current       *DesugaredClassCache
	usedThisRun   bool
	methods       map[string]*MethodCache
	staticMethods map[string]*MethodCache
}

func newClassCache() *ClassCache {
	return &ClassCache{
		methods:       make(map[string]*MethodCache),
		staticMethods: make(map[string]*MethodCache),
	}
}

// DesugaredClassCacheFor implements the lookup protocol from
// SPEC_FULL.md §4.4: if the recorded version is absent or differs from
// version, the current cache is dropped and a fresh one allocated.
func (c *ClassCache) DesugaredClassCacheFor(version string, stats *Stats) *DesugaredClassCache {
	c.usedThisRun = true

	if c.current == nil || !c.hasVersion || c.version != version || version == "" {
		c.current = &DesugaredClassCache{}
		c.version = version
		c.hasVersion = version != ""
		stats.ClassesInvalidated++
	} else {
		stats.ClassesReused++
	}
	return c.current
}

// InvalidateExportedMembers drops the exportedMembers OneTimeCache slot of
// the current DesugaredClassCache, if one has been allocated. This is the
// bridge C7's invalidate callback uses for its two sentinel method names,
// since a constructor-export or exported-member piece is not addressed by
// an ordinary per-method MethodCache entry.
func (c *ClassCache) InvalidateExportedMembers() {
	if c.current != nil {
		c.current.ExportedMembers.Invalidate()
	}
}

// Method returns (creating if necessary) the MethodCache for methodName.
func (c *ClassCache) Method(methodName string, isStatic bool) *MethodCache {
	m := c.methods
	if isStatic {
		m = c.staticMethods
	}
	mc, ok := m[methodName]
	if !ok {
		mc = &MethodCache{}
		m[methodName] = mc
	}
	return mc
}

// StartRun clears per-run bookkeeping on this class cache and all of its
// method sub-caches.
func (c *ClassCache) StartRun() {
	c.usedThisRun = false
	for _, mc := range c.methods {
		mc.StartRun()
	}
	for _, mc := range c.staticMethods {
		mc.StartRun()
	}
}

// CleanAfterRun drops method sub-caches that were not used this run and
// reports whether the ClassCache itself should be retained: either its
// DesugaredClassCache was consulted this run, or at least one sub-cache
// survived the sweep.
func (c *ClassCache) CleanAfterRun() bool {
	anySurvived := false
	for name, mc := range c.methods {
		if mc.CleanAfterRun() {
			anySurvived = true
		} else {
			delete(c.methods, name)
		}
	}
	for name, mc := range c.staticMethods {
		if mc.CleanAfterRun() {
			anySurvived = true
		} else {
			delete(c.staticMethods, name)
		}
	}
	return c.usedThisRun || anySurvived
}

// Cache is the top-level two-level tree cache, one per emitter engine
// lifetime, keyed by ancestor list (SPEC_FULL.md §3 "ClassCache is created
// lazily keyed by ancestor list").
type Cache struct {
	mu      sync.Mutex
	classes map[string]*ClassCache
}

// New constructs an empty Cache.
func New() *Cache {
	return &Cache{classes: make(map[string]*ClassCache)}
}

// ClassCacheFor returns (creating if necessary) the ClassCache for the
// given ancestor list, keyed by irtree.AncestorsKey so that equal ancestor
// sequences in different slice backing arrays still hit the same entry.
func (c *Cache) ClassCacheFor(ancestorsKey string) *ClassCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	cc, ok := c.classes[ancestorsKey]
	if !ok {
		cc = newClassCache()
		c.classes[ancestorsKey] = cc
	}
	return cc
}

// StartRun resets per-run bookkeeping across every class cache.
func (c *Cache) StartRun() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cc := range c.classes {
		cc.StartRun()
	}
}

// CleanAfterRun drops every ClassCache that was not used this run, along
// with its sub-caches, implementing the retention rule from
// SPEC_FULL.md §3's Lifecycle section.
func (c *Cache) CleanAfterRun() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, cc := range c.classes {
		if !cc.CleanAfterRun() {
			delete(c.classes, key)
		}
	}
}

// Size reports how many class caches are currently retained, for tests and
// diagnostics.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.classes)
}

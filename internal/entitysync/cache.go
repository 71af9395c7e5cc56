package entitysync

// Cache is an ordered collection of entities with unique ids. Insertion
// order is display order. A Cache is not safe for concurrent use; the
// Controller guards its own.
type Cache[T Entity] struct {
	items []T
	index map[string]int
}

// NewCache returns an empty cache.
func NewCache[T Entity]() *Cache[T] {
	return &Cache[T]{index: make(map[string]int)}
}

// ReplaceAll swaps the whole contents for items. A repeated id keeps its
// first position and its last value.
func (c *Cache[T]) ReplaceAll(items []T) {
	c.items = make([]T, 0, len(items))
	c.index = make(map[string]int, len(items))
	for _, item := range items {
		c.Upsert(item)
	}
}

// Upsert replaces the entity with the same id in place, or appends it.
// Reports whether the entity was appended.
func (c *Cache[T]) Upsert(item T) bool {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	id := item.EntityID()
	if i, ok := c.index[id]; ok {
		c.items[i] = item
		return false
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, item)
	return true
}

// Remove deletes the entity with id, keeping the order of the rest.
// Removing an absent id is a no-op. Reports whether anything was removed.
func (c *Cache[T]) Remove(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	copy(c.items[i:], c.items[i+1:])
	var zero T
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]

	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].EntityID()] = j
	}
	return true
}

// Get returns the entity with id.
func (c *Cache[T]) Get(id string) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Has reports whether id is cached.
func (c *Cache[T]) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// All returns a copy of the entities in display order.
func (c *Cache[T]) All() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the cached ids in display order.
func (c *Cache[T]) IDs() []string {
	ids := make([]string, len(c.items))
	for i, item := range c.items {
		ids[i] = item.EntityID()
	}
	return ids
}

// Len returns the number of cached entities.
func (c *Cache[T]) Len() int { return len(c.items) }

package espi

// Collection stores resources keyed by entry id while preserving document
// order. Duplicate ids are last-write-wins: the value is replaced but the
// original position is kept, so iteration order stays stable.
type Collection[T any] struct {
	ids   []string
	items map[string]T
}

// Put inserts or replaces the value for id.
func (c *Collection[T]) Put(id string, v T) {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	if _, exists := c.items[id]; !exists {
		c.ids = append(c.ids, id)
	}
	c.items[id] = v
}

// Get returns the value for id, if present.
func (c *Collection[T]) Get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// Len returns the number of stored resources.
func (c *Collection[T]) Len() int { return len(c.ids) }

// IDs returns the entry ids in insertion order. The slice is a copy.
func (c *Collection[T]) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Items returns the values in insertion order.
func (c *Collection[T]) Items() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}

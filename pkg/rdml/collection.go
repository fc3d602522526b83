package rdml

// Keyer is implemented by every entity stored in a Collection.
type Keyer interface {
	Key() string
}

// Collection is an id-keyed set of entities with insertion-order iteration.
// Set on an existing key overwrites the entry in place (last-write-wins)
// without moving it, so serialization order stays stable across updates.
type Collection[T Keyer] struct {
	keys  []string
	items map[string]T
}

// Len returns the number of entries.
func (c *Collection[T]) Len() int { return len(c.keys) }

// Get returns the entry stored under id.
func (c *Collection[T]) Get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// Set inserts or overwrites v under its key. Existing entries keep their
// original position; new keys append at the end.
func (c *Collection[T]) Set(v T) {
	id := v.Key()
	if c.items == nil {
		c.items = make(map[string]T)
	}
	if _, ok := c.items[id]; !ok {
		c.keys = append(c.keys, id)
	}
	c.items[id] = v
}

// Remove deletes the entry under id and reports whether it existed.
func (c *Collection[T]) Remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, k := range c.keys {
		if k == id {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the identifiers in insertion order.
func (c *Collection[T]) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Values returns the entries in insertion order.
func (c *Collection[T]) Values() []T {
	out := make([]T, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.items[k])
	}
	return out
}

// Merge unions other into c. Entries from other overwrite same-id entries
// already present (keeping their first-seen position); keys unique to other
// append at the end in other's order.
func (c *Collection[T]) Merge(other Collection[T]) {
	for _, k := range other.keys {
		c.Set(other.items[k])
	}
}

package kv

import "context"

// ListMap maps an owner (user or anime id) to an ordered list of entries, all kept
// in a single stored document. Anything under the key that does not decode as
// map[string][]E reads as the empty map.
type ListMap[E any] struct {
	store Store
	key   string
}

func NewListMap[E any](store Store, key string) *ListMap[E] {
	return &ListMap[E]{store: store, key: key}
}

func (m *ListMap[E]) All(ctx context.Context) (map[string][]E, error) {
	all, err := Read(ctx, m.store, m.key, map[string][]E{})
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string][]E{}
	}
	return all, nil
}

// Get returns the owner's list; never nil.
func (m *ListMap[E]) Get(ctx context.Context, owner string) ([]E, error) {
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}
	list := all[owner]
	if list == nil {
		list = []E{}
	}
	return list, nil
}

// Update runs fn over the owner's current list and stores the result when fn
// reports a change. Callers serialize Update calls themselves.
func (m *ListMap[E]) Update(ctx context.Context, owner string, fn func(list []E) ([]E, bool)) error {
	all, err := m.All(ctx)
	if err != nil {
		return err
	}

	next, changed := fn(all[owner])
	if !changed {
		return nil
	}
	if next == nil {
		next = []E{}
	}
	all[owner] = next
	return Write(ctx, m.store, m.key, all)
}

// Package derive computes the read-only views the dashboard reads from the
// raw entity collections. Everything here is a pure function of its input.
package derive

// Entity is implemented by the three entity types.
type Entity interface {
	EntityID() string
	EntityName() string
	EntityCategory() string
}

// Index holds the lookup structures for one entity collection. Slices keep
// first-seen order with duplicates collapsed; for the maps a later duplicate
// key overwrites an earlier one.
type Index[T Entity] struct {
	IDs        []string          `json:"ids"`
	Names      []string          `json:"names"`
	Categories []string          `json:"categories"`
	NameToID   map[string]string `json:"name_to_id"`
	IDToName   map[string]string `json:"id_to_name"`
	IDToEntity map[string]T      `json:"id_to_entity"`
}

// NewIndex builds the index for items.
func NewIndex[T Entity](items []T) Index[T] {
	idx := Index[T]{
		IDs:        make([]string, 0, len(items)),
		Names:      make([]string, 0, len(items)),
		Categories: []string{},
		NameToID:   make(map[string]string, len(items)),
		IDToName:   make(map[string]string, len(items)),
		IDToEntity: make(map[string]T, len(items)),
	}

	seenNames := make(map[string]struct{}, len(items))
	seenCategories := make(map[string]struct{})
	for _, item := range items {
		id, name, category := item.EntityID(), item.EntityName(), item.EntityCategory()

		if _, ok := idx.IDToEntity[id]; !ok {
			idx.IDs = append(idx.IDs, id)
		}
		if _, ok := seenNames[name]; !ok {
			seenNames[name] = struct{}{}
			idx.Names = append(idx.Names, name)
		}
		if _, ok := seenCategories[category]; !ok {
			seenCategories[category] = struct{}{}
			idx.Categories = append(idx.Categories, category)
		}

		idx.NameToID[name] = id
		idx.IDToName[id] = name
		idx.IDToEntity[id] = item
	}
	return idx
}

// Has reports whether id is in the collection.
func (idx Index[T]) Has(id string) bool {
	_, ok := idx.IDToEntity[id]
	return ok
}

// Get returns the entity with the given id.
func (idx Index[T]) Get(id string) (T, bool) {
	item, ok := idx.IDToEntity[id]
	return item, ok
}

// Clone returns a deep copy of the lookup structures. Entities are copied by value.
func (idx Index[T]) Clone() Index[T] {
	out := Index[T]{
		IDs:        append([]string{}, idx.IDs...),
		Names:      append([]string{}, idx.Names...),
		Categories: append([]string{}, idx.Categories...),
		NameToID:   make(map[string]string, len(idx.NameToID)),
		IDToName:   make(map[string]string, len(idx.IDToName)),
		IDToEntity: make(map[string]T, len(idx.IDToEntity)),
	}
	for k, v := range idx.NameToID {
		out.NameToID[k] = v
	}
	for k, v := range idx.IDToName {
		out.IDToName[k] = v
	}
	for k, v := range idx.IDToEntity {
		out.IDToEntity[k] = v
	}
	return out
}

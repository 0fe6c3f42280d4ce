package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// defaultColorCodes maps well-known color names to display hex codes.
// Unknown colors fall back to white.
var defaultColorCodes = map[string]string{
	"black":  "#000000",
	"white":  "#FFFFFF",
	"red":    "#FF0000",
	"blue":   "#0000FF",
	"green":  "#008000",
	"yellow": "#FFFF00",
	"brown":  "#8B4513",
	"pink":   "#FFC0CB",
	"purple": "#800080",
	"orange": "#FFA500",
	"gray":   "#808080",
	"grey":   "#808080",
	"gold":   "#FFD700",
	"silver": "#C0C0C0",
	"navy":   "#000080",
	"beige":  "#F5F5DC",
	"maroon": "#800000",
}

// DefaultColorCode returns the builtin hex code for a color name, falling
// back to white.
func DefaultColorCode(name string) string {
	if code, ok := defaultColorCodes[strings.ToLower(name)]; ok {
		return code
	}
	return "#FFFFFF"
}

type refKey struct {
	kind RefKind
	name string
}

// Resolver maps reference entity names to ids for the lifetime of one batch,
// creating missing brands, colors and product types on demand. Resolved ids
// are cached per (kind, name) so repeated names within a batch hit the table
// at most once and can never create duplicates.
//
// Tags are the exception: they are looked up (and cached) but never created
// during ingestion.
type Resolver struct {
	store   Store
	cache   map[refKey]uint
	misses  map[refKey]struct{}
	created map[RefKind]map[string]struct{}
}

// NewResolver creates a resolver bound to one batch run.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:   store,
		cache:   make(map[refKey]uint),
		misses:  make(map[refKey]struct{}),
		created: make(map[RefKind]map[string]struct{}),
	}
}

// bind switches the resolver to the current chunk's transactional store.
func (r *Resolver) bind(store Store) {
	r.store = store
}

// Brand resolves or creates a brand by name.
func (r *Resolver) Brand(ctx context.Context, name string) (uint, error) {
	return r.resolve(ctx, KindBrand, name, RefDefaults{})
}

// Color resolves or creates a color by name; a new color gets its display
// code from the builtin table.
func (r *Resolver) Color(ctx context.Context, name string) (uint, error) {
	return r.resolve(ctx, KindColor, name, RefDefaults{ColorCode: DefaultColorCode(name)})
}

// ProductType resolves or creates a product type by name.
func (r *Resolver) ProductType(ctx context.Context, name string) (uint, error) {
	return r.resolve(ctx, KindProductType, name, RefDefaults{})
}

// Tag resolves a tag by name without creating it. The second return is
// false when the tag does not exist.
func (r *Resolver) Tag(ctx context.Context, name string) (uint, bool, error) {
	name = strings.TrimSpace(name)
	key := refKey{kind: KindTag, name: name}
	if id, ok := r.cache[key]; ok {
		return id, true, nil
	}
	if _, missed := r.misses[key]; missed {
		return 0, false, nil
	}

	id, found, err := r.store.FindReference(ctx, KindTag, name)
	if err != nil {
		return 0, false, err
	}
	if !found {
		r.misses[key] = struct{}{}
		return 0, false, nil
	}
	r.cache[key] = id
	return id, true, nil
}

// resolve looks the name up in the cache, then the table, then creates it.
// A uniqueness conflict on create (a competing writer inserted the same
// name) resolves to the existing row and is treated as success.
func (r *Resolver) resolve(ctx context.Context, kind RefKind, name string, defaults RefDefaults) (uint, error) {
	name = strings.TrimSpace(name)
	key := refKey{kind: kind, name: name}

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	id, found, err := r.store.FindReference(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	if found {
		r.cache[key] = id
		return id, nil
	}

	id, createErr := r.store.CreateReference(ctx, kind, name, defaults)
	if createErr != nil {
		// Name uniqueness race: another writer created it first. Re-lookup
		// and use the existing entity.
		id, found, err = r.store.FindReference(ctx, kind, name)
		if err != nil || !found {
			return 0, fmt.Errorf("failed to create %s %q: %w", kind, name, createErr)
		}
		r.cache[key] = id
		return id, nil
	}

	r.cache[key] = id
	if r.created[kind] == nil {
		r.created[kind] = make(map[string]struct{})
	}
	r.created[kind][name] = struct{}{}
	return id, nil
}

// Created returns the sorted names of entities this batch created for a kind.
func (r *Resolver) Created(kind RefKind) []string {
	set := r.created[kind]
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

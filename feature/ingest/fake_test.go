package ingest

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type variantKey struct {
	productID uint
	colorID   uint
}

// fakeStore is an in-memory Store used to exercise the coordinator and
// resolver without a database. Transaction snapshots the state and restores
// it when the chunk fails, mirroring a rollback.
type fakeStore struct {
	nextID     uint
	refs       map[RefKind]map[string]uint
	colorCodes map[string]string
	products   map[productKey]uint
	fields     map[uint]ProductFields
	variants   map[variantKey]uint
	stock      map[uint]int
	images     map[uint]string
	tags       map[uint]map[uint]struct{}

	findRefCalls   map[refKey]int
	createRefCalls int

	// txCount numbers Transaction invocations so tests can fail a specific
	// chunk commit.
	txCount     int
	commitErrOn map[int]error
	// raceRefs simulates a competing writer: CreateReference for a listed
	// key inserts the row under the given id, then reports a conflict.
	raceRefs map[refKey]uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		refs: map[RefKind]map[string]uint{
			KindBrand: {}, KindColor: {}, KindProductType: {}, KindTag: {},
		},
		colorCodes:   map[string]string{},
		products:     map[productKey]uint{},
		fields:       map[uint]ProductFields{},
		variants:     map[variantKey]uint{},
		stock:        map[uint]int{},
		images:       map[uint]string{},
		tags:         map[uint]map[uint]struct{}{},
		findRefCalls: map[refKey]int{},
		commitErrOn:  map[int]error{},
		raceRefs:     map[refKey]uint{},
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) seedRef(kind RefKind, name string) uint {
	id := s.id()
	s.refs[kind][name] = id
	return id
}

type fakeSnapshot struct {
	nextID   uint
	refs     map[RefKind]map[string]uint
	products map[productKey]uint
	fields   map[uint]ProductFields
	variants map[variantKey]uint
	stock    map[uint]int
	images   map[uint]string
	tags     map[uint]map[uint]struct{}
}

func (s *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		nextID:   s.nextID,
		refs:     map[RefKind]map[string]uint{},
		products: map[productKey]uint{},
		fields:   map[uint]ProductFields{},
		variants: map[variantKey]uint{},
		stock:    map[uint]int{},
		images:   map[uint]string{},
		tags:     map[uint]map[uint]struct{}{},
	}
	for kind, byName := range s.refs {
		snap.refs[kind] = map[string]uint{}
		for name, id := range byName {
			snap.refs[kind][name] = id
		}
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.fields {
		snap.fields[k] = v
	}
	for k, v := range s.variants {
		snap.variants[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.images {
		snap.images[k] = v
	}
	for productID, tagSet := range s.tags {
		set := map[uint]struct{}{}
		for tagID := range tagSet {
			set[tagID] = struct{}{}
		}
		snap.tags[productID] = set
	}
	return snap
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.nextID = snap.nextID
	s.refs = snap.refs
	s.products = snap.products
	s.fields = snap.fields
	s.variants = snap.variants
	s.stock = snap.stock
	s.images = snap.images
	s.tags = snap.tags
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.txCount++
	idx := s.txCount
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	if err := s.commitErrOn[idx]; err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeStore) FindReference(ctx context.Context, kind RefKind, name string) (uint, bool, error) {
	s.findRefCalls[refKey{kind: kind, name: name}]++
	id, ok := s.refs[kind][name]
	return id, ok, nil
}

func (s *fakeStore) CreateReference(ctx context.Context, kind RefKind, name string, defaults RefDefaults) (uint, error) {
	s.createRefCalls++
	key := refKey{kind: kind, name: name}
	if raceID, ok := s.raceRefs[key]; ok {
		s.refs[kind][name] = raceID
		delete(s.raceRefs, key)
		return 0, errors.New("Duplicate entry")
	}
	if _, exists := s.refs[kind][name]; exists {
		return 0, errors.New("Duplicate entry")
	}
	id := s.id()
	s.refs[kind][name] = id
	if kind == KindColor {
		s.colorCodes[name] = defaults.ColorCode
	}
	return id, nil
}

func (s *fakeStore) FindProduct(ctx context.Context, code string, brandID uint, category string) (uint, bool, error) {
	id, ok := s.products[productKey{code: code, brandID: brandID, category: category}]
	return id, ok, nil
}

func (s *fakeStore) CreateProduct(ctx context.Context, p ProductFields) (uint, error) {
	key := productKey{code: p.ProductCode, brandID: p.BrandID, category: p.TraderCategory}
	if _, exists := s.products[key]; exists {
		return 0, errors.New("Duplicate entry")
	}
	id := s.id()
	s.products[key] = id
	s.fields[id] = p
	return id, nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, productID uint, p ProductFields) error {
	existing, ok := s.fields[productID]
	if !ok {
		return errors.New("product not found")
	}
	existing.ProductTypeID = p.ProductTypeID
	existing.ProductSize = p.ProductSize
	existing.WholesalePrice = p.WholesalePrice
	existing.RetailPrice = p.RetailPrice
	s.fields[productID] = existing
	return nil
}

func (s *fakeStore) FindVariant(ctx context.Context, productID, colorID uint) (uint, bool, error) {
	id, ok := s.variants[variantKey{productID: productID, colorID: colorID}]
	return id, ok, nil
}

func (s *fakeStore) CreateVariant(ctx context.Context, productID, colorID uint, stock int) (uint, error) {
	key := variantKey{productID: productID, colorID: colorID}
	if _, exists := s.variants[key]; exists {
		return 0, errors.New("Duplicate entry")
	}
	id := s.id()
	s.variants[key] = id
	s.stock[id] = stock
	return id, nil
}

func (s *fakeStore) SetVariantStock(ctx context.Context, variantID uint, stock int) error {
	if _, ok := s.stock[variantID]; !ok {
		return errors.New("variant not found")
	}
	s.stock[variantID] = stock
	return nil
}

func (s *fakeStore) ReplaceVariantImage(ctx context.Context, variantID uint, imageURL, filename string) error {
	s.images[variantID] = imageURL
	return nil
}

func (s *fakeStore) AttachTag(ctx context.Context, productID, tagID uint) error {
	if s.tags[productID] == nil {
		s.tags[productID] = map[uint]struct{}{}
	}
	s.tags[productID][tagID] = struct{}{}
	return nil
}

// price is a test shorthand for decimal literals.
func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

package ul

import "sync"

// Entry is one row of the Dictionary: a symbolic name bound to its Universal
// Label, plus (for set-member properties, not set-identifying keys) the
// wire type used to drive the generic TLV serializer in package mdata.
type Entry struct {
	Name string
	UL   UL
	Type WireType // zero value for set/partition/index identifying keys
}

// Dictionary is the static, process-wide, read-only-after-init catalog of
// symbolic names to Universal Labels. Dict is the single shared instance;
// nothing in this module constructs a second one, matching the "global
// mutable state -> immutable shared reference" design note.
type Dictionary struct {
	byName map[string]Entry
	byUL   map[UL]Entry
	mu     sync.RWMutex
}

// newDictionary builds an empty, mutable Dictionary. Only init() in this
// package calls it; callers always use the shared Dict value.
func newDictionary() *Dictionary {
	return &Dictionary{
		byName: make(map[string]Entry, 512),
		byUL:   make(map[UL]Entry, 512),
	}
}

// register adds one entry. Called only during package init; not exported,
// since the Dictionary is closed for registration once initialized.
func (d *Dictionary) register(name string, raw [16]byte, t WireType) UL {
	u := UL(raw)
	e := Entry{Name: name, UL: u, Type: t}
	d.byName[name] = e
	d.byUL[u] = e

	return u
}

// UL looks up a symbolic name and returns its Universal Label. It panics if
// the name is not registered: every call site names a compile-time-known
// constant from this package, so an unregistered name is a programming
// error in this library, not a runtime condition a caller can recover from.
func (d *Dictionary) UL(name string) UL {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.byName[name]
	if !ok {
		panic("ul: unregistered dictionary name " + name)
	}

	return e.UL
}

// FindByUL looks up an entry by its exact UL bytes.
func (d *Dictionary) FindByUL(u UL) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.byUL[u]

	return e, ok
}

// FindAnyVersion looks up an entry ignoring the registry version byte
// (byte 7), used when matching essence container / operational pattern
// labels across standard revisions.
func (d *Dictionary) FindAnyVersion(u UL) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.byUL {
		if e.UL.EqualIgnoreVersion(u) {
			return e, true
		}
	}

	return Entry{}, false
}

// Dict is the single shared, immutable-after-init Dictionary instance used
// throughout the codec.
var Dict = newDictionary()

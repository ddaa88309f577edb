// Package mdata implements the Interchange Object metadata graph: the DAG
// of strongly-typed sets (Preface, ContentStorage, Packages, Tracks,
// Sequences, Components, Descriptors, SubDescriptors, cryptographic and DM
// sets) that makes up an MXF Header partition's metadata region.
//
// There is no per-kind Go type hierarchy here: every concrete type
// satisfies the same Object interface, and one generic (de)serializer pair
// (WriteObject/ReadObject) drives every type from its own Fields() /
// ApplyField() table. Cross-references between objects are values
// (ul.UUID), resolved through the Graph arena — never structural ownership.
package mdata

import (
	"log/slog"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// Object is satisfied by every concrete metadata set type.
type Object interface {
	// SetUL identifies the KLV key used when serializing this object.
	SetUL() ul.UL
	// InstanceUID returns this object's InstanceUID, the arena key.
	InstanceUID() ul.UUID
	// SetInstanceUID assigns a fresh InstanceUID, done once on first
	// serialization if unset.
	SetInstanceUID(u ul.UUID)
	// Fields returns this object's properties, in declaration order, ready
	// to be TLV-encoded by the generic writer.
	Fields() []Field
	// ApplyField decodes one recognized property back into the concrete
	// struct. It returns errs.ErrUnknownLocalTag for a UL the type does not
	// recognize; ReadObject treats that as non-fatal and preserves the
	// field opaquely via RememberUnknown.
	ApplyField(u ul.UL, value []byte) error
	// RememberUnknown stores a field the object did not decode (unrecognized,
	// or with a local tag the Primer could not resolve) so a round-trip
	// re-serialization does not silently drop it.
	RememberUnknown(f Field)
	// UnknownFields returns previously remembered opaque fields, appended
	// after the known fields on write.
	UnknownFields() []Field
}

// Field is one (property UL, encoded value) pair.
type Field struct {
	UL    ul.UL
	Value []byte
}

// Base is embedded by every concrete Object and implements the InstanceUID
// bookkeeping and unknown-field preservation common to all of them.
type Base struct {
	iuid    ul.UUID
	unknown []Field
}

func (b *Base) InstanceUID() ul.UUID     { return b.iuid }
func (b *Base) SetInstanceUID(u ul.UUID) { b.iuid = u }
func (b *Base) RememberUnknown(f Field)  { b.unknown = append(b.unknown, f) }
func (b *Base) UnknownFields() []Field   { return b.unknown }

// EnsureInstanceUID assigns a random InstanceUID if one has not already
// been set, matching the "fresh random InstanceUID on first serialization"
// lifecycle rule.
func (b *Base) EnsureInstanceUID() (ul.UUID, error) {
	if b.iuid.IsZero() {
		u, err := ul.NewUUID()
		if err != nil {
			return ul.UUID{}, err
		}

		b.iuid = u
	}

	return b.iuid, nil
}

// instanceUIDEnsurer is implemented by every concrete type via its embedded
// Base, letting WriteObject assign a fresh InstanceUID on first
// serialization without every type re-declaring the method.
type instanceUIDEnsurer interface {
	EnsureInstanceUID() (ul.UUID, error)
}

// WriteObject serializes obj's InstanceUID, known Fields, and any
// RememberUnknown'd fields into one KLV packet keyed by obj.SetUL().
func WriteObject(primer *klv.Primer, obj Object) ([]byte, error) {
	var iuid ul.UUID
	var err error

	if e, ok := obj.(instanceUIDEnsurer); ok {
		iuid, err = e.EnsureInstanceUID()
	} else {
		iuid = obj.InstanceUID()
	}

	if err != nil {
		return nil, err
	}

	var body []byte
	body = klv.WriteTLV(body, primer, ul.Dict.UL(ul.NameInstanceUID), iuid.Bytes())

	for _, f := range obj.Fields() {
		body = klv.WriteTLV(body, primer, f.UL, f.Value)
	}

	for _, f := range obj.UnknownFields() {
		body = klv.WriteTLV(body, primer, f.UL, f.Value)
	}

	return body, nil
}

// ReadObject applies a parsed TLV property list onto obj. Properties whose
// local tag the Primer could not resolve to a UL (Known == false) are kept
// opaque, keyed by their raw tag wrapped in a synthetic UL, so the object
// can still be re-serialized; properties the Primer resolves but obj itself
// does not recognize are preserved via RememberUnknown. Unresolvable and
// unrecognized properties are logged at warn level through slog.Default();
// use ReadObjectWithLogger to direct that logging elsewhere.
func ReadObject(obj Object, props []klv.Property) error {
	return ReadObjectWithLogger(obj, props, slog.Default())
}

// ReadObjectWithLogger behaves like ReadObject but logs unresolvable local
// tags and unrecognized-but-resolved fields through log, not
// slog.Default(). log may be nil to suppress logging entirely.
func ReadObjectWithLogger(obj Object, props []klv.Property, log *slog.Logger) error {
	instanceUIDUL := ul.Dict.UL(ul.NameInstanceUID)

	for _, p := range props {
		if !p.Known {
			if log != nil {
				log.Warn("mdata: unresolvable local tag, field preserved opaquely", "tag", p.Tag, "set", obj.SetUL())
			}

			synthetic := ul.UL{14: byte(p.Tag >> 8), 15: byte(p.Tag)}
			obj.RememberUnknown(Field{UL: synthetic, Value: append([]byte(nil), p.Value...)})

			continue // unresolvable local tag: non-fatal, field kept opaquely under a synthetic UL
		}

		if p.UL == instanceUIDUL {
			obj.SetInstanceUID(ul.UUIDFromBytes(p.Value))
			continue
		}

		if err := obj.ApplyField(p.UL, p.Value); err != nil {
			if err == errs.ErrUnknownLocalTag {
				if log != nil {
					log.Warn("mdata: unrecognized field, preserved opaquely", "ul", p.UL, "set", obj.SetUL())
				}

				obj.RememberUnknown(Field{UL: p.UL, Value: append([]byte(nil), p.Value...)})
				continue
			}

			return err
		}
	}

	return nil
}

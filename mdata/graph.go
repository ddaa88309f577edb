// Graph/arena support: the set of all strongly-typed metadata objects in one
// Header partition's metadata region, addressed by InstanceUID and by Go
// type, mirroring the spec's replacement for the source's raw pointer graph.
package mdata

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/klv"
	"github.com/imfkit/as02ec/ul"
)

// Graph is the arena of every Object belonging to one Header partition's
// metadata region, keyed by InstanceUID.
type Graph struct {
	objects map[ul.UUID]Object
	order   []ul.UUID
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{objects: make(map[ul.UUID]Object)}
}

// Add registers obj in the graph, assigning it a fresh InstanceUID if it
// does not already have one. Preface objects are required to be added
// first, matching the "Preface is always the first object" invariant this
// package's writer relies on.
func (g *Graph) Add(obj Object) error {
	iuid, err := ensureInstanceUID(obj)
	if err != nil {
		return err
	}

	if _, exists := g.objects[iuid]; exists {
		return fmt.Errorf("%w: duplicate InstanceUID", errs.ErrParam)
	}

	g.objects[iuid] = obj
	g.order = append(g.order, iuid)

	return nil
}

func ensureInstanceUID(obj Object) (ul.UUID, error) {
	if e, ok := obj.(instanceUIDEnsurer); ok {
		return e.EnsureInstanceUID()
	}

	iuid := obj.InstanceUID()
	if iuid.IsZero() {
		return ul.UUID{}, fmt.Errorf("%w: object has no InstanceUID", errs.ErrParam)
	}

	return iuid, nil
}

// GetObjectByID looks up an object by its InstanceUID.
func (g *Graph) GetObjectByID(id ul.UUID) (Object, bool) {
	obj, ok := g.objects[id]
	return obj, ok
}

// Objects returns every object in insertion order.
func (g *Graph) Objects() []Object {
	out := make([]Object, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.objects[id])
	}

	return out
}

// GetObjectByType returns the first object of Go type T in insertion order.
func GetObjectByType[T Object](g *Graph) (T, bool) {
	for _, id := range g.order {
		if t, ok := g.objects[id].(T); ok {
			return t, true
		}
	}

	var zero T
	return zero, false
}

// GetObjectsByType returns every object of Go type T, in insertion order.
func GetObjectsByType[T Object](g *Graph) []T {
	var out []T

	for _, id := range g.order {
		if t, ok := g.objects[id].(T); ok {
			out = append(out, t)
		}
	}

	return out
}

// Preface returns the graph's single Preface, which by construction is
// always the first object added to a freshly parsed or authored graph.
func (g *Graph) Preface() (*Preface, bool) {
	return GetObjectByType[*Preface](g)
}

// Validate checks that every InstanceUID this graph's objects reference
// (via the fixed property names that carry a UUID reference) resolves to
// an object actually present in the graph.
func (g *Graph) Validate() error {
	check := func(id ul.UUID) error {
		if id.IsZero() {
			return nil
		}
		if _, ok := g.objects[id]; !ok {
			return fmt.Errorf("%w: dangling InstanceUID reference", errs.ErrNotFound)
		}

		return nil
	}

	for _, obj := range g.Objects() {
		switch v := obj.(type) {
		case *Preface:
			if err := check(v.ContentStorage); err != nil {
				return err
			}
			for _, id := range v.Identifications {
				if err := check(id); err != nil {
					return err
				}
			}
		case *ContentStorage:
			for _, id := range v.Packages {
				if err := check(id); err != nil {
					return err
				}
			}
			for _, id := range v.EssenceContainerData {
				if err := check(id); err != nil {
					return err
				}
			}
		case *MaterialPackage:
			for _, id := range v.Tracks {
				if err := check(id); err != nil {
					return err
				}
			}
		case *SourcePackage:
			for _, id := range v.Tracks {
				if err := check(id); err != nil {
					return err
				}
			}
			if err := check(v.Descriptor); err != nil {
				return err
			}
		case *Track:
			if err := check(v.Sequence); err != nil {
				return err
			}
		case *Sequence:
			for _, id := range v.StructuralComponents {
				if err := check(id); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Factory constructs a zero-valued concrete Object for a given set UL.
type Factory func() Object

// registry maps every concrete type's set UL to its Factory, populated in
// init() below. InitFromBuffer consults it to know what Go type to
// instantiate for each KLV packet it encounters.
var registry = map[ul.UL]Factory{}

func register(name string, f Factory) {
	registry[ul.Dict.UL(name)] = f
}

func init() {
	register(ul.NamePreface, func() Object { return &Preface{} })
	register(ul.NameIdentification, func() Object { return &Identification{} })
	register(ul.NameContentStorage, func() Object { return &ContentStorage{} })
	register(ul.NameMaterialPackage, func() Object { return &MaterialPackage{} })
	register(ul.NameSourcePackage, func() Object { return &SourcePackage{} })
	register(ul.NameTrack, func() Object { return &Track{} })
	register(ul.NameStaticTrack, func() Object { return &StaticTrack{} })
	register(ul.NameSequence, func() Object { return &Sequence{} })
	register(ul.NameSourceClip, func() Object { return &SourceClip{} })
	register(ul.NameDMSegment, func() Object { return &DMSegment{} })
	register(ul.NameTimecodeComponent, func() Object { return &TimecodeComponent{} })
	register(ul.NameEssenceContainerData, func() Object { return &EssenceContainerData{} })

	register(ul.NameGenericPictureEssenceDescriptor, func() Object { return &GenericPictureEssenceDescriptor{} })
	register(ul.NameCDCIEssenceDescriptor, func() Object { return &CDCIEssenceDescriptor{} })
	register(ul.NameRGBAEssenceDescriptor, func() Object { return &RGBAEssenceDescriptor{} })
	register(ul.NameGenericSoundEssenceDescriptor, func() Object { return &GenericSoundEssenceDescriptor{} })
	register(ul.NameWaveAudioDescriptor, func() Object { return &WaveAudioDescriptor{} })
	register(ul.NameIABEssenceDescriptor, func() Object { return &IABEssenceDescriptor{} })
	register(ul.NameISXDDataEssenceDescriptor, func() Object { return &ISXDDataEssenceDescriptor{} })
	register(ul.NameTimedTextDescriptor, func() Object { return &TimedTextDescriptor{} })

	register(ul.NameJPEG2000PictureSubDescriptor, func() Object { return &JPEG2000PictureSubDescriptor{} })
	register(ul.NameJPEGXSPictureSubDescriptor, func() Object { return &JPEGXSPictureSubDescriptor{} })
	register(ul.NameACESPictureSubDescriptor, func() Object { return &ACESPictureSubDescriptor{} })
	register(ul.NameTargetFrameSubDescriptor, func() Object { return &TargetFrameSubDescriptor{} })
	register(ul.NameContainerConstraintsSubDescriptor, func() Object { return &ContainerConstraintsSubDescriptor{} })
	register(ul.NameIABSoundfieldLabelSubDescriptor, func() Object { return &IABSoundfieldLabelSubDescriptor{} })
	register(ul.NameAudioChannelLabelSubDescriptor, func() Object { return &AudioChannelLabelSubDescriptor{} })
	register(ul.NameSoundfieldGroupLabelSubDescriptor, func() Object { return &SoundfieldGroupLabelSubDescriptor{} })
	register(ul.NameGroupOfSoundfieldGroupsLabelSubDescriptor, func() Object { return &GroupOfSoundfieldGroupsLabelSubDescriptor{} })
	register(ul.NameTimedTextResourceSubDescriptor, func() Object { return &TimedTextResourceSubDescriptor{} })
	register(ul.NamePHDRMetadataTrackSubDescriptor, func() Object { return &PHDRMetadataTrackSubDescriptor{} })

	register(ul.NameCryptographicFramework, func() Object { return &CryptographicFramework{} })
	register(ul.NameCryptographicContext, func() Object { return &CryptographicContext{} })
	register(ul.NameTextBasedDMFramework, func() Object { return &TextBasedDMFramework{} })
	register(ul.NameGenericStreamTextBasedSet, func() Object { return &GenericStreamTextBasedSet{} })
}

// InitFromBuffer parses every metadata-set KLV packet in data (the Header
// partition's metadata region; KLV fill items are skipped) into a fresh
// Graph, resolving each packet's local tags against primer.
// Packets whose Key is not a registered set UL are skipped rather than
// treated as an error: a future minor-version set this codec does not yet
// know about must not abort the read. Unknown sets, unresolvable local
// tags, and unrecognized fields are logged at warn level through
// slog.Default(); use InitFromBufferWithLogger to direct that elsewhere.
func InitFromBuffer(data []byte, primer *klv.Primer) (*Graph, error) {
	return InitFromBufferWithLogger(data, primer, slog.Default())
}

// InitFromBufferWithLogger behaves like InitFromBuffer but logs through log
// instead of slog.Default(). log may be nil to suppress logging entirely.
func InitFromBufferWithLogger(data []byte, primer *klv.Primer, log *slog.Logger) (*Graph, error) {
	g := NewGraph()

	off := 0
	for off < len(data) {
		pkt, value, n, err := readOnePacket(data[off:])
		if err != nil {
			return nil, err
		}
		off += n

		if pkt.Key.EqualIgnoreVersion(klv.FillKey()) {
			continue
		}

		factory, ok := registry[pkt.Key]
		if !ok {
			if log != nil {
				log.Warn("mdata: unknown metadata set UL, packet skipped", "ul", pkt.Key)
			}

			continue
		}

		obj := factory()

		props, err := klv.ReadTLVSet(value, primer)
		if err != nil {
			return nil, err
		}

		if err := ReadObjectWithLogger(obj, props, log); err != nil {
			return nil, err
		}

		if err := g.Add(obj); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// WriteGraph serializes every object in g, in insertion order, as one KLV
// packet per object, keyed by each object's SetUL() and TLV-encoded against
// primer. The Preface must already be the first object Add'ed to g so it
// lands first in the output, per the Header partition's required layout.
func WriteGraph(primer *klv.Primer, g *Graph) ([]byte, error) {
	var buf bytes.Buffer

	for _, obj := range g.Objects() {
		body, err := WriteObject(primer, obj)
		if err != nil {
			return nil, err
		}

		if err := klv.WritePacket(&buf, obj.SetUL(), body); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// readOnePacket reads one KLV packet from the front of buf, returning the
// packet header, its value slice, and the total number of bytes consumed.
func readOnePacket(buf []byte) (klv.Packet, []byte, int, error) {
	r := newSliceReader(buf)

	pkt, value, err := klv.ReadPacket(r)
	if err != nil {
		return klv.Packet{}, nil, 0, err
	}

	return pkt, value, r.pos, nil
}

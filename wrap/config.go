package wrap

import (
	"fmt"

	"github.com/imfkit/as02ec/errs"
	"github.com/imfkit/as02ec/internal/options"
	"github.com/imfkit/as02ec/ul"
)

// IndexStrategy selects the placement of Index Partitions relative to body
// partitions (§6.2's `index_strategy` option). Only IndexFollow is
// implemented; IndexLead and IndexFileSpecific are accepted as valid enum
// values and rejected with errs.ErrNotImpl at open time, per SPEC_FULL.md's
// Open Question decision #1.
type IndexStrategy int

const (
	// IndexFollow places each Index Partition immediately after the body
	// partition whose edit units it indexes. The only implemented value.
	IndexFollow IndexStrategy = iota
	// IndexLead would place the Index Partition before the body partition
	// it indexes (ST 2067-5's "index lead" ordering). Not implemented.
	IndexLead
	// IndexFileSpecific defers the placement decision to a per-file policy
	// not otherwise specified. Not implemented.
	IndexFileSpecific
)

func (s IndexStrategy) String() string {
	switch s {
	case IndexFollow:
		return "Follow"
	case IndexLead:
		return "Lead"
	case IndexFileSpecific:
		return "FileSpecific"
	default:
		return "Unknown"
	}
}

// MinHeaderSize is the smallest legal reserved header region (§6.2's
// header_size option floor) and the default when the caller does not set
// one.
const MinHeaderSize = 16384

// WriterConfig holds the partition and essence-container identifiers every
// writer needs, set via WriterOption functional options.
type WriterConfig struct {
	BodySID            uint32
	IndexSID           uint32
	EditRate           ul.Rational
	OperationalPattern ul.UL
	EssenceContainer   ul.UL

	// HeaderSize is the reserved size of the header region: the Header
	// Partition Pack, Primer, metadata sets, and a trailing KLV fill item
	// together occupy exactly this many bytes, so the first essence byte
	// lands at a fixed offset. Defaults to MinHeaderSize.
	HeaderSize int

	// IndexStrategy selects index-partition placement; defaults to
	// IndexFollow, the only implemented value.
	IndexStrategy IndexStrategy

	// PartitionSpaceSeconds is the distance between frame-wrap partition
	// boundaries (§4.8), converted to edit units via EditRate on the first
	// frame. Zero (the default) means "one body partition for the whole
	// essence container" — FrameWriter never breaks.
	PartitionSpaceSeconds float64

	// WriterInfo, when set via WithWriterInfo, is attached to the graph's
	// Preface as an Identification (and, when EncryptedEssence is set, a
	// CryptographicContext) by writeHeaderPartition before the metadata
	// region is serialized. Nil means the caller populated Identification
	// itself (or the graph carries none).
	WriterInfo *WriterInfo
}

// WriterOption configures a WriterConfig.
type WriterOption = options.Option[*WriterConfig]

// WithBodySID sets the BodySID the essence container's KLV packets are
// tagged with.
func WithBodySID(id uint32) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.BodySID = id })
}

// WithIndexSID sets the IndexSID this track's Index Table Segments use.
func WithIndexSID(id uint32) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.IndexSID = id })
}

// WithEditRate sets the track's edit rate.
func WithEditRate(r ul.Rational) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.EditRate = r })
}

// WithOperationalPattern sets the file's operational pattern label.
func WithOperationalPattern(op ul.UL) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.OperationalPattern = op })
}

// WithEssenceContainer sets the essence container label advertised in the
// partition packs.
func WithEssenceContainer(ec ul.UL) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.EssenceContainer = ec })
}

// WithPartitionSpace sets the distance, in seconds, between frame-wrap
// partition boundaries (§4.8). Only FrameWriter honors this; ClipWriter
// ignores it, since clip-wrap essence is a single KLV by construction.
func WithPartitionSpace(seconds float64) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.PartitionSpaceSeconds = seconds })
}

// WithWriterInfo attaches the caller's identity and cryptographic
// parameters to the file: writeHeaderPartition adds an Identification (and,
// when info.EncryptedEssence is set, a CryptographicContext) to the graph
// before serializing it, per §3's WriterInfo.
func WithWriterInfo(info WriterInfo) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.WriterInfo = &info })
}

// WithHeaderSize sets the reserved size of the header region in bytes.
// Values below MinHeaderSize are rejected with errs.ErrParam.
func WithHeaderSize(size int) WriterOption {
	return options.New[*WriterConfig](func(c *WriterConfig) error {
		if size < MinHeaderSize {
			return fmt.Errorf("%w: header_size %d below minimum %d", errs.ErrParam, size, MinHeaderSize)
		}

		c.HeaderSize = size

		return nil
	})
}

// WithIndexStrategy sets the index-partition placement strategy. Only
// IndexFollow (the default) is implemented; OpenFrameWriter/OpenClipWriter
// reject any other value with errs.ErrNotImpl.
func WithIndexStrategy(s IndexStrategy) WriterOption {
	return options.NoError[*WriterConfig](func(c *WriterConfig) { c.IndexStrategy = s })
}

func newWriterConfig(opts ...WriterOption) (WriterConfig, error) {
	cfg := WriterConfig{IndexSID: 1, IndexStrategy: IndexFollow, HeaderSize: MinHeaderSize}
	if err := options.Apply(&cfg, opts...); err != nil {
		return WriterConfig{}, err
	}

	if cfg.IndexStrategy != IndexFollow {
		return WriterConfig{}, fmt.Errorf("%w: index_strategy %v is recognized but not implemented", errs.ErrNotImpl, cfg.IndexStrategy)
	}

	return cfg, nil
}


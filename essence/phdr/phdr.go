// Package phdr implements the PHDR (Pan & Scan / HDR image dynamic-range)
// supplemental metadata track from original_source's AS_02_PHDR.{h,cpp}.
// spec.md's distilled module table drops PHDR but keeps
// PHDRMetadataTrackSubDescriptor in its §3 SubDescriptor list; per
// SPEC_FULL.md's decision it is wired here as a subdescriptor-only façade
// with no essence payload of its own, mirroring the original's role for
// PHDR as auxiliary side information attached to an existing picture
// track's FileDescriptor rather than a standalone essence stream.
package phdr

import (
	"github.com/imfkit/as02ec/mdata"
)

// NewSubDescriptor builds a PHDRMetadataTrackSubDescriptor carrying the
// track's declared image dynamic range (e.g. 0 = SDR, 1 = HDR10, per the
// original's enumeration). The caller adds the returned sub-descriptor to
// the Graph and appends its InstanceUID to the picture FileDescriptor's
// SubDescriptors batch; PHDR attaches no track, sequence, or essence
// container of its own.
func NewSubDescriptor(imageDynamicRange uint8) *mdata.PHDRMetadataTrackSubDescriptor {
	return &mdata.PHDRMetadataTrackSubDescriptor{ImageDynamicRange: imageDynamicRange}
}

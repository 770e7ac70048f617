package models

// Modality is one of the two supported MRI acquisition types.
type Modality string

const (
	ModalityT1 Modality = "T1w"
	ModalityT2 Modality = "T2w"
)

// Channel suffixes the prediction engine expects on input filenames.
// Channel 0 is always the T1w volume, channel 1 always the T2w volume,
// for every model variant.
const (
	SuffixT1 = "_0000.nii.gz"
	SuffixT2 = "_0001.nii.gz"
)

// SegSuffix is appended to the subject identifier to form the canonical
// segmentation output filename.
const SegSuffix = "_seg.nii.gz"

// Suffix returns the channel suffix for the modality.
func (m Modality) Suffix() string {
	if m == ModalityT2 {
		return SuffixT2
	}
	return SuffixT1
}

// Space is the anatomical reference frame a volume is expressed in.
type Space string

const (
	SpaceT1 Space = "T1w"
	SpaceT2 Space = "T2w"
)

// NativeSpace returns the modality's own reference frame.
func (m Modality) NativeSpace() Space {
	if m == ModalityT2 {
		return SpaceT2
	}
	return SpaceT1
}

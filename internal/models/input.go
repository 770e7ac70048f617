package models

// InputSet is the validated contents of one input directory. Only the
// modality slots the selected model requires are populated; stray extra
// modalities in the directory are ignored. Immutable once built.
type InputSet struct {
	// Dir is the scanned input directory, passed through to the engine.
	Dir string

	// T1Path and T2Path are absolute paths to the discovered channel
	// files. Empty when the slot is not required. If both are set the
	// volumes are assumed pre-aligned by the upstream registration
	// stage; that precondition is not verified here.
	T1Path string
	T2Path string

	// SubjectID is the shared filename stem with the channel suffix
	// stripped, e.g. "sub-01_T1w" for "sub-01_T1w_0000.nii.gz".
	SubjectID string
}

// Has reports whether the modality's slot is populated.
func (s InputSet) Has(m Modality) bool {
	switch m {
	case ModalityT1:
		return s.T1Path != ""
	case ModalityT2:
		return s.T2Path != ""
	}
	return false
}

// Modalities returns the populated slots in channel order.
func (s InputSet) Modalities() []Modality {
	var mods []Modality
	if s.T1Path != "" {
		mods = append(mods, ModalityT1)
	}
	if s.T2Path != "" {
		mods = append(mods, ModalityT2)
	}
	return mods
}

package models

// ModelEntry represents one selectable segmentation model from the task
// registry. Entries are loaded once at startup and never mutated.
type ModelEntry struct {
	// Task is the 3-digit identifier selecting this model. The first
	// digit is reserved (5xx) for segmentation tasks.
	Task int

	// Description is human-readable, for error messages and logs.
	Description string

	// T1 and T2 mark which modalities the model was trained on. At
	// least one is set.
	T1 bool
	T2 bool

	// URL is where the trained weights are distributed from. Carried as
	// metadata only; downloading weights is a separate pipeline stage.
	URL string

	// Name is the on-disk identifier the prediction engine resolves the
	// trained model by.
	Name string
}

// Required returns the modality set the model needs, in channel order.
func (m ModelEntry) Required() []Modality {
	var mods []Modality
	if m.T1 {
		mods = append(mods, ModalityT1)
	}
	if m.T2 {
		mods = append(mods, ModalityT2)
	}
	return mods
}

// Requires reports whether the model needs the given modality.
func (m ModelEntry) Requires(mod Modality) bool {
	switch mod {
	case ModalityT1:
		return m.T1
	case ModalityT2:
		return m.T2
	}
	return false
}

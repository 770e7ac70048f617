// Package input checks an input directory against the naming and
// cardinality contract the prediction engine expects: exactly one file
// per modality channel, identified by a fixed filename suffix.
package input

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bibsnet/internal/models"
)

// Validate scans dir for the channel suffixes and returns the input set
// covering the modalities the model requires.
//
// The suffix match is exact and case-sensitive on the filename. A slot
// with more than one match is a contract violation even when the model
// does not require that modality: a stray duplicate is a caller error
// worth surfacing immediately. A present-but-unrequired modality is
// tolerated, so one directory can serve jobs with different tasks.
func Validate(dir string, model models.ModelEntry) (models.InputSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.InputSet{}, models.Wrapf(models.ErrConfig, err, "reading input directory %s", dir)
	}

	found := map[models.Modality][]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, m := range []models.Modality{models.ModalityT1, models.ModalityT2} {
			if strings.HasSuffix(e.Name(), m.Suffix()) {
				found[m] = append(found[m], e.Name())
			}
		}
	}

	// Cardinality first, for both slots, regardless of requirement.
	for _, m := range []models.Modality{models.ModalityT1, models.ModalityT2} {
		if names := found[m]; len(names) > 1 {
			return models.InputSet{}, models.Errf(models.ErrAmbiguousInput,
				"more than one %s file in %s: %s", m, dir, strings.Join(names, ", "))
		}
	}

	set := models.InputSet{Dir: dir}
	for _, m := range model.Required() {
		names := found[m]
		if len(names) == 0 {
			return models.InputSet{}, models.Errf(models.ErrMissingInput,
				"task %d requires a %s file ending in %q in %s", model.Task, m, m.Suffix(), dir)
		}

		path := filepath.Join(dir, names[0])
		if err := checkVolume(path); err != nil {
			return models.InputSet{}, models.Wrapf(models.ErrMissingInput, err,
				"%s file %s is not a readable volume", m, path)
		}

		switch m {
		case models.ModalityT1:
			set.T1Path = path
		case models.ModalityT2:
			set.T2Path = path
		}
		if set.SubjectID == "" {
			set.SubjectID = strings.TrimSuffix(names[0], m.Suffix())
		}
	}

	slog.Debug("input directory validated",
		"dir", dir, "subject", set.SubjectID, "modalities", set.Modalities())
	return set, nil
}

// checkVolume verifies existence, readability and non-zero size. The
// volume format itself is opaque here; content validity is the
// prediction engine's concern.
func checkVolume(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

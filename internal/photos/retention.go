package photos

import (
	"fmt"
	"os"

	"github.com/catnap-watch/catnap/internal/debug"
)

// Result reports one retention pass. Selected holds the photos chosen for
// deletion (oldest-first); Deleted the ones actually removed. In dry-run
// mode Selected is populated and nothing is removed.
type Result struct {
	Selected []Photo
	Deleted  []Photo
	Failed   int
	Kept     int
	DryRun   bool
}

// Enforce bounds the directory to maxPhotos entries, deleting oldest-first
// until the cap holds. Deletion is best-effort: individual failures are
// logged and counted, and never abort the rest of the pass. After a
// successful pass the stored count is min(maxPhotos, previous count), so
// calling Enforce again with the same cap deletes nothing.
func (s *Store) Enforce(maxPhotos int, dryRun bool) (Result, error) {
	if maxPhotos < 0 {
		return Result{}, fmt.Errorf("max photos must be >= 0, got %d", maxPhotos)
	}

	photos, err := s.List()
	if err != nil {
		return Result{}, err
	}

	result := Result{DryRun: dryRun, Kept: len(photos)}
	if len(photos) <= maxPhotos {
		debug.Verbose("Photo count (%d) is within limit (%d)", len(photos), maxPhotos)
		return result, nil
	}

	result.Selected = photos[:len(photos)-maxPhotos]
	if dryRun {
		for _, p := range result.Selected {
			debug.Info("DRY RUN: would delete %s (from %s)", p.Name, p.Taken.Format("2006-01-02 15:04:05"))
		}
		return result, nil
	}

	for _, p := range result.Selected {
		if err := os.Remove(p.Path); err != nil {
			debug.Error(fmt.Errorf("delete %s: %w", p.Name, err))
			result.Failed++
			continue
		}
		debug.Verbose("Deleted old photo: %s (from %s)", p.Name, p.Taken.Format("2006-01-02 15:04:05"))
		result.Deleted = append(result.Deleted, p)
	}

	result.Kept = len(photos) - len(result.Deleted)
	debug.Cleanup(len(result.Deleted), result.Kept)
	return result, nil
}

package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/catnap-watch/catnap/internal/debug"
)

// Photo is one stored photo file. Taken is the file modification time,
// which the Store sets to the capture time on Save.
type Photo struct {
	Name  string
	Path  string
	Size  int64
	Taken time.Time
}

// Store owns a directory of JPEG photos. The watch loop creates entries
// through Save; Enforce is the sole deleter, keeping the directory bounded.
type Store struct {
	dir string
}

// NewStore creates the photo directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the managed directory path.
func (s *Store) Dir() string { return s.dir }

// Save writes jpegData as a new timestamped photo and returns its entry.
// Filenames embed the capture time so lexical order matches capture order;
// same-second captures get a numeric suffix instead of overwriting.
func (s *Store) Save(taken time.Time, jpegData []byte) (Photo, error) {
	base := "cat_" + taken.Format("20060102_150405")
	name := base + ".jpg"
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(s.dir, name)); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s_%d.jpg", base, n)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, jpegData, 0644); err != nil {
		return Photo{}, fmt.Errorf("write photo: %w", err)
	}
	// Stamp the file with the capture time so retention ordering survives
	// copies and clock skew between ticks.
	if err := os.Chtimes(path, taken, taken); err != nil {
		debug.Error(fmt.Errorf("stamp photo time: %w", err))
	}

	debug.Photo(path, int64(len(jpegData)))
	return Photo{Name: name, Path: path, Size: int64(len(jpegData)), Taken: taken}, nil
}

// List returns all stored photos sorted oldest-first by capture timestamp,
// with equal timestamps broken by filename lexical order.
func (s *Store) List() ([]Photo, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	var photos []Photo
	for _, path := range matches {
		fi, err := os.Stat(path)
		if err != nil {
			// Deleted between glob and stat; skip.
			debug.Verbose("skipping %s: %v", path, err)
			continue
		}
		photos = append(photos, Photo{
			Name:  filepath.Base(path),
			Path:  path,
			Size:  fi.Size(),
			Taken: fi.ModTime(),
		})
	}

	sort.Slice(photos, func(i, j int) bool {
		if photos[i].Taken.Equal(photos[j].Taken) {
			return photos[i].Name < photos[j].Name
		}
		return photos[i].Taken.Before(photos[j].Taken)
	})
	return photos, nil
}

// Info summarizes storage usage.
type Info struct {
	Count     int
	TotalSize int64
	Oldest    time.Time
	Newest    time.Time
}

// Info returns current count, total size and oldest/newest capture times.
func (s *Store) Info() (Info, error) {
	photos, err := s.List()
	if err != nil {
		return Info{}, err
	}

	info := Info{Count: len(photos)}
	for _, p := range photos {
		info.TotalSize += p.Size
	}
	if len(photos) > 0 {
		info.Oldest = photos[0].Taken
		info.Newest = photos[len(photos)-1].Taken
	}
	return info, nil
}

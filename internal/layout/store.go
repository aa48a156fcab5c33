package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Info is the listing summary for one layout file.
type Info struct {
	Name         string `json:"name"`
	FileName     string `json:"file_name"`
	Description  string `json:"description,omitempty"`
	TotalScreens int    `json:"total_screens"`
}

// Store reads and writes layout definition files in a single directory.
// Layouts are plain JSON files; the directory is re-scanned on every call so
// files added or edited by hand are picked up without a restart.
type Store struct {
	dir string
}

// NewStore creates a store over the given layouts directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the layouts directory path.
func (s *Store) Dir() string { return s.dir }

// List scans the layouts directory and returns a summary for every parseable
// layout file, sorted by name. Files that fail to parse are skipped; Load
// reports the precise error when a broken layout is addressed directly.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read layouts directory %q: %w", s.dir, err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		def, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:         def.Name,
			FileName:     entry.Name(),
			Description:  def.Description,
			TotalScreens: def.ScreenRequirements.TotalScreens,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Load reads and validates a layout by name. The name may be given with or
// without the ".json" suffix.
func (s *Store) Load(name string) (*Definition, error) {
	base := strings.TrimSuffix(name, ".json")
	if err := validateLayoutName(base); err != nil {
		return nil, &ValidationError{File: name, Err: err}
	}
	fileName := base + ".json"

	data, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: base}
		}
		return nil, fmt.Errorf("failed to read layout %q: %w", fileName, err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &ValidationError{File: fileName, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := def.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.File = fileName
			return nil, verr
		}
		return nil, &ValidationError{File: fileName, Err: err}
	}

	return &def, nil
}

// Create writes a new layout file derived from the definition's name. It
// refuses to overwrite an existing file. Returns the file name written.
func (s *Store) Create(def *Definition) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}

	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(def.Name), " ", "-"))
	if err := validateLayoutName(base); err != nil {
		return "", &ValidationError{Err: err}
	}
	fileName := base + ".json"
	path := filepath.Join(s.dir, fileName)

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("layout file %q already exists", fileName)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check layout file %q: %w", fileName, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create layouts directory: %w", err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode layout: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write layout %q: %w", fileName, err)
	}

	return fileName, nil
}

// validateLayoutName rejects names that would escape the layouts directory
// or produce awkward file names.
func validateLayoutName(name string) error {
	if name == "" {
		return fmt.Errorf("layout name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("layout name %q must not contain path separators", name)
	}
	return nil
}

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
	"gopkg.in/yaml.v3"
)

// manifestVersion is written to every saved manifest.
const manifestVersion = "1.0"

// ManifestEntry is one work item as written in a manifest. ID is a pointer so
// a missing key can be told apart from an explicit empty string.
type ManifestEntry struct {
	Type string  `yaml:"type,omitempty"`
	ID   *string `yaml:"id"`
	URL  string  `yaml:"url,omitempty"`
}

// ManifestMethod lists the work items of one test method.
type ManifestMethod struct {
	Name      string          `yaml:"name"`
	WorkItems []ManifestEntry `yaml:"work_items,omitempty"`
}

// ManifestClass lists the work items of one test class and its methods.
type ManifestClass struct {
	Name      string           `yaml:"name"`
	Extends   []string         `yaml:"extends,omitempty"`
	WorkItems []ManifestEntry  `yaml:"work_items,omitempty"`
	Methods   []ManifestMethod `yaml:"methods,omitempty"`
}

// ManifestFile is the top-level structure of a work item manifest.
type ManifestFile struct {
	Version string          `yaml:"version"`
	Classes []ManifestClass `yaml:"classes"`
}

// ManifestStore reads and writes work item manifests.
type ManifestStore interface {
	Load(path string) (*ManifestFile, error)
	Save(path string, mf *ManifestFile) error
}

type fileManifestStore struct{}

// NewManifestStore creates a ManifestStore backed by YAML files.
func NewManifestStore() ManifestStore {
	return &fileManifestStore{}
}

// Load reads and parses the manifest at path. Declarations are checked for
// structure only: every key must be known, every class needs a name, every
// work item needs an id key and a known type. The content of the id is not
// checked.
func (s *fileManifestStore) Load(path string) (*ManifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", path, err)
	}

	var mf ManifestFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("loading manifest %s: parsing YAML: %w", path, err)
	}
	if err := mf.validate(); err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", path, err)
	}
	return &mf, nil
}

// Save writes mf to path as YAML, creating parent directories as needed.
func (s *fileManifestStore) Save(path string, mf *ManifestFile) error {
	if mf == nil {
		return errors.New("saving manifest: manifest is nil")
	}
	if mf.Version == "" {
		mf.Version = manifestVersion
	}

	data, err := yaml.Marshal(mf)
	if err != nil {
		return fmt.Errorf("saving manifest: marshalling YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving manifest: creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving manifest: writing file: %w", err)
	}
	return nil
}

func (mf *ManifestFile) validate() error {
	for i, c := range mf.Classes {
		if c.Name == "" {
			return fmt.Errorf("class %d: name must not be empty", i)
		}
		if _, err := toWorkItems(c.WorkItems); err != nil {
			return fmt.Errorf("class %s: %w", c.Name, err)
		}
		for j, m := range c.Methods {
			if m.Name == "" {
				return fmt.Errorf("class %s: method %d: name must not be empty", c.Name, j)
			}
			if _, err := toWorkItems(m.WorkItems); err != nil {
				return fmt.Errorf("class %s: method %s: %w", c.Name, m.Name, err)
			}
		}
	}
	return nil
}

// Apply declares every class and method of mf on reg, in file order.
func (mf *ManifestFile) Apply(reg *workitem.Registry) error {
	if err := mf.validate(); err != nil {
		return err
	}
	for _, c := range mf.Classes {
		tags, _ := toWorkItems(c.WorkItems)
		decl := reg.Class(c.Name, tags...).Extends(c.Extends...)
		for _, m := range c.Methods {
			mtags, _ := toWorkItems(m.WorkItems)
			decl.Method(m.Name, mtags...)
		}
	}
	return nil
}

// ManifestFromRegistry captures every declaration in reg as a manifest.
func ManifestFromRegistry(reg *workitem.Registry) *ManifestFile {
	mf := &ManifestFile{Version: manifestVersion}
	for _, cs := range reg.Snapshot() {
		mc := ManifestClass{
			Name:      cs.Name,
			Extends:   cs.Parents,
			WorkItems: fromWorkItems(cs.Tags),
		}
		for _, m := range cs.Methods {
			mc.Methods = append(mc.Methods, ManifestMethod{Name: m.Name, WorkItems: fromWorkItems(m.Tags)})
		}
		mf.Classes = append(mf.Classes, mc)
	}
	return mf
}

func toWorkItems(entries []ManifestEntry) ([]models.WorkItem, error) {
	out := make([]models.WorkItem, 0, len(entries))
	for i, e := range entries {
		if e.ID == nil {
			return nil, fmt.Errorf("work item %d: id is required", i)
		}
		t, err := models.ParseWorkItemType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("work item %d: %w", i, err)
		}
		out = append(out, models.NewWorkItem(*e.ID, models.WithType(t), models.WithURL(e.URL)))
	}
	return out, nil
}

func fromWorkItems(items []models.WorkItem) []ManifestEntry {
	if len(items) == 0 {
		return nil
	}
	out := make([]ManifestEntry, len(items))
	for i, w := range items {
		id := w.ID
		out[i] = ManifestEntry{Type: string(w.Type), ID: &id, URL: w.URL}
	}
	return out
}

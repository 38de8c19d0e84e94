package scene

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

// Repository provides persistence operations for scenes.
type Repository interface {
	// Load reads the scene file at path and assigns it handle id.
	Load(ctx context.Context, path string, id hierarchy.TreeID) (*Scene, error)

	// Save writes the scene to path.
	Save(ctx context.Context, s *Scene, path string) error
}

// sceneFile is the on-disk scene format.
type sceneFile struct {
	Name    string       `json:"name"`
	Objects []objectFile `json:"objects"`
}

type objectFile struct {
	Name            string       `json:"name"`
	Tag             string       `json:"tag,omitempty"`
	Layer           string       `json:"layer,omitempty"`
	Active          *bool        `json:"active,omitempty"` // Missing means active
	Components      []string     `json:"components,omitempty"`
	PrefabOverrides int          `json:"prefab_overrides,omitempty"`
	Children        []objectFile `json:"children,omitempty"`
}

// repository implements the Repository interface.
type repository struct {
	logger *slog.Logger
}

// NewRepository creates a new Repository instance.
func NewRepository(logger *slog.Logger) Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &repository{
		logger: logger,
	}
}

// Load reads the scene file at path and assigns it handle id.
func (r *repository) Load(ctx context.Context, path string, id hierarchy.TreeID) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}

	var file sceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}

	name := file.Name
	if name == "" {
		name = filepath.Base(path)
	}

	s := New(id, name)
	s.SetPath(path)
	if err := addObjects(ctx, s, NoParent, file.Objects); err != nil {
		return nil, fmt.Errorf("failed to build scene %s: %w", path, err)
	}

	r.logger.Info("Loaded scene", "path", path, "scene", name, "objects", s.Len())
	return s, nil
}

func addObjects(ctx context.Context, s *Scene, parent hierarchy.ID, objects []objectFile) error {
	for _, of := range objects {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		active := true
		if of.Active != nil {
			active = *of.Active
		}
		id, err := s.Add(parent, Spec{
			Name:            of.Name,
			Tag:             of.Tag,
			Layer:           of.Layer,
			Active:          active,
			Components:      of.Components,
			PrefabOverrides: of.PrefabOverrides,
		})
		if err != nil {
			return err
		}
		if err := addObjects(ctx, s, id, of.Children); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the scene to path.
func (r *repository) Save(ctx context.Context, s *Scene, path string) error {
	if s == nil {
		return fmt.Errorf("scene cannot be nil")
	}

	file := sceneFile{
		Name:    s.Name(),
		Objects: toFiles(s, s.Roots()),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	s.SetPath(path)
	r.logger.Info("Saved scene", "path", path, "scene", s.Name(), "objects", s.Len())
	return nil
}

func toFiles(s *Scene, ids []hierarchy.ID) []objectFile {
	var files []objectFile
	for _, id := range ids {
		o, ok := s.Object(id)
		if !ok {
			continue
		}
		of := objectFile{
			Name:            o.name,
			Tag:             o.tag,
			Layer:           o.layer,
			Components:      o.Components(),
			PrefabOverrides: o.prefabOverrides,
			Children:        toFiles(s, o.children),
		}
		if !o.active {
			inactive := false
			of.Active = &inactive
		}
		if len(of.Components) == 0 {
			of.Components = nil
		}
		files = append(files, of)
	}
	return files
}

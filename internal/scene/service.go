package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"
)

const (
	// maxHealthyDepth is the nesting depth past which a scene is flagged.
	maxHealthyDepth = 10

	// maxHealthyChildren is the child count past which an object is flagged.
	maxHealthyChildren = 50
)

// Issue is a structural problem found in a scene.
type Issue struct {
	Severity string       `json:"severity"` // "warning" or "error"
	Message  string       `json:"message"`
	Object   hierarchy.ID `json:"object,omitempty"`
}

// Service provides the scene operations the program needs.
type Service interface {
	// Open loads the scene files at paths. Files that fail to load are
	// skipped and reported together in the error. No paths opens the
	// built-in sample scene.
	Open(ctx context.Context, paths []string) ([]*Scene, error)

	// Validate checks a scene for structures that draw poorly.
	Validate(ctx context.Context, s *Scene) ([]Issue, error)
}

// service implements the Service interface.
type service struct {
	logger     *slog.Logger
	repository Repository
}

// NewService creates a new Service instance.
func NewService(logger *slog.Logger, repo Repository) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		logger:     logger,
		repository: repo,
	}
}

// Open loads the scene files at paths.
func (s *service) Open(ctx context.Context, paths []string) ([]*Scene, error) {
	if len(paths) == 0 {
		s.logger.Info("No scene files given, opening sample scene")
		return []*Scene{Sample(1)}, nil
	}

	var scenes []*Scene
	var result *multierror.Error
	for i, path := range paths {
		sc, err := s.repository.Load(ctx, path, hierarchy.TreeID(i+1))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("Skipping scene", "path", path, "error", err)
			result = multierror.Append(result, err)
			continue
		}
		scenes = append(scenes, sc)
	}

	s.logger.Info("Scenes opened", "requested", len(paths), "loaded", len(scenes))
	return scenes, result.ErrorOrNil()
}

// Validate checks a scene for structures that draw poorly.
func (s *service) Validate(ctx context.Context, sc *Scene) ([]Issue, error) {
	if sc == nil {
		return nil, fmt.Errorf("scene cannot be nil")
	}

	var issues []Issue
	var err error
	sc.Walk(nil, func(id hierarchy.ID, depth int) bool {
		// Check context cancellation
		if err = ctx.Err(); err != nil {
			return false
		}

		o, _ := sc.Object(id)
		if depth == maxHealthyDepth+1 {
			issues = append(issues, Issue{
				Severity: "warning",
				Message:  fmt.Sprintf("'%s' is nested %d levels deep", o.Name(), depth),
				Object:   id,
			})
		}
		if n := len(o.children); n > maxHealthyChildren {
			issues = append(issues, Issue{
				Severity: "warning",
				Message:  fmt.Sprintf("'%s' has many children (%d)", o.Name(), n),
				Object:   id,
			})
		}
		issues = append(issues, duplicateNames(sc, o.children)...)
		return true
	})
	if err != nil {
		return issues, err
	}
	issues = append(issues, duplicateNames(sc, sc.roots)...)

	s.logger.Info("Scene validation complete", "scene", sc.Name(), "issues_found", len(issues))
	return issues, nil
}

// duplicateNames reports siblings that share a name, once per name.
func duplicateNames(sc *Scene, siblings []hierarchy.ID) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(siblings))
	for _, id := range siblings {
		o, ok := sc.objects[id]
		if !ok {
			continue
		}
		seen[o.name]++
		if seen[o.name] == 2 {
			issues = append(issues, Issue{
				Severity: "warning",
				Message:  fmt.Sprintf("Several siblings are named '%s'", o.name),
				Object:   id,
			})
		}
	}
	return issues
}

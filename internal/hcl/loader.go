package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/depsgraph/internal/ctxlog"
	"github.com/vk/depsgraph/internal/scene"
)

// Loader reads scene files.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL scene loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses every .hcl file under paths, in discovery order, and merges
// their blocks into one scene. Missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*scene.Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	s := &scene.Scene{}
	for _, file := range files {
		f, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decode(ctx, file, f, s); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "objects", len(s.Objects), "materials", len(s.Materials), "node_trees", len(s.NodeTrees), "relations", len(s.Relations))
	return s, nil
}

// Parse decodes a single in-memory file.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*scene.Scene, error) {
	f, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	s := &scene.Scene{}
	if err := l.decode(ctx, filename, f, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Loader) decode(ctx context.Context, filename string, f *hcl.File, s *scene.Scene) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	// Translate and merge all discovered blocks into the scene.
	for _, o := range root.Objects {
		obj, err := translateObject(ctx, o)
		if err != nil {
			return err
		}
		s.Objects = append(s.Objects, obj)
	}
	for _, m := range root.Materials {
		s.Materials = append(s.Materials, translateMaterial(m))
	}
	for _, nt := range root.NodeTrees {
		tree, err := translateNodeTree(ctx, nt)
		if err != nil {
			return err
		}
		s.NodeTrees = append(s.NodeTrees, tree)
	}
	for _, r := range root.Relations {
		s.Relations = append(s.Relations, &scene.Relation{Name: r.Name, From: r.From, To: r.To})
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}

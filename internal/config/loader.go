package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind says where an effective value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source locates the setting behind an effective value.
type Source struct {
	Kind   SourceKind
	Name   string // builtin layout or default set
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	if s.Line > 0 {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return s.File
}

// LoadResult is a loaded config plus the provenance needed to explain it.
type LoadResult struct {
	Config *Config
	// Sources maps a YAML path to the position in the last file that set it.
	Sources map[string]Source
	// LayoutBases maps a layout to the builtin at the root of its inherits chain.
	LayoutBases map[string]string
	// LayoutChains lists the user layouts each layout inherits from, nearest first.
	LayoutChains map[string][]string
	// Files holds every loaded file, lowest precedence first.
	Files []string
}

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "TAGTILE_CONFIG"

func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ConfigPathEnv)); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tagtile", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load with provenance.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and everything it includes. A missing file yields
// the defaults.
//
// Files are applied as layers: every include before the file naming it. Later
// layers replace scalar settings and the tag list outright, while a layout is
// patched field by field, so an included file can adjust one field of a
// layout defined elsewhere.
func LoadFromPath(path string) (*LoadResult, error) {
	stack := &layerStack{loaded: make(map[string]bool)}
	if _, err := os.Stat(path); err == nil {
		if err := stack.push(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	raw, sources, files := stack.flatten()

	cfg, lineage, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, withSource(err, sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, withSource(err, sources)
	}

	return &LoadResult{
		Config:       cfg,
		Sources:      sources,
		LayoutBases:  lineage.Bases,
		LayoutChains: lineage.Chains,
		Files:        files,
	}, nil
}

// layer is one decoded config file.
type layer struct {
	file     string
	raw      RawConfig
	sources  map[string]Source
	includes []includeRef
}

type includeRef struct {
	Value  string
	Source Source
}

// layerStack orders config files for merging. A file reached twice is only
// applied at its first position.
type layerStack struct {
	layers []layer
	loaded map[string]bool
	open   []string
}

func (s *layerStack) push(path string) error {
	file := canonicalPath(path)
	if i := slices.Index(s.open, file); i >= 0 {
		cycle := append(slices.Clone(s.open[i:]), file)
		return fmt.Errorf("include cycle detected: %s", strings.Join(cycle, " -> "))
	}
	if s.loaded[file] {
		return nil
	}
	s.loaded[file] = true

	l, err := readLayer(file)
	if err != nil {
		return err
	}

	s.open = append(s.open, file)
	for _, ref := range l.includes {
		paths, err := ref.expand(file)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", ref.Source.position(), ref.Value, err)
		}
		for _, p := range paths {
			if err := s.push(p); err != nil {
				return err
			}
		}
	}
	s.open = s.open[:len(s.open)-1]

	s.layers = append(s.layers, l)
	return nil
}

func (s *layerStack) flatten() (RawConfig, map[string]Source, []string) {
	var raw RawConfig
	sources := make(map[string]Source)
	files := make([]string, 0, len(s.layers))
	for _, l := range s.layers {
		raw = raw.merge(l.raw)
		for p, src := range l.sources {
			sources[p] = src
		}
		files = append(files, l.file)
	}
	return raw, sources, files
}

func readLayer(file string) (layer, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}

	l := layer{file: file}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l.raw); err != nil && !errors.Is(err, io.EOF) {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	l.sources = keyPositions(root, file)
	l.includes = includeRefs(root, file)
	return l, nil
}

// keyPositions maps the YAML paths a file sets to where their values start.
// Layouts are tracked per field and sub-field, matching how they merge.
func keyPositions(root *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	eachPair(root, func(key string, val *yaml.Node) {
		out[key] = nodeSource(file, val)
		if key != "layouts" {
			return
		}
		eachPair(val, func(name string, body *yaml.Node) {
			prefix := "layouts." + name
			out[prefix] = nodeSource(file, body)
			eachPair(body, func(field string, fv *yaml.Node) {
				out[prefix+"."+field] = nodeSource(file, fv)
				eachPair(fv, func(sub string, sv *yaml.Node) {
					out[prefix+"."+field+"."+sub] = nodeSource(file, sv)
				})
			})
		})
	})
	return out
}

func includeRefs(root *yaml.Node, file string) []includeRef {
	var refs []includeRef
	eachPair(root, func(key string, val *yaml.Node) {
		if key != "include" {
			return
		}
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		for _, item := range items {
			if item.Kind != yaml.ScalarNode {
				continue
			}
			refs = append(refs, includeRef{Value: item.Value, Source: nodeSource(file, item)})
		}
	})
	return refs
}

func eachPair(node *yaml.Node, fn func(key string, val *yaml.Node)) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		fn(node.Content[i].Value, node.Content[i+1])
	}
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// expand turns an include entry into files. An entry may name a file, a
// directory (its *.yaml and *.yml files in name order) or a glob pattern,
// which may match nothing.
func (r includeRef) expand(from string) ([]string, error) {
	path, err := resolveInclude(from, r.Value)
	if err != nil {
		return nil, err
	}

	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(matches, isDir), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	return files, nil
}

func resolveInclude(from, include string) (string, error) {
	include = strings.TrimSpace(include)
	if include == "" {
		return "", errors.New("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(from), include), nil
}

func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// withSource points a validation error at the file position of its path.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}

// Package settings is the engine's typed, dot-path configuration store.
// Values persist as a single YAML document; subscribers are notified in
// registration order whenever a path changes.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"render-engine/internal/logx"
)

// ConfigError wraps failures loading, parsing, or validating settings.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Path, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

type subscriber struct {
	id int
	fn func(old, new any)
}

// Store is the live, in-memory settings tree plus its file-backed
// persistence. The zero value is not usable; use New.
type Store struct {
	mu          sync.Mutex
	tree        map[string]any
	file        string
	subscribers map[string][]subscriber
	nextID      int
}

// New creates a Store initialised with the compiled-in defaults. Call
// Load afterward to overlay a settings file, if one exists.
func New() *Store {
	return &Store{
		tree:        defaults(),
		subscribers: make(map[string][]subscriber),
	}
}

func defaults() map[string]any {
	return map[string]any{
		"window": map[string]any{
			"vsync":      true,
			"fullscreen": false,
		},
		"audio": map[string]any{
			"master_volume": 1.0,
		},
		"graphics": map[string]any{
			"shadow_map_size":  2048,
			"msaa_samples":     4,
			"culling_enabled":  true,
			"bloom_enabled":    false,
			"bloom_threshold":  1.0,
			"bloom_strength":   0.6,
			"wireframe_mode":   false,
			"exposure":         1.0,
			"gamma":            2.2,
			"render_distance":  500.0,
			"octree_max_depth": DefaultOctreeMaxDepth,
			"octree_capacity":  DefaultOctreeCapacity,
			"target_fps":       0, // 0 = uncapped
		},
		"performance": map[string]any{
			"worker_threads": 0, // 0 = runtime.NumCPU()
		},
	}
}

const (
	DefaultOctreeMaxDepth = 8
	DefaultOctreeCapacity = 10
)

// Get returns the value at a dot-path (e.g. "graphics.msaa_samples") and
// whether it was found.
func (s *Store) Get(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lookup(s.tree, strings.Split(path, "."))
}

// GetFloat, GetInt, GetBool, GetString are typed convenience wrappers
// around Get with a fallback when the path is missing or mistyped.
func (s *Store) GetFloat(path string, fallback float64) float64 {
	v, ok := s.Get(path)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

func (s *Store) GetInt(path string, fallback int) int {
	v, ok := s.Get(path)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return fallback
}

func (s *Store) GetBool(path string, fallback bool) bool {
	v, ok := s.Get(path)
	if !ok {
		return fallback
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func (s *Store) GetString(path string, fallback string) string {
	v, ok := s.Get(path)
	if !ok {
		return fallback
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fallback
}

// Set writes a value at a dot-path, then notifies the path's subscribers
// with (old, new). The lock is held only long enough to mutate the tree
// and copy the subscriber list; callbacks run unlocked so they may
// themselves call Get/Subscribe without deadlocking. When save is true,
// Save is called after the callbacks run.
func (s *Store) Set(path string, value any, save bool) error {
	s.mu.Lock()
	segs := strings.Split(path, ".")
	old, _ := lookup(s.tree, segs)
	if err := assign(s.tree, segs, value); err != nil {
		s.mu.Unlock()
		return &ConfigError{Path: path, Err: err}
	}
	subs := append([]subscriber(nil), s.subscribers[path]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(old, value)
	}

	if save {
		if err := s.Save(); err != nil {
			return err
		}
	}
	return nil
}

// ApplyPreset applies every (path, value) pair (in map iteration order,
// which is unspecified), then saves once — equivalent to calling
// Set(path, value, false) for each entry followed by a single Save.
func (s *Store) ApplyPreset(values map[string]any) error {
	for path, value := range values {
		if err := s.Set(path, value, false); err != nil {
			return err
		}
	}
	return s.Save()
}

// Subscribe registers fn to be called with (old, new) whenever path
// changes via Set. Returns a handle for Unsubscribe.
func (s *Store) Subscribe(path string, fn func(old, new any)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers[path] = append(s.subscribers[path], subscriber{id: id, fn: fn})
	return id
}

// Unsubscribe removes a callback previously registered with Subscribe.
func (s *Store) Unsubscribe(path string, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.subscribers[path]
	for i, sub := range subs {
		if sub.id == id {
			s.subscribers[path] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Load reads path as YAML and merges it over the current tree (defaults
// stay in place for any key the file omits). If the file is missing,
// Load is a no-op. If it exists but fails to parse, Load logs a warning
// and keeps the existing (default) tree rather than failing the caller.
func (s *Store) Load(path string) error {
	s.mu.Lock()
	s.file = path
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	var loaded map[string]any
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		logx.L().Warn().Err(err).Str("path", path).Msg("malformed settings file, keeping defaults")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	mergeInto(s.tree, loaded)
	return nil
}

// Save atomically persists the tree to the file path given to Load (or
// set via SetFile) using a temp-file-then-rename so a crash mid-write
// never corrupts the on-disk settings.
func (s *Store) Save() error {
	s.mu.Lock()
	file := s.file
	tree := s.tree
	s.mu.Unlock()

	if file == "" {
		return nil
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return &ConfigError{Path: file, Err: err}
	}

	dir := filepath.Dir(file)
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return &ConfigError{Path: file, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &ConfigError{Path: file, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &ConfigError{Path: file, Err: err}
	}
	if err := os.Rename(tmpName, file); err != nil {
		os.Remove(tmpName)
		return &ConfigError{Path: file, Err: err}
	}
	return nil
}

// SetFile changes the path Save writes to without loading from it.
func (s *Store) SetFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = path
}

func lookup(tree map[string]any, segs []string) (any, bool) {
	cur := any(tree)
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(tree map[string]any, segs []string, value any) error {
	if len(segs) == 0 {
		return fmt.Errorf("empty path")
	}
	cur := tree
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg]
		if !ok {
			child := make(map[string]any)
			cur[seg] = child
			cur = child
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%q is not a section", seg)
		}
		cur = m
	}
	cur[segs[len(segs)-1]] = value
	return nil
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if subSrc, ok := v.(map[string]any); ok {
			if subDst, ok := dst[k].(map[string]any); ok {
				mergeInto(subDst, subSrc)
				continue
			}
		}
		dst[k] = v
	}
}

// ParsePreset decodes a YAML preset document (e.g. embedded "low",
// "medium", "high", "ultra" bundles) into a flat dot-path map suitable
// for ApplyPreset.
func ParsePreset(yamlDoc string) (map[string]any, error) {
	var nested map[string]any
	if err := yaml.Unmarshal([]byte(yamlDoc), &nested); err != nil {
		return nil, err
	}
	flat := make(map[string]any)
	flatten("", nested, flat)
	return flat, nil
}

func flatten(prefix string, src map[string]any, out map[string]any) {
	for k, v := range src {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(path, m, out)
			continue
		}
		out[path] = v
	}
}

// intFromString is a small helper kept for preset documents that encode
// integers as strings (YAML's int/float ambiguity across decoders).
func intFromString(s string) (int, error) {
	return strconv.Atoi(s)
}

package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Keys are flat dot-notation in memory ("chunking.size") and nested
// tables on disk ([chunking] size = 1000).
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// DefaultDir returns ~/.travelrag.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".travelrag"), nil
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.travelrag/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetFloat retrieves a floating point configuration value.
// Integers are converted, so "lambda = 1" reads as 1.0.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, _ := s.Get(key)

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	b, _ := val.(bool)
	return b
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	// TOML arrays are parsed as []any
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Keys returns every key currently set, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores a configuration value and persists immediately.
// The previous value is restored if the file cannot be written.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.data[key]
	s.data[key] = value
	if err := s.save(); err != nil {
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	nested, err := unflattenMap(s.data)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(nested)
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
// A missing file leaves the store empty.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// unflattenMap is the inverse of flattenMap.
// It fails when a key is both a value and a table ("a" and "a.b").
func unflattenMap(flat map[string]any) (map[string]any, error) {
	result := make(map[string]any)

	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := result
		for i, part := range parts[:len(parts)-1] {
			child, exists := node[part]
			if !exists {
				next := make(map[string]any)
				node[part] = next
				node = next
				continue
			}
			next, ok := child.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("config key %q conflicts with %q", key, strings.Join(parts[:i+1], "."))
			}
			node = next
		}

		leaf := parts[len(parts)-1]
		if _, isTable := node[leaf].(map[string]any); isTable {
			return nil, fmt.Errorf("config key %q conflicts with a table of the same name", key)
		}
		node[leaf] = value
	}

	return result, nil
}

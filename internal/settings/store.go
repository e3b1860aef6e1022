// Package settings provides the persisted key-value store backing user
// preferences. The pricing core only reads from it; the host UI owns
// writes.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Threshold keys understood by the core. Absence always yields the numeric
// default, never an error.
const (
	KeyMinProfit  = "minProfit"
	KeyMinMargin  = "minMargin"
	KeyMinROI     = "minROI"
	KeyMaxSellers = "maxSellers"
)

// Thresholds are the user-configured decision minimums.
type Thresholds struct {
	MinProfit  float64 `json:"min_profit"`
	MinMargin  float64 `json:"min_margin"`
	MinROI     float64 `json:"min_roi"`
	MaxSellers int     `json:"max_sellers"`
}

// Store is a JSON-file-backed key-value store with environment overrides.
// Keys map to env vars as ARBCORE_<KEY> upcased, e.g. minProfit ->
// ARBCORE_MINPROFIT. Environment wins over the file.
type Store struct {
	path   string
	values map[string]float64
	mu     sync.RWMutex
}

// Open loads the store at path, creating an empty one when the file is
// absent. A .env file alongside the process is honored when present.
func Open(path string) (*Store, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	s := &Store{
		path:   path,
		values: make(map[string]float64),
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &s.values); err != nil {
				// Ignore a corrupt file, start fresh.
				s.values = make(map[string]float64)
			}
		}
	}

	return s, nil
}

// Float returns the value for key, or def when the key is absent.
func (s *Store) Float(key string, def float64) float64 {
	if env, ok := envOverride(key); ok {
		return env
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Int returns the value for key truncated to an int, or def when absent.
func (s *Store) Int(key string, def int) int {
	return int(s.Float(key, float64(def)))
}

// Put writes a value through to disk. Exposed for the host's write side of
// the contract; the core itself never calls it.
func (s *Store) Put(key string, value float64) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return s.save()
}

// Thresholds reads the decision thresholds, defaulting every absent key to 0.
func (s *Store) Thresholds() Thresholds {
	return Thresholds{
		MinProfit:  s.Float(KeyMinProfit, 0),
		MinMargin:  s.Float(KeyMinMargin, 0),
		MinROI:     s.Float(KeyMinROI, 0),
		MaxSellers: s.Int(KeyMaxSellers, 0),
	}
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.values, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	return os.WriteFile(s.path, data, 0644)
}

func envOverride(key string) (float64, bool) {
	raw := os.Getenv(envName(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func envName(key string) string {
	out := make([]byte, 0, len(key)+8)
	out = append(out, "ARBCORE_"...)
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		out = append(out, ch)
	}
	return string(out)
}

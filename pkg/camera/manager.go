package camera

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Manager holds the live camera configuration for the dashboard. Updates
// are validated, applied through OnConfigChange and only then committed.
type Manager struct {
	mu     sync.RWMutex
	config Config

	// OnConfigChange reopens the capture device. A returned error rejects
	// the update and the previous configuration stays in effect.
	OnConfigChange func(cfg Config) error
}

// NewManager creates a camera manager holding cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// GetConfig returns the current camera configuration.
func (m *Manager) GetConfig() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetConfig validates cfg, applies it and commits it.
func (m *Manager) SetConfig(cfg Config) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}

	// Serialize device reopen with readers of the old config
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.OnConfigChange != nil {
		if err := m.OnConfigChange(cfg); err != nil {
			return fmt.Errorf("failed to apply config: %w", err)
		}
	}
	m.config = cfg
	return nil
}

// field setters keyed by the JSON names used in Config
var setters = map[string]func(cfg *Config, v interface{}) bool{
	"device": func(cfg *Config, v interface{}) bool {
		s, ok := v.(string)
		cfg.Device = s
		return ok
	},
	"width":     intSetter(func(cfg *Config, n int) { cfg.Width = n }),
	"height":    intSetter(func(cfg *Config, n int) { cfg.Height = n }),
	"framerate": intSetter(func(cfg *Config, n int) { cfg.Framerate = n }),
	"quality":   intSetter(func(cfg *Config, n int) { cfg.Quality = n }),
	"mirror": func(cfg *Config, v interface{}) bool {
		b, ok := v.(bool)
		cfg.Mirror = b
		return ok
	},
}

func intSetter(set func(cfg *Config, n int)) func(*Config, interface{}) bool {
	return func(cfg *Config, v interface{}) bool {
		n, ok := toInt(v)
		if ok {
			set(cfg, n)
		}
		return ok
	}
}

// UpdateConfig applies a partial update such as {"preset":"low","mirror":false}.
// A preset is applied first and individual fields override it. Unknown keys
// and mistyped values reject the whole update.
func (m *Manager) UpdateConfig(params map[string]interface{}) error {
	cfg := m.GetConfig()

	if v, ok := params["preset"]; ok {
		name, _ := v.(string)
		preset := GetPreset(name)
		if preset == nil {
			return fmt.Errorf("unknown preset: %v", v)
		}
		cfg = *preset
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if key != "preset" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		set, ok := setters[key]
		if !ok {
			return fmt.Errorf("unknown camera setting: %s", key)
		}
		if !set(&cfg, params[key]) {
			return fmt.Errorf("invalid value for %s: %v", key, params[key])
		}
	}

	return m.SetConfig(cfg)
}

// GetConfigJSON returns the current config as a map for JSON serialization,
// plus the available preset names under "presets".
func (m *Manager) GetConfigJSON() map[string]interface{} {
	data, _ := json.Marshal(m.GetConfig())
	var result map[string]interface{}
	json.Unmarshal(data, &result)

	result["presets"] = PresetNames()
	return result
}

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		return int(i), err == nil
	}
	return 0, false
}

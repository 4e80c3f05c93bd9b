package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/broadside/game/engine"
)

func createValidConfig() *engine.Rules {
	return &engine.Rules{
		Name:        "Test Config",
		Description: "Test configuration",
		GridSize:    6,
		Fleet: engine.Fleet{
			{Name: "cruiser", Length: 3},
			{Name: "destroyer", Length: 2},
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.Rules) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	writeRawFile(t, dir, name, data)
}

func writeRawFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "small", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected built-in classic default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("no directory", func(t *testing.T) {
		manager, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager should succeed without a directory, got: %v", err)
		}
		if manager.GetDefault().Fleet.TotalCells() != 17 {
			t.Error("Expected classic fleet as default")
		}
	})

	t.Run("classic override", func(t *testing.T) {
		dir := t.TempDir()
		override := createValidConfig()
		override.Name = "House Classic"
		writeConfigFile(t, dir, ClassicID, override)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "House Classic" {
			t.Errorf("Expected classic.json to override built-in rules, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("invalid classic override", func(t *testing.T) {
		dir := t.TempDir()
		writeRawFile(t, dir, ClassicID, []byte("{broken"))

		if _, err := NewManager(dir); err == nil {
			t.Error("Expected error for malformed classic.json")
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "small", createValidConfig())

	tooDense := createValidConfig()
	tooDense.GridSize = 5
	tooDense.Fleet = engine.Fleet{{Name: "a", Length: 5}, {Name: "b", Length: 5}, {Name: "c", Length: 5}}
	writeConfigFile(t, dir, "dense", tooDense)

	writeRawFile(t, dir, "malformed", []byte(`{"name": "x", "grid_size": `))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.GridSize != 6 || len(config.Fleet) != 2 {
			t.Errorf("Unexpected config: %+v", config)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("small.json")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Test Config" {
			t.Errorf("Unexpected name %q", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("small")
		os.Remove(filepath.Join(dir, "small.json"))
		second, err := manager.LoadConfig("small")
		if err != nil {
			t.Fatalf("Expected cached config, got: %v", err)
		}
		if first != second {
			t.Error("Expected the same cached instance")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		_, err := manager.LoadConfig("dense")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "small", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("small"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Test Config" {
		t.Errorf("Expected new default, got %q", manager.GetDefault().Name)
	}

	if err := manager.SetDefault("missing"); err == nil {
		t.Error("Expected error for unknown preset")
	}
	if manager.GetDefault().Name != "Test Config" {
		t.Error("Failed SetDefault must keep the previous default")
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "small", createValidConfig())
	writeRawFile(t, dir, "broken", []byte("not json"))
	writeRawFile(t, dir, "notes.txt", []byte("ignored"))
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}

	if len(configs) != 2 {
		t.Fatalf("Expected classic and small, got %d configs", len(configs))
	}
	if configs[0].ConfigID != ClassicID || configs[1].ConfigID != "small" {
		t.Errorf("Unexpected order: %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[0].Filename != "" {
		t.Errorf("Built-in classic should have no filename, got %q", configs[0].Filename)
	}
	if configs[1].Filename != "small.json" || configs[1].GridSize != 6 || len(configs[1].Fleet) != 2 {
		t.Errorf("Unexpected info: %+v", configs[1])
	}
}

func TestManager_ShippedPresets(t *testing.T) {
	manager, err := NewManager(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}

	for _, info := range configs {
		rules, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			t.Errorf("Preset %s failed to load: %v", info.ConfigID, err)
			continue
		}
		if err := engine.ValidateRules(rules); err != nil {
			t.Errorf("Preset %s is invalid: %v", info.ConfigID, err)
		}
	}
	if len(configs) < 3 {
		t.Errorf("Expected at least 3 shipped presets, got %d", len(configs))
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	// classic plus five presets
	if manager.Count() != 6 {
		t.Errorf("Expected 6 configs in cache, got %d", manager.Count())
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "small", createValidConfig())

	rules, err := ReadFile(filepath.Join(dir, "small.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if rules.Name != "Test Config" {
		t.Errorf("Unexpected name %q", rules.Name)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

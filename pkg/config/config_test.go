package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const catalogContent = `
version: "1.0"
config_id: "test-catalog"
lastUpdated: "2025-01-01T00:00:00Z"
default_model: "hat"
models:
  - name: "hat"
    initial_scale: 0.5
    description: "Top hat"
  - name: "glasses"
    file: "round_glasses"
  - name: "crown"
    initial_scale: 0.8
`

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "models.yaml")
	if err := os.WriteFile(configPath, []byte(catalogContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", config.Version)
	}
	if config.ConfigID != "test-catalog" {
		t.Errorf("Expected config_id test-catalog, got %s", config.ConfigID)
	}
	if config.DefaultModel != "hat" {
		t.Errorf("Expected default_model hat, got %s", config.DefaultModel)
	}
	if len(config.Models) != 3 {
		t.Errorf("Expected 3 models, got %d", len(config.Models))
	}
}

func TestModelHelpers(t *testing.T) {
	config, err := ParseConfig([]byte(catalogContent))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	glasses, found := config.GetModel("glasses")
	if !found {
		t.Fatalf("Expected to find glasses")
	}
	if glasses.AssetName() != "round_glasses" {
		t.Errorf("Expected asset round_glasses, got %s", glasses.AssetName())
	}
	if glasses.Scale() != DefaultInitialScale {
		t.Errorf("Expected default scale %v, got %v", DefaultInitialScale, glasses.Scale())
	}

	crown, _ := config.GetModel("crown")
	if crown.AssetName() != "crown" {
		t.Errorf("Expected asset crown, got %s", crown.AssetName())
	}
	if crown.Scale() != 0.8 {
		t.Errorf("Expected scale 0.8, got %v", crown.Scale())
	}

	if _, found := config.GetModel("nonexistent"); found {
		t.Errorf("Expected not to find nonexistent model")
	}
}

func TestParseConfigValidation(t *testing.T) {
	cases := map[string]string{
		"missing required": `
models:
  - name: "hat"
`,
		"invalid name": `
version: "1"
config_id: "c"
models:
  - name: "../etc/passwd"
`,
		"duplicate": `
version: "1"
config_id: "c"
models:
  - name: "hat"
  - name: "hat"
`,
		"unknown default": `
version: "1"
config_id: "c"
default_model: "crown"
models:
  - name: "hat"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(content)); err == nil {
				t.Errorf("Expected validation error, got nil")
			}
		})
	}
}

func TestLoadBootstrapConfig(t *testing.T) {
	tempDir := t.TempDir()

	bootstrapContent := `
logging:
  level: "debug"
  log_path: "/var/log/overlay"
server:
  http_port: 9090
camera:
  facing_mode: "environment"
  width: 1280
  height: 720
  environment_device: 2
pose:
  endpoint: "tcp://localhost:5599"
  model_complexity: 2
  smooth_landmarks: false
tracking:
  period_ms: 100
  max_in_flight: 2
  drop_stale: true
  result_timeout_ms: 400
render:
  fps: 30
  auto_rotate: true
gestures:
  min_scale: 0.1
  max_scale: 4
zeromq:
  scene_publish_address: "tcp://*:5600"
data:
  directory: "/data/overlay"
  catalog_file: "models.yaml"
`
	configPath := filepath.Join(tempDir, BootstrapFileName)
	if err := os.WriteFile(configPath, []byte(bootstrapContent), 0644); err != nil {
		t.Fatalf("Failed to write test bootstrap config: %v", err)
	}

	bootstrapCfg, err := LoadBootstrapConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadBootstrapConfig failed: %v", err)
	}

	if bootstrapCfg.Logging.Level != "debug" {
		t.Errorf("Expected logging level 'debug', got '%s'", bootstrapCfg.Logging.Level)
	}
	if bootstrapCfg.Server.HTTPPort != 9090 {
		t.Errorf("Expected server http_port 9090, got %d", bootstrapCfg.Server.HTTPPort)
	}
	if bootstrapCfg.Camera.FacingMode != "environment" || bootstrapCfg.Camera.EnvironmentDevice != 2 {
		t.Errorf("Unexpected camera config: %+v", bootstrapCfg.Camera)
	}
	if bootstrapCfg.Pose.Smooth() {
		t.Errorf("Expected smooth_landmarks false")
	}
	if bootstrapCfg.Pose.ModelComplexity != 2 {
		t.Errorf("Expected model_complexity 2, got %d", bootstrapCfg.Pose.ModelComplexity)
	}
	if bootstrapCfg.Tracking.Period().Milliseconds() != 100 {
		t.Errorf("Expected tracking period 100ms, got %v", bootstrapCfg.Tracking.Period())
	}
	if bootstrapCfg.Tracking.MaxInFlight != 2 || !bootstrapCfg.Tracking.DropStale {
		t.Errorf("Unexpected tracking config: %+v", bootstrapCfg.Tracking)
	}
	if bootstrapCfg.Tracking.ResultTimeout().Milliseconds() != 400 {
		t.Errorf("Expected result timeout 400ms, got %v", bootstrapCfg.Tracking.ResultTimeout())
	}
	if bootstrapCfg.Render.FPS != 30 || !bootstrapCfg.Render.AutoRotate {
		t.Errorf("Unexpected render config: %+v", bootstrapCfg.Render)
	}
	if bootstrapCfg.ZeroMQ.ScenePublishAddress != "tcp://*:5600" {
		t.Errorf("Expected scene_publish_address 'tcp://*:5600', got '%s'", bootstrapCfg.ZeroMQ.ScenePublishAddress)
	}
	if bootstrapCfg.Data.CatalogPath() != filepath.Join("/data/overlay", "models.yaml") {
		t.Errorf("Unexpected catalog path %s", bootstrapCfg.Data.CatalogPath())
	}
	if bootstrapCfg.Data.ModelsDir() != filepath.Join("/data/overlay", "models") {
		t.Errorf("Unexpected models dir %s", bootstrapCfg.Data.ModelsDir())
	}
}

func TestLoadBootstrapConfigDefaults(t *testing.T) {
	tempDir := t.TempDir()
	minimal := `
pose:
  endpoint: "tcp://localhost:5599"
data:
  directory: "/data"
  catalog_file: "models.yaml"
`
	if err := os.WriteFile(filepath.Join(tempDir, BootstrapFileName), []byte(minimal), 0644); err != nil {
		t.Fatalf("Failed to write test bootstrap config: %v", err)
	}

	cfg, err := LoadBootstrapConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadBootstrapConfig failed: %v", err)
	}
	if cfg.Tracking.PeriodMs != 150 {
		t.Errorf("Expected default period 150, got %d", cfg.Tracking.PeriodMs)
	}
	if cfg.Tracking.ScaleFactor != 0.005 {
		t.Errorf("Expected default scale factor 0.005, got %v", cfg.Tracking.ScaleFactor)
	}
	if cfg.Banner.Timeout().Seconds() != 5 {
		t.Errorf("Expected default banner timeout 5s, got %v", cfg.Banner.Timeout())
	}
	if cfg.Tracking.MaxInFlight != 0 {
		t.Errorf("Expected unbounded in-flight by default, got %d", cfg.Tracking.MaxInFlight)
	}
	if !cfg.Pose.Smooth() {
		t.Errorf("Expected smoothing on by default")
	}
	if cfg.ZeroMQ.SceneTopic != "overlay.scene" {
		t.Errorf("Expected default scene topic, got %s", cfg.ZeroMQ.SceneTopic)
	}
	if cfg.Data.ModelExtension != "glb" {
		t.Errorf("Expected default extension glb, got %s", cfg.Data.ModelExtension)
	}
}

func TestLoadBootstrapConfigMissingRequired(t *testing.T) {
	tempDir := t.TempDir()

	bootstrapContentMissing := `
logging:
  level: "info"
data:
  directory: "/data"
  catalog_file: "models.yaml"
`
	configPath := filepath.Join(tempDir, BootstrapFileName)
	if err := os.WriteFile(configPath, []byte(bootstrapContentMissing), 0644); err != nil {
		t.Fatalf("Failed to write test bootstrap config: %v", err)
	}

	_, err := LoadBootstrapConfig(tempDir)
	if err == nil {
		t.Fatalf("Expected error when loading bootstrap config with missing required fields, but got nil")
	}

	expectedErrorSubstr := "missing required field in bootstrap config: pose.endpoint"
	if !strings.Contains(err.Error(), expectedErrorSubstr) {
		t.Errorf("Expected error message to contain '%s', but got: %v", expectedErrorSubstr, err)
	}
}

func TestLoadBootstrapConfigInvalidClamp(t *testing.T) {
	tempDir := t.TempDir()
	content := `
pose:
  endpoint: "tcp://localhost:5599"
gestures:
  min_scale: 3
  max_scale: 1
data:
  directory: "/data"
  catalog_file: "models.yaml"
`
	if err := os.WriteFile(filepath.Join(tempDir, BootstrapFileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test bootstrap config: %v", err)
	}
	if _, err := LoadBootstrapConfig(tempDir); err == nil {
		t.Errorf("Expected clamp validation error, got nil")
	}
}

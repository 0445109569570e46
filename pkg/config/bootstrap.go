package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BootstrapFileName is the bootstrap config file inside the config dir.
const BootstrapFileName = "overlay_config.yaml"

// BootstrapConfig holds the initial configuration loaded from overlay_config.yaml
type BootstrapConfig struct {
	Logging  LoggingConfig         `yaml:"logging"`
	Server   BootstrapServerConfig `yaml:"server"`
	Camera   CameraConfig          `yaml:"camera"`
	Pose     PoseConfig            `yaml:"pose"`
	Tracking TrackingConfig        `yaml:"tracking"`
	Render   RenderConfig          `yaml:"render"`
	Gestures GestureConfig         `yaml:"gestures"`
	Banner   BannerConfig          `yaml:"banner"`
	ZeroMQ   ZeroMQBootstrap       `yaml:"zeromq"`
	Data     DataConfig            `yaml:"data"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogPath string `yaml:"log_path,omitempty"`
}

// BootstrapServerConfig holds HTTP server settings
type BootstrapServerConfig struct {
	HTTPPort int `yaml:"http_port"`
}

// CameraConfig holds acquisition preferences and the device mapping
type CameraConfig struct {
	FacingMode        string `yaml:"facing_mode"`
	Width             int    `yaml:"width"`
	Height            int    `yaml:"height"`
	UserDevice        int    `yaml:"user_device"`
	EnvironmentDevice int    `yaml:"environment_device"`
	JPEGQuality       int    `yaml:"jpeg_quality"`
	BindTimeoutMs     int    `yaml:"bind_timeout_ms"`
}

// PoseConfig holds the pose sidecar connection and estimator options
type PoseConfig struct {
	Endpoint         string `yaml:"endpoint"`
	ModelComplexity  int    `yaml:"model_complexity"`
	SmoothLandmarks  *bool  `yaml:"smooth_landmarks"`
	ResultBufferSize int    `yaml:"result_buffer_size"`
	PollTimeoutMs    int    `yaml:"poll_timeout_ms"`
}

// TrackingConfig holds the sampling loop settings
type TrackingConfig struct {
	PeriodMs        int     `yaml:"period_ms"`
	ScaleFactor     float64 `yaml:"scale_factor"`
	MaxInFlight     int     `yaml:"max_in_flight"`
	DropStale       bool    `yaml:"drop_stale"`
	ResultTimeoutMs int     `yaml:"result_timeout_ms"`
}

// RenderConfig holds render loop settings
type RenderConfig struct {
	FPS            int  `yaml:"fps"`
	AutoRotate     bool `yaml:"auto_rotate"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
}

// GestureConfig holds gesture scaling
type GestureConfig struct {
	RotationFactor float64 `yaml:"rotation_factor"`
	MinScale       float64 `yaml:"min_scale"`
	MaxScale       float64 `yaml:"max_scale"`
}

// BannerConfig holds error banner settings
type BannerConfig struct {
	TimeoutMs int `yaml:"timeout_ms"`
}

// ZeroMQBootstrap holds ZeroMQ settings from bootstrap
type ZeroMQBootstrap struct {
	ScenePublishAddress string `yaml:"scene_publish_address,omitempty"`
	SceneMonitorAddress string `yaml:"scene_monitor_address,omitempty"`
	SceneTopic          string `yaml:"scene_topic"`
}

// DataConfig holds data directory settings from bootstrap
type DataConfig struct {
	Directory       string `yaml:"directory"`
	ModelsDirectory string `yaml:"models_directory"`
	ModelExtension  string `yaml:"model_extension"`
	CatalogFilename string `yaml:"catalog_file"`
}

// Period is the tracking sample period.
func (c TrackingConfig) Period() time.Duration {
	return time.Duration(c.PeriodMs) * time.Millisecond
}

// ResultTimeout is how long an unanswered frame holds an in-flight slot.
// Zero lets the loop derive it from the period.
func (c TrackingConfig) ResultTimeout() time.Duration {
	return time.Duration(c.ResultTimeoutMs) * time.Millisecond
}

// Timeout is how long a banner stays up.
func (c BannerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c CameraConfig) BindTimeout() time.Duration {
	return time.Duration(c.BindTimeoutMs) * time.Millisecond
}

func (c PoseConfig) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMs) * time.Millisecond
}

// Smooth reports the smoothing flag, defaulting to true.
func (c PoseConfig) Smooth() bool {
	return c.SmoothLandmarks == nil || *c.SmoothLandmarks
}

// ModelsDir resolves the models directory against the data directory.
func (c DataConfig) ModelsDir() string {
	if filepath.IsAbs(c.ModelsDirectory) {
		return c.ModelsDirectory
	}
	return filepath.Join(c.Directory, c.ModelsDirectory)
}

// CatalogPath is the operational model catalog file.
func (c DataConfig) CatalogPath() string {
	return filepath.Join(c.Directory, c.CatalogFilename)
}

// LoadBootstrapConfig loads the bootstrap configuration from overlay_config.yaml
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, BootstrapFileName)

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	var bootstrapCfg BootstrapConfig
	if err := yaml.Unmarshal(data, &bootstrapCfg); err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	if bootstrapCfg.Pose.Endpoint == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: pose.endpoint")
	}
	if bootstrapCfg.Data.Directory == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.directory")
	}
	if bootstrapCfg.Data.CatalogFilename == "" {
		return nil, fmt.Errorf("missing required field in bootstrap config: data.catalog_file")
	}

	bootstrapCfg.applyDefaults()

	if err := bootstrapCfg.validate(); err != nil {
		return nil, err
	}
	return &bootstrapCfg, nil
}

func (c *BootstrapConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Camera.FacingMode == "" {
		c.Camera.FacingMode = "user"
	}
	if c.Camera.Width == 0 {
		c.Camera.Width = 640
	}
	if c.Camera.Height == 0 {
		c.Camera.Height = 480
	}
	if c.Camera.BindTimeoutMs == 0 {
		c.Camera.BindTimeoutMs = 10000
	}
	if c.Pose.ModelComplexity == 0 {
		c.Pose.ModelComplexity = 1
	}
	if c.Pose.ResultBufferSize == 0 {
		c.Pose.ResultBufferSize = 16
	}
	if c.Pose.PollTimeoutMs == 0 {
		c.Pose.PollTimeoutMs = 20
	}
	if c.Tracking.PeriodMs == 0 {
		c.Tracking.PeriodMs = 150
	}
	if c.Tracking.ScaleFactor == 0 {
		c.Tracking.ScaleFactor = 0.005
	}
	if c.Render.FPS == 0 {
		c.Render.FPS = 60
	}
	if c.Render.ViewportWidth == 0 {
		c.Render.ViewportWidth = 1280
	}
	if c.Render.ViewportHeight == 0 {
		c.Render.ViewportHeight = 720
	}
	if c.Gestures.RotationFactor == 0 {
		c.Gestures.RotationFactor = 0.1
	}
	if c.Banner.TimeoutMs == 0 {
		c.Banner.TimeoutMs = 5000
	}
	if c.ZeroMQ.SceneTopic == "" {
		c.ZeroMQ.SceneTopic = "overlay.scene"
	}
	if c.Data.ModelsDirectory == "" {
		c.Data.ModelsDirectory = "models"
	}
	if c.Data.ModelExtension == "" {
		c.Data.ModelExtension = "glb"
	}
}

func (c *BootstrapConfig) validate() error {
	switch c.Camera.FacingMode {
	case "user", "environment":
	default:
		return fmt.Errorf("invalid bootstrap config: camera.facing_mode must be 'user' or 'environment', got '%s'", c.Camera.FacingMode)
	}
	if c.Pose.ModelComplexity < 0 || c.Pose.ModelComplexity > 2 {
		return fmt.Errorf("invalid bootstrap config: pose.model_complexity must be 0, 1 or 2, got %d", c.Pose.ModelComplexity)
	}
	if c.Tracking.PeriodMs < 0 || c.Tracking.MaxInFlight < 0 || c.Tracking.ResultTimeoutMs < 0 {
		return fmt.Errorf("invalid bootstrap config: tracking.period_ms, tracking.max_in_flight and tracking.result_timeout_ms must not be negative")
	}
	if c.Gestures.MinScale < 0 || c.Gestures.MaxScale < 0 ||
		(c.Gestures.MaxScale > 0 && c.Gestures.MinScale > c.Gestures.MaxScale) {
		return fmt.Errorf("invalid bootstrap config: gestures.min_scale must not exceed gestures.max_scale")
	}
	return nil
}

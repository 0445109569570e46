package services

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/open-teleop/overlay/pkg/config"
	customlog "github.com/open-teleop/overlay/pkg/log"
)

// ErrInvalidCatalog is wrapped by UpdateConfig when the YAML is rejected.
var ErrInvalidCatalog = errors.New("invalid model catalog")

// CatalogPublisher is notified after the model catalog changes.
type CatalogPublisher interface {
	PublishCatalogUpdated(cfg *config.Config) error
}

// ModelCatalogService manages the operational model catalog.
type ModelCatalogService interface {
	LoadConfig() error
	GetCurrentConfig() *config.Config
	GetCurrentConfigYAML() ([]byte, error)
	UpdateConfig(newConfigYAML []byte) error
	PersistConfig(yamlData []byte) error
	SetPublisher(p CatalogPublisher)

	HasModel(name string) bool
	DefaultModel() string
	AssetName(name string) string
	InitialScale(name string) float64
}

// modelCatalogService implements the ModelCatalogService interface.
type modelCatalogService struct {
	operationalConfigPath string
	logger                customlog.Logger
	publisher             CatalogPublisher
	currentConfig         *config.Config
	mu                    sync.RWMutex
}

// NewModelCatalogService creates a new ModelCatalogService.
// Publisher can be set later via SetPublisher.
func NewModelCatalogService(operationalConfigPath string, logger customlog.Logger) (ModelCatalogService, error) {
	if operationalConfigPath == "" {
		return nil, fmt.Errorf("model catalog path cannot be empty")
	}
	if logger == nil {
		logger = customlog.NewNopLogger()
	}

	service := &modelCatalogService{
		operationalConfigPath: operationalConfigPath,
		logger:                logger,
	}

	// A missing catalog is allowed; it can be provided later via the API.
	if err := service.LoadConfig(); err != nil {
		logger.Warnf("Initial load of model catalog '%s' failed: %v. Service created, but catalog is empty.", operationalConfigPath, err)
		return service, nil
	}

	logger.Infof("ModelCatalogService initialized successfully for path: %s", operationalConfigPath)
	return service, nil
}

// LoadConfig reads the catalog file from disk and replaces the current catalog.
func (s *modelCatalogService) LoadConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Infof("Loading model catalog from: %s", s.operationalConfigPath)
	cfg, err := config.LoadConfig(s.operationalConfigPath)
	if err != nil {
		s.logger.Errorf("Error loading model catalog '%s': %v", s.operationalConfigPath, err)
		s.currentConfig = nil
		return fmt.Errorf("error loading model catalog '%s': %w", s.operationalConfigPath, err)
	}

	s.currentConfig = cfg
	s.logger.Infof("Loaded model catalog ID: %s, Version: %s (%d models)", cfg.ConfigID, cfg.Version, len(cfg.Models))
	return nil
}

// GetCurrentConfig returns the loaded catalog. Callers must not modify it.
func (s *modelCatalogService) GetCurrentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConfig
}

// GetCurrentConfigYAML returns the raw catalog file.
func (s *modelCatalogService) GetCurrentConfigYAML() ([]byte, error) {
	s.mu.RLock()
	path := s.operationalConfigPath
	s.mu.RUnlock()

	s.logger.Debugf("Reading raw model catalog YAML from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Errorf("Error reading model catalog '%s' for YAML export: %v", path, err)
		return nil, fmt.Errorf("error reading model catalog '%s': %w", path, err)
	}
	return data, nil
}

// UpdateConfig validates and persists the new catalog, applies it and
// notifies the publisher.
func (s *modelCatalogService) UpdateConfig(newConfigYAML []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Infof("Attempting to update model catalog from provided YAML")

	newCfg, err := config.ParseConfig(newConfigYAML)
	if err != nil {
		s.logger.Errorf("Rejected model catalog update: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	// Persist before applying so a failed write leaves the active catalog alone.
	if err := s.persistConfigUnlocked(newConfigYAML); err != nil {
		return err
	}

	oldCfgID := "N/A"
	if s.currentConfig != nil {
		oldCfgID = s.currentConfig.ConfigID
	}
	s.currentConfig = newCfg
	s.logger.Infof("Updated model catalog. ID %s -> %s, Version: %s", oldCfgID, newCfg.ConfigID, newCfg.Version)

	if s.publisher != nil {
		go func(publisher CatalogPublisher, cfg *config.Config) {
			if err := publisher.PublishCatalogUpdated(cfg); err != nil {
				s.logger.Warnf("Failed to publish catalog update notification: %v", err)
				return
			}
			s.logger.Debugf("Published catalog update notification")
		}(s.publisher, newCfg)
	}
	return nil
}

// PersistConfig writes the given YAML data to the catalog path.
func (s *modelCatalogService) PersistConfig(yamlData []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistConfigUnlocked(yamlData)
}

// persistConfigUnlocked assumes the caller holds the lock.
func (s *modelCatalogService) persistConfigUnlocked(yamlData []byte) error {
	s.logger.Infof("Persisting model catalog to: %s", s.operationalConfigPath)
	if err := os.WriteFile(s.operationalConfigPath, yamlData, 0644); err != nil {
		s.logger.Errorf("Error writing model catalog '%s': %v", s.operationalConfigPath, err)
		return fmt.Errorf("error writing model catalog '%s': %w", s.operationalConfigPath, err)
	}
	return nil
}

// SetPublisher allows injecting the CatalogPublisher after initialization.
func (s *modelCatalogService) SetPublisher(p CatalogPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

func (s *modelCatalogService) entry(name string) (config.ModelEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentConfig == nil {
		return config.ModelEntry{}, false
	}
	return s.currentConfig.GetModel(name)
}

// HasModel reports whether name is in the catalog.
func (s *modelCatalogService) HasModel(name string) bool {
	_, ok := s.entry(name)
	return ok
}

// DefaultModel is the model attached at startup; empty when no catalog is loaded.
func (s *modelCatalogService) DefaultModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentConfig == nil {
		return ""
	}
	return s.currentConfig.DefaultModel
}

// AssetName maps a catalog name to the file stem the loader resolves.
// Unknown names pass through unchanged.
func (s *modelCatalogService) AssetName(name string) string {
	if e, ok := s.entry(name); ok {
		return e.AssetName()
	}
	return name
}

// InitialScale returns the catalog scale for name or the default.
func (s *modelCatalogService) InitialScale(name string) float64 {
	if e, ok := s.entry(name); ok {
		return e.Scale()
	}
	return config.DefaultInitialScale
}

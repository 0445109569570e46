package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/services"
)

// ConfigHandler holds dependencies for configuration API endpoints.
type ConfigHandler struct {
	catalog services.ModelCatalogService
	logger  customlog.Logger
}

// NewConfigHandler creates a new handler for configuration endpoints.
func NewConfigHandler(catalog services.ModelCatalogService, logger customlog.Logger) *ConfigHandler {
	if catalog == nil {
		panic("ModelCatalogService cannot be nil in NewConfigHandler")
	}
	if logger == nil {
		panic("Logger cannot be nil in NewConfigHandler")
	}
	return &ConfigHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterConfigRoutes registers the configuration API endpoints with the Fiber app.
func RegisterConfigRoutes(app *fiber.App, catalog services.ModelCatalogService, logger customlog.Logger) {
	h := NewConfigHandler(catalog, logger)

	apiGroup := app.Group("/api/v1/config")
	apiGroup.Get("/models", h.handleGetModelCatalog)
	apiGroup.Put("/models", h.handleUpdateModelCatalog)

	logger.Infof("Registered model catalog API endpoints under /api/v1/config")
}

func isYAMLContentType(ct string) bool {
	switch ct {
	case "application/x-yaml", "application/yaml", "text/yaml":
		return true
	}
	return false
}

// handleGetModelCatalog returns the raw catalog YAML.
func (h *ConfigHandler) handleGetModelCatalog(c *fiber.Ctx) error {
	h.logger.Debugf("Handling GET request for /api/v1/config/models")
	yamlData, err := h.catalog.GetCurrentConfigYAML()
	if err != nil {
		h.logger.Errorf("Failed to get model catalog YAML: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to retrieve model catalog: %v", err),
		})
	}
	if len(yamlData) == 0 {
		h.logger.Warnf("Model catalog file is empty.")
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "Model catalog not found or not yet set.",
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}

// handleUpdateModelCatalog validates, persists and applies a new catalog.
func (h *ConfigHandler) handleUpdateModelCatalog(c *fiber.Ctx) error {
	h.logger.Debugf("Handling PUT request for /api/v1/config/models")

	if ct := c.Get(fiber.HeaderContentType); !isYAMLContentType(ct) {
		h.logger.Warnf("Received PUT request with unexpected Content-Type: %s", ct)
	}

	body := c.Body()
	if len(body) == 0 {
		h.logger.Errorf("Received empty body in PUT request for model catalog update.")
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body cannot be empty.",
		})
	}

	if err := h.catalog.UpdateConfig(body); err != nil {
		h.logger.Errorf("Failed to update model catalog: %v", err)
		if errors.Is(err, services.ErrInvalidCatalog) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Model catalog update failed: %v", err),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Internal server error during model catalog update: %v", err),
		})
	}

	h.logger.Infof("Successfully processed PUT request to update model catalog.")
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Model catalog updated successfully.",
	})
}

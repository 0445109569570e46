package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/open-teleop/overlay/domain/diagnostic"
	"github.com/open-teleop/overlay/domain/gesture"
	"github.com/open-teleop/overlay/domain/session"
	"github.com/open-teleop/overlay/pkg/api"
	"github.com/open-teleop/overlay/pkg/camera"
	"github.com/open-teleop/overlay/pkg/camera/opencv"
	"github.com/open-teleop/overlay/pkg/config"
	gestures "github.com/open-teleop/overlay/pkg/gesture"
	"github.com/open-teleop/overlay/pkg/lifecycle"
	customlog "github.com/open-teleop/overlay/pkg/log"
	"github.com/open-teleop/overlay/pkg/notify"
	"github.com/open-teleop/overlay/pkg/pose"
	"github.com/open-teleop/overlay/pkg/processing"
	"github.com/open-teleop/overlay/pkg/render"
	"github.com/open-teleop/overlay/pkg/scene"
	"github.com/open-teleop/overlay/pkg/timeutil"
	"github.com/open-teleop/overlay/pkg/tracking"
	"github.com/open-teleop/overlay/pkg/transform"
	"github.com/open-teleop/overlay/pkg/zeromq"
	"github.com/open-teleop/overlay/services"
)

// catalogPublishers notifies every publisher of a catalog change.
type catalogPublishers []services.CatalogPublisher

func (ps catalogPublishers) PublishCatalogUpdated(cfg *config.Config) error {
	var firstErr error
	for _, p := range ps {
		if err := p.PublishCatalogUpdated(cfg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func main() {
	configDir := flag.String("config", "", "directory containing "+config.BootstrapFileName)
	flag.Parse()
	if *configDir == "" {
		*configDir = os.Getenv("OVERLAY_CONFIG_DIR")
	}
	if *configDir == "" {
		*configDir = "config"
	}

	cfg, err := config.LoadBootstrapConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load bootstrap config: %v\n", err)
	}

	appLogger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to create logger: %v\n", err)
	}
	appLogger.Infof("Loaded bootstrap config from %s", *configDir)

	catalog, err := services.NewModelCatalogService(cfg.Data.CatalogPath(), appLogger.WithField("component", "catalog"))
	if err != nil {
		appLogger.Fatalf("Failed to create model catalog service: %v", err)
	}

	clock := timeutil.RealClock{}
	sc := scene.New(transform.Viewport{
		Width:  float64(cfg.Render.ViewportWidth),
		Height: float64(cfg.Render.ViewportHeight),
	})
	loader := scene.NewLoader(cfg.Data.ModelsDir(), cfg.Data.ModelExtension, appLogger.WithField("component", "loader"))
	modelPool := processing.NewPool("model", 1, 4, appLogger.WithField("component", "pool"))
	modelPool.Start()
	loader.UsePool(modelPool)

	cameras := camera.NewManager(opencv.Opener{
		Devices: opencv.Devices{
			User:        cfg.Camera.UserDevice,
			Environment: cfg.Camera.EnvironmentDevice,
		},
		Quality: cfg.Camera.JPEGQuality,
	}, appLogger.WithField("component", "camera"))

	poseClient, err := zeromq.NewPoseClient(zeromq.PoseClientConfig{
		Endpoint:         cfg.Pose.Endpoint,
		ResultBufferSize: cfg.Pose.ResultBufferSize,
		PollTimeout:      cfg.Pose.PollTimeout(),
	}, appLogger.WithField("component", "pose"))
	if err != nil {
		appLogger.Fatalf("Failed to connect to pose sidecar: %v", err)
	}
	poseClient.Start()

	hub := api.NewHub(appLogger.WithField("component", "hub"))
	fanout := render.NewFanout(hub)
	publishers := catalogPublishers{hub}

	var scenePublisher *zeromq.ScenePublisher
	if cfg.ZeroMQ.ScenePublishAddress != "" {
		scenePublisher, err = zeromq.NewScenePublisher(cfg.ZeroMQ.ScenePublishAddress, cfg.ZeroMQ.SceneTopic, appLogger.WithField("component", "publisher"))
		if err != nil {
			appLogger.Warnf("Scene publisher disabled: %v", err)
		} else {
			fanout.Add(scenePublisher)
			publishers = append(publishers, scenePublisher)
		}
	}
	catalog.SetPublisher(publishers)

	renderLoop := render.NewLoop(sc, fanout, clock, appLogger.WithField("component", "render"), render.Options{
		FPS:        cfg.Render.FPS,
		AutoRotate: cfg.Render.AutoRotate,
	})
	gestureCtrl := gestures.NewController(sc, appLogger.WithField("component", "gesture"), gestures.Options{
		RotationFactor: cfg.Gestures.RotationFactor,
		MinScale:       cfg.Gestures.MinScale,
		MaxScale:       cfg.Gestures.MaxScale,
	})
	banner := notify.NewBanner(clock, cfg.Banner.Timeout(), appLogger.WithField("component", "banner"))
	banner.Subscribe(hub.ShowBanner)

	ctrl := lifecycle.New(lifecycle.Deps{
		Camera:    cameras,
		Scene:     sc,
		Loader:    loader,
		Models:    catalog,
		Render:    renderLoop,
		Gestures:  gestureCtrl,
		Estimator: poseClient,
		Transform: transform.NewEstimator(cfg.Tracking.ScaleFactor),
		Banner:    banner,
		Clock:     clock,
		Logger:    appLogger.WithField("component", "lifecycle"),
	}, lifecycle.Options{
		Constraints: camera.Constraints{
			FacingMode: camera.FacingMode(cfg.Camera.FacingMode),
			Width:      cfg.Camera.Width,
			Height:     cfg.Camera.Height,
		},
		TrackingPeriod: cfg.Tracking.Period(),
		Tracking: tracking.Options{
			MaxInFlight:   cfg.Tracking.MaxInFlight,
			DropStale:     cfg.Tracking.DropStale,
			ResultTimeout: cfg.Tracking.ResultTimeout(),
			Pose: pose.Options{
				ModelComplexity: cfg.Pose.ModelComplexity,
				SmoothLandmarks: cfg.Pose.Smooth(),
			},
		},
	})

	sources := diagnostic.Sources{Tracking: ctrl, Render: renderLoop, Hub: hub, Loader: modelPool}
	if scenePublisher != nil {
		sources.Publisher = scenePublisher
	}
	diagnosticService := diagnostic.NewDiagnosticService(sources, appLogger.WithField("component", "diagnostic"))
	if cfg.ZeroMQ.SceneMonitorAddress != "" {
		if err := diagnosticService.StartSceneMonitor(cfg.ZeroMQ.SceneMonitorAddress, cfg.ZeroMQ.SceneTopic); err != nil {
			appLogger.Warnf("Failed to start scene monitor: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Open-Teleop Overlay",
		ErrorHandler: customErrorHandler,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "open-teleop overlay",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	apiGroup := app.Group("/api")
	session.NewSessionService(ctrl, catalog, cfg.Camera.BindTimeout()).RegisterRoutes(apiGroup.Group("/session"))
	apiGroup.Post("/gesture", gesture.NewGestureService(ctrl, gestureCtrl).CommandHandler)
	apiGroup.Get("/diagnostics", diagnosticService.GetMetricsHandler)

	api.RegisterConfigRoutes(app, catalog, appLogger.WithField("component", "config_api"))
	api.RegisterHostRoutes(app, api.NewHostHandler(ctrl, catalog, hub, cfg.Camera.BindTimeout(), appLogger.WithField("component", "host")))

	port := os.Getenv("PORT")
	if port == "" {
		port = fmt.Sprintf("%d", cfg.Server.HTTPPort)
	}

	go func() {
		appLogger.Infof("Server starting on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}

	ctrl.Close()
	modelPool.Stop()
	diagnosticService.Stop()
	if err := poseClient.Close(); err != nil {
		appLogger.Warnf("Error closing pose client: %v", err)
	}
	if scenePublisher != nil {
		scenePublisher.Close()
	}

	appLogger.Infof("Server exited properly")
}

// Custom error handler
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodsnap/config"
	"foodsnap/controllers"
	"foodsnap/logger"
	"foodsnap/routes"
	"foodsnap/services"
	"foodsnap/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	st, err := cfg.OpenStore(connectCtx)
	cancel()
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	log.Info("store ready", zap.String("driver", cfg.StoreDriver))

	clients, err := cfg.AWSClients(ctx)
	if err != nil {
		log.Fatal("failed to load aws config", zap.Error(err))
	}

	chat := services.NewOpenAIChat(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout, log)
	llmModels := services.Models{Vision: cfg.LLM.VisionModel, Light: cfg.LLM.LightModel}
	hub := services.NewRealtimeHub()

	users := services.NewUserService(st, st)
	summary := services.NewSummaryService(st, st)
	food := services.NewFoodService(st, chat, llmModels, log)
	if clients.Rekognition != nil {
		food.WithPrecheck(services.NewRekognitionService(clients.Rekognition))
	}
	meals := services.NewMealService(st, summary, log).WithHub(hub)
	if clients.S3 != nil {
		meals.WithPhotoArchive(utils.NewPhotoArchive(clients.S3, cfg.AWS.PhotoBucket, cfg.AWS.PhotoCDNURL))
	}
	recipes := services.NewRecipeService(chat, llmModels, log)
	ingredients := services.NewIngredientService(st)
	notifier := services.NewNotificationService(st, st, st, chat, llmModels, log)
	push := services.NewPushService(st, clients.SNS, cfg.AWS.FCMPlatformArn, log)

	var scheduler *services.NotificationScheduler
	if cfg.Notify.Enabled {
		scheduler = services.NewNotificationScheduler(notifier, push, st, log)
		if err := scheduler.Start(cfg.Notify.LunchCron, cfg.Notify.DinnerCron); err != nil {
			log.Fatal("invalid notification schedule", zap.Error(err))
		}
		log.Info("notification scheduler started",
			zap.String("lunch", cfg.Notify.LunchCron),
			zap.String("dinner", cfg.Notify.DinnerCron),
		)
	}

	r := routes.SetupRouter(routes.Controllers{
		Food:          controllers.NewFoodController(food),
		Recipes:       controllers.NewRecipeController(recipes),
		Meals:         controllers.NewMealController(meals),
		Summary:       controllers.NewSummaryController(summary),
		Users:         controllers.NewUserController(users),
		Ingredients:   controllers.NewIngredientController(ingredients),
		Notifications: controllers.NewNotificationController(notifier, push),
		Devices:       controllers.NewDeviceController(push),
		Realtime:      controllers.NewRealtimeController(hub),
	}, cfg.CORSOrigins, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error("store close", zap.Error(err))
	}
}

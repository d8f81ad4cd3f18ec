package router

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/ddukddak/taleapi/app/controllers"
	"github.com/ddukddak/taleapi/app/repository"
	"github.com/ddukddak/taleapi/internal/pkg/billing"
	"github.com/ddukddak/taleapi/internal/pkg/database"
	"github.com/ddukddak/taleapi/internal/pkg/env"
	"github.com/ddukddak/taleapi/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	db := database.GetDB()
	repos := repository.GetGlobalRepositories()

	subscriptionSvc := billing.NewServiceFromDB(db)
	subscriptionRepo := billing.NewRepository(db)

	subscriptionCtrl := controllers.NewSubscriptionController(subscriptionSvc)
	webhookCtrl := controllers.NewWebhookController(subscriptionSvc, env.GetEnv("TOSS_WEBHOOK_SECRET", ""))
	storyCtrl := controllers.NewStoryController(repos.Story)
	progressCtrl := controllers.NewProgressController(repos.Progress, repos.Story)
	userCtrl := controllers.NewUserController(repos.User)

	api := app.Group("/api", limiter.New(limiter.Config{
		Storage: newLimiterStorage(),
	}))
	api.Use(middleware.UserContextMiddleware)

	api.Get("/health", controllers.HandleHealth)

	// Webhooks authenticate via signature, not bearer token.
	api.Post("/webhooks/toss", webhookCtrl.HandleTossWebhook)

	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", subscriptionCtrl.HandleGetPlans)
	subscriptions.Get("/me", middleware.RequireAPIAuth, subscriptionCtrl.HandleGetMySubscription)
	subscriptions.Post("/", middleware.RequireAPIAuth, subscriptionCtrl.HandleCreateSubscription)
	subscriptions.Delete("/me", middleware.RequireAPIAuth, subscriptionCtrl.HandleCancelSubscription)

	stories := api.Group("/stories")
	stories.Get("/", storyCtrl.HandleListStories)
	stories.Get("/:id", storyCtrl.HandleGetStory)
	stories.Get("/:id/pages", middleware.RequireSubscription(subscriptionRepo, repos.Story), storyCtrl.HandleGetStoryPages)

	progress := api.Group("/progress", middleware.RequireAPIAuth)
	progress.Get("/", progressCtrl.HandleListProgress)
	progress.Get("/:storyId", progressCtrl.HandleGetProgress)
	progress.Put("/:storyId", progressCtrl.HandleUpsertProgress)

	users := api.Group("/users", middleware.RequireAPIAuth)
	users.Get("/me", userCtrl.HandleGetProfile)
	users.Patch("/me", userCtrl.HandleUpdateProfile)
	users.Delete("/me", userCtrl.HandleDeleteAccount)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func newLimiterStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 1,
	})
}

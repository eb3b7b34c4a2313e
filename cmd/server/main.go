package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	config "socialdeck/configs"
	"socialdeck/internal/api/handlers"
	"socialdeck/internal/api/middleware"
	job "socialdeck/internal/jobs"
	"socialdeck/internal/models"
	"socialdeck/internal/queue"
	"socialdeck/internal/repository"
	"socialdeck/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	scheduledPostRepo := repository.NewScheduledPostRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	gmbRepo := repository.NewGmbRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	storageService := service.NewStorageService(*cfg)
	mediaService := service.NewMediaService(mediaAssetRepo, socialAccountRepo, storageService)
	accountService := service.NewAccountService(*cfg, socialAccountRepo)
	alertService := service.NewAlertService(alertRepo, rdb)
	facebookService := service.NewFacebookService(*cfg, socialAccountRepo)
	instagramService := service.NewInstagramService(*cfg, socialAccountRepo)
	youtubeService := service.NewYoutubeService(*cfg, socialAccountRepo)
	gmbService := service.NewGmbService(*cfg, socialAccountRepo, gmbRepo)
	scheduledPostService := service.NewScheduledPostService(scheduledPostRepo, socialAccountRepo, client)
	libraryService := service.NewLibraryService(mediaAssetRepo, scheduledPostRepo, gmbRepo, storageService)
	calendarService := service.NewCalendarService(scheduledPostRepo, gmbRepo)

	publishers := map[string]service.Publisher{
		models.PlatformFacebook:  facebookService,
		models.PlatformInstagram: instagramService,
		models.PlatformYoutube:   youtubeService,
		models.PlatformGmb:       gmbService,
	}
	dispatcher := service.NewDispatcher(socialAccountRepo, publishers, scheduledPostService, alertService)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	account := handlers.NewAccountHandler(accountService, facebookService, instagramService, youtubeService, *cfg)
	// OAuth providers redirect here without a bearer token; the signed state
	// query parameter identifies the user instead.
	app.Get("/api/social-accounts/connect/:platform/callback", account.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/user/info", auth.Me)

	// social accounts
	api.Get("/social-accounts", account.ListSocialAccounts)
	api.Get("/social-accounts/connect/:platform", account.AddSocialAccount)
	api.Get("/social-accounts/:id", account.AccountInfo)
	api.Delete("/social-accounts/:id", account.RemoveAccount)

	// media
	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)
	api.Get("/media/recent", media.RecentUploads)
	api.Post("/media/resolve", media.Resolve)

	// media library
	library := handlers.NewLibraryHandler(libraryService)
	api.Get("/library", library.List)
	api.Post("/library/delete", library.BulkDelete)
	api.Get("/library/:id/download", library.Download)

	// publishing
	post := handlers.NewPostHandler(dispatcher, accountService, mediaService, facebookService, instagramService, youtubeService)
	api.Post("/posts/dispatch", post.Dispatch)
	api.Post("/facebook/post/:accountId", post.FacebookPost)
	api.Post("/instagram/post/:accountId", post.InstagramPost)
	api.Post("/youtube/upload/:accountId", post.YoutubeUpload)

	// scheduled posts
	scheduled := handlers.NewScheduledPostHandler(scheduledPostService)
	api.Post("/scheduled-posts", scheduled.Create)
	api.Get("/scheduled-posts", scheduled.List)
	api.Get("/scheduled-posts/:id", scheduled.Get)
	api.Put("/scheduled-posts/:id", scheduled.Reschedule)
	api.Delete("/scheduled-posts/:id", scheduled.Remove)

	// business profile
	gmb := handlers.NewGmbHandler(gmbService)
	api.Post("/gmb/locations/sync/:accountId", gmb.SyncLocations)
	api.Get("/gmb/locations", gmb.ListLocations)
	api.Get("/gmb/locations/:locationId/posts", gmb.LocationPosts)
	api.Post("/gmb/locations/:locationId/posts", gmb.CreatePost)
	api.Get("/gmb/posts", gmb.ListPosts)
	api.Put("/gmb/posts/:id", gmb.UpdatePost)
	api.Delete("/gmb/posts/:id", gmb.RemovePost)

	// calendar
	calendar := handlers.NewCalendarHandler(calendarService)
	api.Get("/calendar/month", calendar.Month)
	api.Get("/calendar/day", calendar.Day)

	// alerts
	alert := handlers.NewAlertHandler(alertService)
	api.Get("/alerts", alert.List)
	api.Get("/alerts/unread-count", alert.UnreadCount)
	api.Put("/alerts", alert.MarkAllRead)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, facebookService, instagramService, youtubeService, alertService)

	// queue
	queueW := queue.NewQueue(scheduledPostRepo, socialAccountRepo, publishers, alertService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(service.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}

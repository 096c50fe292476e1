package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"annuaire_artisans/internal/controller"
	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/model"
	"annuaire_artisans/internal/repository"
	"annuaire_artisans/internal/router"
	"annuaire_artisans/internal/service"
	"annuaire_artisans/internal/task"
	"annuaire_artisans/pkg/database"
)

func main() {
	// 1. database
	db := initDatabase()

	// 2. dependency graph
	deps := initDependencies(db)

	// 3. background tasks
	initTasks(deps)

	// 4. routes
	r := router.SetupRouter(deps.Controllers)

	// 5. serve
	startServer(r)
}

// ==================== Dependency container ====================

// Dependencies dependency container.
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories repository set.
type Repositories struct {
	Taxonomy repository.TaxonomyRepository
	Artisan  repository.ArtisanRepository
	Review   repository.ReviewRepository
	User     repository.UserRepository
}

// Services service set.
type Services struct {
	Taxonomy *service.TaxonomyService
	Artisan  *service.ArtisanService
	Import   *service.ImportService
	Review   *service.ReviewService
	User     *service.UserService
	Storage  service.StorageProvider
}

// ==================== Initialization ====================

func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=annuaire password=annuaire dbname=annuaire port=5432 sslmode=disable")

	db := database.InitDB(dsn,
		// operators
		&model.SysUser{},
		// taxonomy
		&model.TaxonomyTerm{},
		// directory
		&model.Artisan{}, &model.PhoneNumber{}, &model.SocialLink{},
		// reviews
		&model.Review{},
	)

	middleware.RegisterAuditCallbacks(db)
	return db
}

func initDependencies(db *gorm.DB) *Dependencies {
	// -------- configuration --------
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       getEnv("JWT_SECRET", "annuaire-artisans-secret-change-in-production"),
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "annuaire-artisans",
	})

	// -------- repositories --------
	repos := &Repositories{
		Taxonomy: repository.NewTaxonomyRepository(db),
		Artisan:  repository.NewArtisanRepository(db),
		Review:   repository.NewReviewRepository(db),
		User:     repository.NewUserRepository(db),
	}

	// -------- services --------
	services := &Services{
		Storage: initStorage(),
	}
	services.Taxonomy = service.NewTaxonomyService(repos.Taxonomy)
	services.Artisan = service.NewArtisanService(repos.Artisan, services.Taxonomy)
	services.Import = service.NewImportService(services.Artisan)
	services.Review = service.NewReviewService(repos.Review, repos.Artisan)
	services.User = service.NewUserService(repos.User)

	// -------- controllers --------
	controllers := &router.Controllers{
		Artisan:  controller.NewArtisanController(services.Artisan, services.Import),
		Review:   controller.NewReviewController(services.Review),
		Taxonomy: controller.NewTaxonomyController(services.Taxonomy),
		Auth:     controller.NewAuthController(services.User),
		Photo:    controller.NewPhotoController(services.Storage),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "annuaire"),
		LocalDir:  getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		LocalURL:  getEnv("STORAGE_LOCAL_URL", "/uploads"),
	})
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	return storage
}

// ==================== Background tasks ====================

func initTasks(deps *Dependencies) {
	linkCheck := task.NewLinkCheckTask(deps.Repos.Artisan)
	linkCheck.Start()

	log.Println("background tasks started")
}

// ==================== Server ====================

func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server exited")
}

// ==================== Helpers ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

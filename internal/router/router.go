package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"annuaire_artisans/internal/controller"
	"annuaire_artisans/internal/middleware"
	"annuaire_artisans/internal/model"
)

// anonymous submitters get one submission per IP in this window
const submissionCooldown = 30 * time.Second

// Controllers groups everything the router needs.
type Controllers struct {
	Artisan  *controller.ArtisanController
	Review   *controller.ReviewController
	Taxonomy *controller.TaxonomyController
	Auth     *controller.AuthController
	Photo    *controller.PhotoController
}

// SetupRouter builds the engine and registers all routes.
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, ctls)
	return r
}

// InitRoutes registers all routes.
func InitRoutes(r *gin.Engine, ctls *Controllers) {
	// Swagger docs at http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	moderator := middleware.RequireRole(string(model.UserRoleAdmin), string(model.UserRoleModerator))

	api := r.Group("/api")
	{
		// artisan directory
		artisans := api.Group("/artisans")
		{
			// anonymous submissions allowed; identity is attached when a token is present
			artisans.POST("",
				middleware.OptionalAuth(),
				middleware.AuditContext(),
				middleware.SubmissionCooldown(submissionCooldown),
				ctls.Artisan.Submit)

			artisans.GET("", ctls.Artisan.List)
			// static prefix keeps the slug wildcard from clashing with :id routes
			artisans.GET("/slug/:slug", ctls.Artisan.GetBySlug)

			// moderation surface
			artisans.PUT("/:id/status", middleware.JWTAuth(), moderator, middleware.AuditContext(), ctls.Artisan.UpdateStatus)
			artisans.DELETE("/:id", middleware.JWTAuth(), moderator, ctls.Artisan.Delete)

			// batch import is operator-only
			artisans.POST("/import", middleware.JWTAuth(), moderator, middleware.AuditContext(), ctls.Artisan.Import)

			// reviews hang off the artisan resource
			artisans.POST("/:id/reviews", middleware.JWTAuth(), middleware.AuditContext(), ctls.Review.Create)
			artisans.GET("/:id/reviews", ctls.Review.ListForArtisan)
		}

		// taxonomy listings for form autocomplete
		api.GET("/taxonomy/:kind", ctls.Taxonomy.List)

		// auth
		auth := api.Group("/auth")
		{
			auth.POST("/login", ctls.Auth.Login)
			auth.POST("/refresh", ctls.Auth.RefreshToken)
			auth.GET("/profile", middleware.JWTAuth(), ctls.Auth.GetProfile)
		}

		// operator accounts
		api.POST("/users", middleware.JWTAuth(), middleware.RequireRole(string(model.UserRoleAdmin)), ctls.Auth.CreateUser)

		// photo upload feeds the submission form
		api.POST("/photos", middleware.JWTAuth(), ctls.Photo.Upload)
	}
}

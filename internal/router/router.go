package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/handler"
	"github.com/librekpi/backend/internal/middleware"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Major     *handler.MajorHandler
	Course    *handler.CourseHandler
	Lecture   *handler.LectureHandler
	Teacher   *handler.TeacherHandler
	Feedback  *handler.FeedbackHandler
	UserAdmin *handler.UserAdminHandler
	WS        *handler.WSHandler
	System    *handler.SystemHandler
}

// catalogCacheSeconds is the Cache-Control max-age for public catalog
// reads. Short on purpose: Redis does the heavy lifting server-side,
// the browser cache only absorbs rapid-fire navigation.
const catalogCacheSeconds = 60

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestID())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check, incl. dependency pings. Load balancers hit this.
	router.GET("/health", handlers.System.Health)

	// Per-IP budgets. Auth endpoints get the tight budget since they are
	// the brute-force target; feedback writes get a looser one.
	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRatePerMinute, time.Minute)
	feedbackLimiter := middleware.NewIPRateLimiter(cfg.FeedbackRatePerMinute, time.Minute)

	// ─── 1. Public Catalog (No Auth, Browser-Cacheable) ────────────────
	catalog := router.Group("/api/v1")
	catalog.Use(middleware.CacheControl(catalogCacheSeconds))
	{
		catalog.GET("/majors", handlers.Major.GetAllMajors)
		catalog.GET("/majors/:id", handlers.Major.GetMajor)
		catalog.GET("/majors/:id/courses", handlers.Major.ListCourses)

		catalog.GET("/courses", handlers.Course.ListCourses)
		catalog.GET("/courses/:id", handlers.Course.GetCourse)
		catalog.GET("/courses/:id/lectures", handlers.Lecture.ListByCourse)
		catalog.GET("/courses/:id/ratings", handlers.Feedback.GetCourseRatings)
		catalog.GET("/lectures/:id", handlers.Lecture.GetLecture)

		catalog.GET("/teachers", handlers.Teacher.ListTeachers)
		catalog.GET("/teachers/:id", handlers.Teacher.GetTeacher)
		catalog.GET("/teachers/:id/courses", handlers.Teacher.ListTeacherCourses)
		catalog.GET("/teachers/:id/ratings", handlers.Feedback.GetTeacherRatings)
	}

	// Comment listing is public but claims-aware: moderators can ask for
	// hidden comments, so the response must not be browser-cached.
	router.GET("/api/v1/courses/:id/comments",
		middleware.NoStore(),
		middleware.OptionalAuth(authService),
		handlers.Feedback.ListComments,
	)

	// ─── 2. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/social/:provider/login", handlers.Auth.SocialLogin)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// ─── 3. Profile Group (JWT + Single Device) ────────────────────────
	me := router.Group("/api/v1/me")
	me.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		me.GET("", handlers.Auth.Me)
		me.PATCH("", handlers.Auth.UpdateProfile)
		me.POST("/password", handlers.Auth.ChangePassword)
	}

	// ─── 4. Feedback Group (JWT + Single Device, Rate Limited) ─────────
	feedback := router.Group("/api/v1")
	feedback.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
		feedbackLimiter.Middleware(),
	)
	{
		feedback.PUT("/courses/:id/rating", handlers.Feedback.RateCourse)
		feedback.GET("/courses/:id/rating", handlers.Feedback.GetMyCourseRating)
		feedback.PUT("/teachers/:id/rating", handlers.Feedback.RateTeacher)
		feedback.GET("/teachers/:id/rating", handlers.Feedback.GetMyTeacherRating)

		feedback.POST("/courses/:id/comments", handlers.Feedback.CreateComment)
		feedback.DELETE("/comments/:id", handlers.Feedback.DeleteComment)
	}

	// ─── 5. Moderation Group (JWT + RBAC) ──────────────────────────────
	moderation := router.Group("/api/v1/moderation")
	moderation.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
		middleware.RequirePermission(model.PermFeedbackModerate),
	)
	{
		moderation.POST("/comments/:id/hide", handlers.Feedback.HideComment)
		moderation.POST("/comments/:id/unhide", handlers.Feedback.UnhideComment)
	}

	// ─── 6. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		ws.GET("/moderation/stream", handlers.WS.ModerationStream)
	}

	// ─── 7. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Catalog management
		catalogWrite := middleware.RequirePermission(model.PermCatalogWrite)

		adminAPI.POST("/majors", catalogWrite, handlers.Major.CreateMajor)
		adminAPI.PATCH("/majors/:id", catalogWrite, handlers.Major.UpdateMajor)
		adminAPI.DELETE("/majors/:id", catalogWrite, handlers.Major.DeleteMajor)

		adminAPI.POST("/courses", catalogWrite, handlers.Course.CreateCourse)
		adminAPI.PATCH("/courses/:id", catalogWrite, handlers.Course.UpdateCourse)
		adminAPI.DELETE("/courses/:id", catalogWrite, handlers.Course.DeleteCourse)

		adminAPI.POST("/courses/:id/lectures", catalogWrite, handlers.Lecture.CreateLecture)
		adminAPI.PATCH("/lectures/:id", catalogWrite, handlers.Lecture.UpdateLecture)
		adminAPI.DELETE("/lectures/:id", catalogWrite, handlers.Lecture.DeleteLecture)

		adminAPI.POST("/teachers", catalogWrite, handlers.Teacher.CreateTeacher)
		adminAPI.PATCH("/teachers/:id", catalogWrite, handlers.Teacher.UpdateTeacher)
		adminAPI.DELETE("/teachers/:id", catalogWrite, handlers.Teacher.DeleteTeacher)

		// Account management
		adminAPI.GET("/users",
			middleware.RequirePermission(model.PermUsersRead),
			handlers.UserAdmin.ListUsers,
		)
		adminAPI.GET("/users/:id",
			middleware.RequirePermission(model.PermUsersRead),
			handlers.UserAdmin.GetUser,
		)
		adminAPI.PUT("/users/:id/role",
			middleware.RequirePermission(model.PermUsersWrite),
			handlers.UserAdmin.ChangeRole,
		)
		adminAPI.POST("/users/:id/reset-session",
			middleware.RequirePermission(model.PermUsersResetSes),
			handlers.UserAdmin.ResetSession,
		)
		adminAPI.DELETE("/users/:id",
			middleware.RequirePermission(model.PermUsersWrite),
			handlers.UserAdmin.DeleteUser,
		)

		// System monitoring
		adminAPI.GET("/system/metrics",
			middleware.RequirePermission(model.PermSystemMonitor),
			handlers.System.MetricsStream,
		)
	}

	return router
}

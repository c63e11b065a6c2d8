package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/kodekamper/api/internal/handlers"
	"github.com/kodekamper/api/internal/middleware"
)

// SetupRoutes mounts the /api/v1 resource routers.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health (cached for 10s)
	api.Get("/health", middleware.CacheResponse(10*time.Second), handlers.GetHealth)

	// Auth. Credential endpoints sit behind a stricter rate limit.
	authLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 15 * time.Minute,
	})
	auth := api.Group("/auth")
	auth.Post("/register", authLimiter, handlers.Register)
	auth.Post("/login", authLimiter, handlers.Login)
	auth.Get("/logout", handlers.Logout)
	auth.Get("/me", middleware.Protect, handlers.GetMe)
	auth.Put("/updatedetails", middleware.Protect, handlers.UpdateDetails)
	auth.Put("/updatepassword", middleware.Protect, handlers.UpdatePassword)
	auth.Post("/forgotpassword", authLimiter, handlers.ForgotPassword)
	auth.Put("/resetpassword/:resettoken", authLimiter, handlers.ResetPassword)

	// Bootcamps
	bootcamps := api.Group("/bootcamps")
	bootcamps.Get("/radius/:zipcode/:distance", handlers.GetBootcampsInRadius)
	bootcamps.Put("/:id/photo",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.UploadBootcampPhoto)
	bootcamps.Get("/", handlers.GetBootcamps)
	bootcamps.Post("/",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.CreateBootcamp)
	bootcamps.Get("/:id", handlers.GetBootcamp)
	bootcamps.Put("/:id",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.UpdateBootcamp)
	bootcamps.Delete("/:id",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.DeleteBootcamp)

	// Courses nested under a bootcamp
	bootcamps.Get("/:bootcampId/courses", handlers.GetCourses)
	bootcamps.Post("/:bootcampId/courses",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.CreateCourse)

	// Reviews nested under a bootcamp
	bootcamps.Get("/:bootcampId/reviews", handlers.GetReviews)
	bootcamps.Post("/:bootcampId/reviews",
		middleware.Protect, middleware.Authorize("user", "admin"), handlers.CreateReview)

	// Courses
	courses := api.Group("/courses")
	courses.Get("/", handlers.GetCourses)
	courses.Get("/:id", handlers.GetCourse)
	courses.Put("/:id",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.UpdateCourse)
	courses.Delete("/:id",
		middleware.Protect, middleware.Authorize("publisher", "admin"), handlers.DeleteCourse)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.Get("/", handlers.GetReviews)
	reviews.Get("/:id", handlers.GetReview)
	reviews.Put("/:id",
		middleware.Protect, middleware.Authorize("user", "admin"), handlers.UpdateReview)
	reviews.Delete("/:id",
		middleware.Protect, middleware.Authorize("user", "admin"), handlers.DeleteReview)

	// Users (admin only)
	users := api.Group("/users", middleware.Protect, middleware.Authorize("admin"))
	users.Get("/", handlers.GetUsers)
	users.Post("/", handlers.CreateUser)
	users.Get("/:id", handlers.GetUser)
	users.Put("/:id", handlers.UpdateUser)
	users.Delete("/:id", handlers.DeleteUser)

	// Demo mode: anonymous, session-cookie scoped.
	demo := api.Group("/demo")
	demo.Get("/session", handlers.GetDemoSession)
	demo.Post("/session", handlers.GetDemoSession)
	demo.Delete("/reset", middleware.RequireDemoSession, handlers.ResetDemoSession)

	demoData := demo.Group("/", middleware.RequireDemoSession)
	demoData.Get("/bootcamps", handlers.GetDemoBootcamps)
	demoData.Post("/bootcamps", handlers.CreateDemoBootcamp)
	demoData.Get("/bootcamps/:id", handlers.GetDemoBootcamp)
	demoData.Put("/bootcamps/:id", handlers.UpdateDemoBootcamp)
	demoData.Delete("/bootcamps/:id", handlers.DeleteDemoBootcamp)

	demoData.Get("/bootcamps/:bootcampId/courses", handlers.GetDemoCourses)
	demoData.Post("/bootcamps/:bootcampId/courses", handlers.CreateDemoCourse)
	demoData.Get("/courses", handlers.GetDemoCourses)
	demoData.Get("/courses/:id", handlers.GetDemoCourse)
	demoData.Put("/courses/:id", handlers.UpdateDemoCourse)
	demoData.Delete("/courses/:id", handlers.DeleteDemoCourse)

	demoData.Get("/bootcamps/:bootcampId/reviews", handlers.GetDemoReviews)
	demoData.Post("/bootcamps/:bootcampId/reviews", handlers.CreateDemoReview)
	demoData.Get("/reviews", handlers.GetDemoReviews)
	demoData.Get("/reviews/:id", handlers.GetDemoReview)
	demoData.Put("/reviews/:id", handlers.UpdateDemoReview)
	demoData.Delete("/reviews/:id", handlers.DeleteDemoReview)
}

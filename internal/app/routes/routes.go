package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/kaan/counseldesk/internal/app/controllers"
	"github.com/kaan/counseldesk/internal/app/models"
	"github.com/kaan/counseldesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	pagesController *controllers.PagesController,
	authController *controllers.AuthController,
	notesController *controllers.NotesController,
	studentsController *controllers.StudentsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public routes ---
	router.GET("/", pagesController.Home)
	router.GET("/health", pagesController.Health)

	// --- Guest-only routes ---
	guest := router.Group("")
	guest.Use(authMiddleware.RequireGuest())
	{
		guest.GET("/login", authController.ShowLogin)
		guest.POST("/login", authController.Login)
		guest.GET("/register", authController.ShowRegister)
		guest.POST("/register", authController.Register)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.GET("/logout", authController.Logout)

		notes := authenticated.Group("/notes")
		{
			// Listing and search are role-scoped inside the service:
			// students only ever see their own notes.
			notes.GET("", notesController.List)
			notes.GET("/search", notesController.Search)

			staff := notes.Group("")
			staff.Use(authMiddleware.RequireRole(models.RoleCounselor, models.RoleAdmin))
			{
				staff.GET("/add", notesController.ShowAdd)
				staff.POST("/add", notesController.Add)
				staff.GET("/edit/:id", notesController.ShowEdit)
				// Plain forms can only POST; the PUT/DELETE verbs are
				// registered as well for clients that speak them.
				staff.POST("/edit/:id", notesController.Update)
				staff.PUT("/edit/:id", notesController.Update)
				staff.POST("/delete/:id", notesController.Delete)
				staff.DELETE("/delete/:id", notesController.Delete)
			}
		}

		students := authenticated.Group("/students")
		students.Use(authMiddleware.RequireRole(models.RoleStudent))
		{
			students.GET("/profile", studentsController.Profile)
			students.POST("/profile", studentsController.UpdateProfile)
			students.PUT("/profile", studentsController.UpdateProfile)
			students.GET("/notes", studentsController.Notes)
			students.GET("/notes/search", studentsController.SearchNotes)
		}
	}

	router.NoRoute(pagesController.NotFound)
}

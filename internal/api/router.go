package api

import (
	"library_system/internal/authz"      // Role policy table
	"library_system/internal/config"     // Application configuration
	"library_system/internal/middleware" // Identity, authorization, timeout

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// NewRouter wires every route with its middleware chain. Register and
// login are the only routes exempt from identity resolution; everything
// else passes through JWT resolution and the policy check before its
// handler runs.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance with logger and recovery
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Auth routes (no token required)
	r.POST("/register", RegisterHandler(db))
	r.POST("/login", LoginHandler(db, cfg.JWTSecret))

	// Everything below requires a resolved identity
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(db, cfg.JWTSecret))

	// Users (admin only)
	auth.GET("/users", middleware.Authorize(authz.Users, authz.List), ListUsersHandler(db))
	auth.GET("/users/:id", middleware.Authorize(authz.Users, authz.Show), GetUserHandler(db))
	auth.PATCH("/users/:id", middleware.Authorize(authz.Users, authz.Update), UpdateUserHandler(db))
	auth.DELETE("/users/:id", middleware.Authorize(authz.Users, authz.Destroy), DeleteUserHandler(db))

	// Books (read for any identity, mutation admin only)
	auth.GET("/books", middleware.Authorize(authz.Books, authz.List), ListBooksHandler(db))
	auth.GET("/books/:id", middleware.Authorize(authz.Books, authz.Show), GetBookHandler(db))
	auth.POST("/books", middleware.Authorize(authz.Books, authz.Create), CreateBookHandler(db))
	auth.PATCH("/books/:id", middleware.Authorize(authz.Books, authz.Update), UpdateBookHandler(db))
	auth.DELETE("/books/:id", middleware.Authorize(authz.Books, authz.Destroy), DeleteBookHandler(db))

	// Categories (admin only)
	auth.GET("/categories", middleware.Authorize(authz.Categories, authz.List), ListCategoriesHandler(db))
	auth.GET("/categories/:id", middleware.Authorize(authz.Categories, authz.Show), GetCategoryHandler(db))
	auth.POST("/categories", middleware.Authorize(authz.Categories, authz.Create), CreateCategoryHandler(db))
	auth.PATCH("/categories/:id", middleware.Authorize(authz.Categories, authz.Update), UpdateCategoryHandler(db))
	auth.DELETE("/categories/:id", middleware.Authorize(authz.Categories, authz.Destroy), DeleteCategoryHandler(db))

	// Borrowings (create member only, everything else admin only)
	auth.GET("/borrowings", middleware.Authorize(authz.Borrowings, authz.List), ListBorrowingsHandler(db))
	auth.GET("/borrowings/:id", middleware.Authorize(authz.Borrowings, authz.Show), GetBorrowingHandler(db))
	auth.POST("/borrowings", middleware.Authorize(authz.Borrowings, authz.Create), CreateBorrowingHandler(db))
	auth.PATCH("/borrowings/:id", middleware.Authorize(authz.Borrowings, authz.Update), UpdateBorrowingHandler(db))
	auth.DELETE("/borrowings/:id", middleware.Authorize(authz.Borrowings, authz.Destroy), DeleteBorrowingHandler(db))

	// Reviews (mixed policy, see the authz table)
	auth.GET("/reviews", middleware.Authorize(authz.Reviews, authz.List), ListReviewsHandler(db))
	auth.GET("/reviews/:id", middleware.Authorize(authz.Reviews, authz.Show), GetReviewHandler(db))
	auth.POST("/reviews", middleware.Authorize(authz.Reviews, authz.Create), CreateReviewHandler(db))
	auth.PATCH("/reviews/:id", middleware.Authorize(authz.Reviews, authz.Update), UpdateReviewHandler(db))
	auth.DELETE("/reviews/:id", middleware.Authorize(authz.Reviews, authz.Destroy), DeleteReviewHandler(db))

	return r
}

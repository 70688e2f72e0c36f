// File: internal/router/router.go
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"library-api/internal/cache"
	"library-api/internal/database"
	"library-api/internal/handler"
	"library-api/internal/handler/auth"
	"library-api/internal/handler/books"
	"library-api/internal/handler/categories"
	"library-api/internal/handler/loans"
	"library-api/internal/handler/users"
	"library-api/internal/middleware"
)

// CatalogService 書籍與分類共用同一個 service
type CatalogService interface {
	books.Service
	categories.Service
}

// Deps 路由需要的所有依賴
type Deps struct {
	DB        database.DB
	Cache     cache.Cache
	Auth      *middleware.Auth
	Accounts  auth.Service
	Catalog   CatalogService
	Loans     loans.Service
	Users     users.Service
	AccessTTL time.Duration
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	authed, admin := d.Auth.Authenticated, d.Auth.Admin

	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(d.Accounts))
	apiAuth.POST("/login", auth.LoginHandler(d.Accounts))
	apiAuth.POST("/refresh", auth.RefreshHandler(d.Accounts, d.AccessTTL))
	apiAuth.POST("/logout", authed(auth.LogoutHandler(d.Accounts)))
	apiAuth.POST("/change-password", authed(auth.ChangePasswordHandler(d.Accounts)))

	// 書籍：查詢公開，異動限管理員；/search 需排在 /:id 前
	apiBooks := api.Group("/books")
	apiBooks.GET("", books.ListBooksHandler(d.Catalog))
	apiBooks.GET("/search", books.SearchBooksHandler(d.Catalog))
	apiBooks.GET("/:id", books.GetBookHandler(d.Catalog))
	apiBooks.POST("", admin(books.CreateBookHandler(d.Catalog)))
	apiBooks.PUT("/:id", admin(books.UpdateBookHandler(d.Catalog)))
	apiBooks.DELETE("/:id", admin(books.DeleteBookHandler(d.Catalog)))

	apiCategories := api.Group("/categories")
	apiCategories.GET("", categories.ListCategoriesHandler(d.Catalog))
	apiCategories.GET("/:id", categories.GetCategoryHandler(d.Catalog))
	apiCategories.GET("/:id/books", categories.ListCategoryBooksHandler(d.Catalog))
	apiCategories.POST("", admin(categories.CreateCategoryHandler(d.Catalog)))
	apiCategories.PUT("/:id", admin(categories.UpdateCategoryHandler(d.Catalog)))
	apiCategories.DELETE("/:id", admin(categories.DeleteCategoryHandler(d.Catalog)))

	apiLoans := api.Group("/loans")
	apiLoans.POST("", authed(loans.CreateLoanHandler(d.Loans)))
	apiLoans.GET("", admin(loans.ListLoansHandler(d.Loans)))
	apiLoans.GET("/active", authed(loans.ListActiveLoansHandler(d.Loans)))
	apiLoans.GET("/history", authed(loans.ListLoanHistoryHandler(d.Loans)))
	apiLoans.GET("/overdue", admin(loans.ListOverdueLoansHandler(d.Loans)))
	apiLoans.GET("/:id", authed(loans.GetLoanHandler(d.Loans)))
	apiLoans.PATCH("/:id/return", authed(loans.ReturnLoanHandler(d.Loans)))

	apiUsers := api.Group("/users")
	apiUsers.GET("/profile", authed(users.GetProfileHandler()))
	apiUsers.PUT("/profile", authed(users.UpdateProfileHandler(d.Users)))
	apiUsers.GET("", admin(users.ListUsersHandler(d.Users)))
	apiUsers.GET("/:id", admin(users.GetUserHandler(d.Users)))
	apiUsers.PUT("/:id/role", admin(users.UpdateRoleHandler(d.Users)))
	apiUsers.PUT("/:id/status", admin(users.UpdateStatusHandler(d.Users)))
	apiUsers.DELETE("/:id", admin(users.DeleteUserHandler(d.Users)))
}

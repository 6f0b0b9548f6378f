package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-umkm-inventory/internal/handler"
	"go-umkm-inventory/internal/middleware"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/internal/service"
	"go-umkm-inventory/internal/ws"
	"go-umkm-inventory/pkg/database"
	"go-umkm-inventory/pkg/logger"
	"go-umkm-inventory/pkg/mailer"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	log := logger.Get()
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using environment")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.StockIn{},
		&model.StockOut{},
		&model.StockAlert{},
		&model.PasswordResetToken{},
	); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	orgRepo := repository.NewOrganizationRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	stockInRepo := repository.NewStockInRepo(db)
	stockOutRepo := repository.NewStockOutRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	resetRepo := repository.NewPasswordResetRepo(db)

	// Services
	mail := mailer.NewSMTPMailer(log)
	dispatcher := service.NewNotifier(userRepo, orgRepo, mail, wsHub, log)
	alertService := service.NewAlertService(alertRepo, productRepo, dispatcher, log)
	authService := service.NewAuthService(userRepo, resetRepo, mail, log)
	orgService := service.NewOrganizationService(db, orgRepo, userRepo)
	staffService := service.NewStaffService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo)
	supplierService := service.NewSupplierService(supplierRepo, stockInRepo)
	productService := service.NewProductService(productRepo, categoryRepo, stockInRepo, stockOutRepo, alertService, dispatcher)
	ledgerService := service.NewLedgerService(db, productRepo, supplierRepo, stockInRepo, stockOutRepo, alertService, dispatcher, log)
	reportService := service.NewReportService(productRepo, stockInRepo, stockOutRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	staffHandler := handler.NewStaffHandler(staffService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(ledgerService)
	notificationHandler := handler.NewNotificationHandler(alertService)
	reportHandler := handler.NewReportHandler(reportService)

	app := fiber.New(fiber.Config{
		AppName: "UMKM Inventory API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/forgot-password", authHandler.ForgotPassword)
	authRoutes.Post("/reset-password", authHandler.ResetPassword)

	// All routes below require authentication.
	protected := api.Group("", middleware.RequireAuth(userRepo))
	protected.Get("/auth/me", authHandler.Me)

	// Organization and staff management is admin-only.
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	protected.Post("/organization", adminOnly, orgHandler.Create)
	protected.Get("/organization", adminOnly, orgHandler.Get)
	protected.Put("/organization", adminOnly, orgHandler.Update)

	protected.Get("/staff", adminOnly, staffHandler.List)
	protected.Post("/staff", adminOnly, staffHandler.Create)
	protected.Get("/staff/:id", adminOnly, staffHandler.Get)
	protected.Put("/staff/:id", adminOnly, staffHandler.Update)
	protected.Delete("/staff/:id", adminOnly, staffHandler.Delete)

	// Catalog, ledger, notifications, and reports are open to admin and staff.
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	protected.Get("/categories", anyRole, categoryHandler.List)
	protected.Post("/categories", anyRole, categoryHandler.Create)
	protected.Get("/categories/:id", anyRole, categoryHandler.Get)
	protected.Put("/categories/:id", anyRole, categoryHandler.Update)
	protected.Delete("/categories/:id", anyRole, categoryHandler.Delete)

	protected.Get("/suppliers", anyRole, supplierHandler.List)
	protected.Post("/suppliers", anyRole, supplierHandler.Create)
	protected.Get("/suppliers/:id", anyRole, supplierHandler.Get)
	protected.Put("/suppliers/:id", anyRole, supplierHandler.Update)
	protected.Delete("/suppliers/:id", anyRole, supplierHandler.Delete)

	protected.Get("/products", anyRole, productHandler.List)
	protected.Post("/products", anyRole, productHandler.Create)
	protected.Get("/products/:id", anyRole, productHandler.Get)
	protected.Put("/products/:id", anyRole, productHandler.Update)
	protected.Delete("/products/:id", anyRole, productHandler.Delete)

	protected.Get("/stock-in", anyRole, stockHandler.ListStockIn)
	protected.Post("/stock-in", anyRole, stockHandler.CreateStockIn)
	protected.Get("/stock-in/:id", anyRole, stockHandler.GetStockIn)
	protected.Delete("/stock-in/:id", anyRole, stockHandler.DeleteStockIn)

	protected.Get("/stock-out", anyRole, stockHandler.ListStockOut)
	protected.Post("/stock-out", anyRole, stockHandler.CreateStockOut)
	protected.Get("/stock-out/:id", anyRole, stockHandler.GetStockOut)
	protected.Delete("/stock-out/:id", anyRole, stockHandler.DeleteStockOut)

	protected.Get("/notifications", anyRole, notificationHandler.List)
	protected.Get("/notifications/unread", anyRole, notificationHandler.ListUnread)
	protected.Put("/notifications/read-all", anyRole, notificationHandler.MarkAllRead)
	protected.Put("/notifications/:id/read", anyRole, notificationHandler.MarkRead)
	protected.Delete("/notifications/:id", anyRole, notificationHandler.Delete)

	protected.Get("/reports/stock-in", anyRole, reportHandler.StockIn)
	protected.Get("/reports/stock-out", anyRole, reportHandler.StockOut)
	protected.Get("/reports/stock-summary", anyRole, reportHandler.StockSummary)
	protected.Get("/reports/export/stock-in", anyRole, reportHandler.ExportStockIn)
	protected.Get("/reports/export/stock-out", anyRole, reportHandler.ExportStockOut)

	// Live feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

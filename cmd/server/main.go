package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/internal/bootstrap"
	"github.com/atlaserp/backend/internal/infrastructure/database"
	"github.com/atlaserp/backend/internal/interfaces/middleware"
	"github.com/atlaserp/backend/internal/interfaces/rest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	// Initialize database connection
	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection established")

	if err := bootstrap.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Initialize service manager
	svcMgr := services.NewServiceManager(db, services.NewOpenAIClient())
	log.Println("🔧 Service manager initialized")

	// Seed the admin account
	if err := bootstrap.InitializeSystemData(svcMgr.Auth); err != nil {
		log.Fatalf("Failed to initialize system data: %v", err)
	}

	router := gin.Default()
	router.Use(middleware.Cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"server": "golang",
		})
	})

	// Initialize handlers
	authHandler := rest.NewAuthHandler(svcMgr.Auth)
	contactHandler := rest.NewContactHandler(svcMgr.Contacts)
	invoiceHandler := rest.NewInvoiceHandler(svcMgr.Invoices, svcMgr.Pricing)
	accountingHandler := rest.NewAccountingHandler(svcMgr.Accounting)
	inventoryHandler := rest.NewInventoryHandler(svcMgr.Inventory)
	purchaseHandler := rest.NewOrderHandler(svcMgr.Purchasing)
	salesHandler := rest.NewOrderHandler(svcMgr.Sales)
	subscriptionHandler := rest.NewSubscriptionHandler(svcMgr.Subscriptions)
	employeeHandler := rest.NewEmployeeHandler(svcMgr.Employees)
	productionHandler := rest.NewProductionHandler(svcMgr.Production)
	projectHandler := rest.NewProjectHandler(svcMgr.Projects)
	agentHandler := rest.NewAgentHandler(svcMgr.Agents)
	analyticsHandler := rest.NewAnalyticsHandler(svcMgr.Analytics)

	// Initialize middleware
	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireAdmin()

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/change-password", requireAuth, authHandler.ChangePassword)

			auth.GET("/users", requireAuth, authHandler.GetUsers)
			auth.GET("/users/:id", requireAuth, authHandler.GetUser)
			auth.POST("/users", requireAuth, requireAdmin, authHandler.CreateUser)
			auth.PUT("/users/:id", requireAuth, requireAdmin, authHandler.UpdateUser)
			auth.DELETE("/users/:id", requireAuth, requireAdmin, authHandler.DeleteUser)
		}

		// Companies and contacts
		companies := api.Group("/companies")
		companies.Use(requireAuth)
		{
			companies.POST("", contactHandler.CreateCompany)
			companies.GET("", contactHandler.GetCompanies)
			companies.GET("/:id", contactHandler.GetCompany)
			companies.PATCH("/:id", contactHandler.UpdateCompany)
			companies.DELETE("/:id", contactHandler.DeleteCompany)
		}

		contacts := api.Group("/contacts")
		contacts.Use(requireAuth)
		{
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("", contactHandler.GetContacts)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PATCH("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
			contacts.POST("/:id/activities", contactHandler.RecordActivity)
			contacts.GET("/:id/activities", contactHandler.GetActivities)
			contacts.GET("/:id/engagement", contactHandler.GetEngagement)
			contacts.GET("/:id/churn", contactHandler.GetChurnRisk)
		}

		// Invoicing
		invoices := api.Group("/invoices")
		invoices.Use(requireAuth)
		{
			invoices.POST("", invoiceHandler.CreateInvoice)
			invoices.GET("", invoiceHandler.GetInvoices)
			invoices.GET("/analytics", invoiceHandler.GetAnalytics)

			invoices.POST("/templates", invoiceHandler.CreateTemplate)
			invoices.GET("/templates", invoiceHandler.GetTemplates)
			invoices.PUT("/templates/:id/active", invoiceHandler.SetTemplateActive)

			invoices.POST("/pricing-rules", invoiceHandler.CreatePricingRule)
			invoices.GET("/pricing-rules", invoiceHandler.GetPricingRules)
			invoices.DELETE("/pricing-rules/:id", invoiceHandler.DeletePricingRule)

			invoices.GET("/:id", invoiceHandler.GetInvoice)
			invoices.POST("/:id/status", invoiceHandler.UpdateStatus)
			invoices.DELETE("/:id", invoiceHandler.DeleteInvoice)
		}

		creditNotes := api.Group("/credit-notes")
		creditNotes.Use(requireAuth)
		{
			creditNotes.POST("", invoiceHandler.CreateCreditNote)
			creditNotes.GET("/:id", invoiceHandler.GetCreditNote)
		}

		// Accounting
		accounting := api.Group("/accounting")
		accounting.Use(requireAuth)
		{
			accounting.POST("/journal-entries", accountingHandler.CreateJournalEntry)
			accounting.GET("/journal-entries", accountingHandler.GetJournalEntries)
			accounting.GET("/journal-entries/:id", accountingHandler.GetJournalEntry)
			accounting.POST("/bank-transactions", accountingHandler.ImportBankTransactions)
			accounting.POST("/reconcile", accountingHandler.Reconcile)
			accounting.POST("/risk-review", accountingHandler.RiskReview)
		}

		// Inventory
		inventory := api.Group("/inventory")
		inventory.Use(requireAuth)
		{
			inventory.POST("/products", inventoryHandler.CreateProduct)
			inventory.GET("/products", inventoryHandler.GetProducts)
			inventory.GET("/products/:id", inventoryHandler.GetProduct)
			inventory.PATCH("/products/:id", inventoryHandler.UpdateProduct)
			inventory.DELETE("/products/:id", inventoryHandler.DeleteProduct)
			inventory.PUT("/products/:id/stock", inventoryHandler.SetStock)
			inventory.POST("/products/:id/adjust", inventoryHandler.AdjustStock)
			inventory.GET("/products/:id/stock", inventoryHandler.GetStockLevels)
			inventory.GET("/abc", inventoryHandler.GetABCAnalysis)
			inventory.GET("/reorder", inventoryHandler.GetReorderAdvice)
			inventory.GET("/low-stock", inventoryHandler.GetLowStock)
		}

		// Purchasing and sales
		purchaseOrders := api.Group("/purchase-orders")
		purchaseOrders.Use(requireAuth)
		{
			purchaseOrders.POST("", purchaseHandler.Create)
			purchaseOrders.GET("", purchaseHandler.List)
			purchaseOrders.GET("/:id", purchaseHandler.Get)
			purchaseOrders.POST("/:id/status", purchaseHandler.UpdateStatus)
			purchaseOrders.DELETE("/:id", purchaseHandler.Delete)
		}

		salesOrders := api.Group("/sales-orders")
		salesOrders.Use(requireAuth)
		{
			salesOrders.POST("", salesHandler.Create)
			salesOrders.GET("", salesHandler.List)
			salesOrders.GET("/:id", salesHandler.Get)
			salesOrders.POST("/:id/status", salesHandler.UpdateStatus)
			salesOrders.DELETE("/:id", salesHandler.Delete)
		}

		// Subscriptions
		subscriptions := api.Group("/subscriptions")
		subscriptions.Use(requireAuth)
		{
			subscriptions.POST("", subscriptionHandler.Create)
			subscriptions.GET("", subscriptionHandler.List)
			subscriptions.GET("/metrics", subscriptionHandler.GetMetrics)
			subscriptions.GET("/:id", subscriptionHandler.Get)
			subscriptions.POST("/:id/pause", subscriptionHandler.Pause)
			subscriptions.POST("/:id/resume", subscriptionHandler.Resume)
			subscriptions.POST("/:id/cancel", subscriptionHandler.Cancel)
		}

		// HR
		employees := api.Group("/employees")
		employees.Use(requireAuth)
		{
			employees.POST("", employeeHandler.Hire)
			employees.GET("", employeeHandler.List)
			employees.GET("/headcount", employeeHandler.GetHeadcount)
			employees.GET("/:id", employeeHandler.Get)
			employees.PATCH("/:id", employeeHandler.Update)
			employees.POST("/:id/terminate", employeeHandler.Terminate)
			employees.DELETE("/:id", requireAdmin, employeeHandler.Delete)
		}

		// Manufacturing
		production := api.Group("/production-orders")
		production.Use(requireAuth)
		{
			production.POST("", productionHandler.Create)
			production.GET("", productionHandler.List)
			production.GET("/:id", productionHandler.Get)
			production.POST("/:id/status", productionHandler.UpdateStatus)
			production.DELETE("/:id", productionHandler.Delete)
		}

		// Projects
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.Create)
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.PATCH("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/tasks", projectHandler.AddTask)
			projects.GET("/:id/tasks", projectHandler.GetTasks)
			projects.GET("/:id/progress", projectHandler.GetProgress)
			projects.POST("/tasks/:taskId/status", projectHandler.SetTaskStatus)
		}

		// Agents
		agents := api.Group("/agents")
		agents.Use(requireAuth)
		{
			agents.GET("", agentHandler.List)
			agents.POST("/:name", agentHandler.Invoke)
		}

		// Admin analytics (raw SQL, SELECT only)
		analytics := api.Group("/analytics")
		analytics.Use(requireAuth, requireAdmin)
		{
			analytics.POST("/query", analyticsHandler.Query)
		}
	}

	// Start background workers
	svcMgr.StartWorkers()
	log.Println("🧾 Recurring invoice worker started (60s polling)")

	log.Println("\n═══════════════════════════════════════════════════════════════════════════")
	log.Println("🚀 AtlasERP Backend Started Successfully")
	log.Println("═══════════════════════════════════════════════════════════════════════════")
	log.Printf("\n📍 Server:         http://localhost:%s", port)
	log.Printf("🔐 Auth API:       http://localhost:%s/api/auth", port)
	log.Printf("🧾 Invoice API:    http://localhost:%s/api/invoices", port)
	log.Printf("🏦 Accounting API: http://localhost:%s/api/accounting", port)
	log.Printf("🤖 Agents API:     http://localhost:%s/api/agents", port)
	log.Printf("💚 Health check:   http://localhost:%s/health\n", port)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	svcMgr.StopWorkers()
	log.Println("🛑 Background workers stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

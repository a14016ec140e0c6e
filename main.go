// @title           Sourcing Ops API
// @version         1.0
// @description     Sourcing Ops Backend API - All endpoints used in the application.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://ops.example.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
	cronLogger *log.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				if cronLogger != nil {
					cronLogger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				}
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("%s failed: %v", name, err)
			}
		} else {
			log.Printf("%s completed successfully", name)
			if cronLogger != nil {
				cronLogger.Printf("%s completed successfully", name)
			}
		}
	}()
}

func main() {
	db := storage.InitDB()
	_ = storage.InitGormDB()

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Nightly maintenance: session cleanup, projection lifecycle, alert refresh + digest.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting nightly maintenance cron job")
		if cronLogger != nil {
			cronLogger.Println("Starting nightly maintenance cron job")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
		defer cancel()

		var wg sync.WaitGroup
		today := time.Now().UTC()

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		}, cronLogger)

		safeGo(ctx, &wg, "ProjectionLifecycle", func(ctx context.Context) error {
			projections := services.NewProjectionService(db)
			expired, err := projections.ExpireStale(ctx, today)
			if err != nil {
				return err
			}
			matched, err := projections.MarkMatched(ctx)
			if err != nil {
				return err
			}
			log.Printf("Projection lifecycle: expired=%d matched=%d", expired, matched)
			return nil
		}, cronLogger)

		safeGo(ctx, &wg, "ComplianceAlerts", func(ctx context.Context) error {
			alerts := services.NewAlertService(db)
			open, err := alerts.Refresh(ctx, today)
			if err != nil {
				return err
			}
			log.Printf("Compliance alerts refreshed: open=%d", open)
			return alerts.SendDigest(ctx, services.NewEmailService(db))
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
			if cronLogger != nil {
				cronLogger.Println("All cron jobs finished")
			}
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule nightly maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/export", "/api/templates"})))

	// ==================== 1. AUTH & SESSIONS ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.GET("/api/validate-session", handlers.ValidateSessionHandler(db))
	r.GET("/api/active-devices", handlers.GetActiveDevicesHandler(db))
	r.POST("/api/logout-device", handlers.LogoutDeviceHandler(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))

	// ==================== 2. ACTIVITY LOGS ====================
	r.GET("/api/logs", handlers.GetActivityLogsHandler(db))

	// ==================== 3. VENDORS & ALIASES ====================
	r.GET("/api/vendors", handlers.GetVendorsHandler(db))
	r.GET("/api/vendors/:id", handlers.GetVendorHandler(db))
	r.POST("/api/vendors", handlers.CreateVendorHandler(db))
	r.PUT("/api/vendors/:id", handlers.UpdateVendorHandler(db))
	r.DELETE("/api/vendors/:id", handlers.DeleteVendorHandler(db))
	r.POST("/api/vendors/:id/aliases", handlers.AddVendorAliasHandler(db))
	r.DELETE("/api/vendors/:id/aliases/:alias_id", handlers.DeleteVendorAliasHandler(db))

	// ==================== 4. CLIENTS ====================
	r.GET("/api/clients", handlers.GetClientsHandler(db))
	r.POST("/api/clients", handlers.CreateClientHandler(db))
	r.PUT("/api/clients/:id", handlers.UpdateClientHandler(db))
	r.DELETE("/api/clients/:id", handlers.DeleteClientHandler(db))

	// ==================== 5. STAFF ====================
	r.GET("/api/staff", handlers.GetStaffHandler(db))
	r.POST("/api/staff", handlers.CreateStaffHandler(db))
	r.PUT("/api/staff/:id", handlers.UpdateStaffHandler(db))
	r.DELETE("/api/staff/:id", handlers.DeleteStaffHandler(db))

	// ==================== 6. PURCHASE ORDERS ====================
	r.GET("/api/purchase-orders", handlers.GetPurchaseOrdersHandler(db))
	r.GET("/api/purchase-orders/:id", handlers.GetPurchaseOrderHandler(db))
	r.POST("/api/purchase-orders", handlers.CreatePurchaseOrderHandler(db))
	r.PUT("/api/purchase-orders/:id", handlers.UpdatePurchaseOrderHandler(db))
	r.DELETE("/api/purchase-orders/:id", handlers.DeletePurchaseOrderHandler(db))
	r.GET("/api/purchase-orders/:id/pdf", handlers.GeneratePOSummaryPDF(db))

	// ==================== 7. SHIPMENTS ====================
	r.GET("/api/shipments", handlers.GetShipmentsHandler(db))
	r.POST("/api/shipments", handlers.CreateShipmentHandler(db))
	r.PUT("/api/shipments/:id", handlers.UpdateShipmentHandler(db))
	r.DELETE("/api/shipments/:id", handlers.DeleteShipmentHandler(db))
	r.GET("/api/otd-summary", handlers.GetOTDSummaryHandler(db))
	r.GET("/api/shipments/:id/qr", handlers.GenerateShipmentQRHandler(db))

	// ==================== 8. INSPECTIONS ====================
	r.GET("/api/inspections", handlers.GetInspectionsHandler(db))
	r.POST("/api/inspections", handlers.CreateInspectionHandler(db))
	r.PUT("/api/inspections/:id", handlers.UpdateInspectionHandler(db))
	r.GET("/api/inspections/summary", handlers.GetInspectionSummaryHandler(db))

	// ==================== 9. QUALITY & COMPLIANCE ====================
	r.GET("/api/quality-tests", handlers.GetQualityTestsHandler(db))
	r.POST("/api/quality-tests", handlers.CreateQualityTestHandler(db))
	r.PUT("/api/quality-tests/:id", handlers.UpdateQualityTestHandler(db))
	r.GET("/api/compliance-alerts", handlers.GetComplianceAlertsHandler(db))
	r.POST("/api/compliance-alerts/refresh", handlers.RefreshComplianceAlertsHandler(db))

	// ==================== 10. CAPACITY ====================
	r.GET("/api/capacity", handlers.GetCapacityAllocationsHandler(db))
	r.POST("/api/capacity", handlers.UpsertCapacityAllocationHandler(db))
	r.DELETE("/api/capacity/:id", handlers.DeleteCapacityAllocationHandler(db))
	r.GET("/api/capacity/report", handlers.GetCapacityReportHandler(db))

	// ==================== 11. PROJECTIONS ====================
	r.GET("/api/projections", handlers.GetProjectionsHandler(db))
	r.GET("/api/projections/accuracy", handlers.GetProjectionAccuracyHandler(db))
	r.GET("/api/projections/drift", handlers.GetProjectionDriftHandler(db))
	r.GET("/api/projections/locks", handlers.GetProjectionLocksHandler(db))
	r.POST("/api/projections/locks", handlers.LockProjectionMonthHandler(db))
	r.DELETE("/api/projections/locks/:id", handlers.UnlockProjectionMonthHandler(db))

	// ==================== 12. IMPORTS ====================
	r.POST("/api/imports/purchase-orders", handlers.ImportPurchaseOrdersHandler(db))
	r.POST("/api/imports/shipments", handlers.ImportShipmentsHandler(db))
	r.POST("/api/imports/inspections", handlers.ImportInspectionsHandler(db))
	r.POST("/api/imports/quality-tests", handlers.ImportQualityTestsHandler(db))
	r.POST("/api/imports/capacity", handlers.ImportCapacityHandler(db))
	r.POST("/api/imports/projections", handlers.ImportProjectionsHandler(db))

	// ==================== 13. EXPORTS & TEMPLATES ====================
	r.GET("/api/templates/purchase-orders", handlers.DownloadPOTemplate)
	r.GET("/api/templates/shipments", handlers.DownloadShipmentTemplate)
	r.GET("/api/templates/inspections", handlers.DownloadInspectionTemplate)
	r.GET("/api/templates/quality-tests", handlers.DownloadQualityTestTemplate)
	r.GET("/api/templates/capacity", handlers.DownloadCapacityTemplate)
	r.GET("/api/templates/projections", handlers.DownloadProjectionTemplate)
	r.GET("/api/export/purchase-orders", handlers.ExportCSVPurchaseOrders)
	r.GET("/api/export/shipments", handlers.ExportCSVShipments)
	r.GET("/api/export/inspections", handlers.ExportCSVInspections)
	r.GET("/api/export/quality-tests", handlers.ExportCSVQualityTests)
	r.GET("/api/export/projections", handlers.ExportCSVProjections)
	r.GET("/api/export/capacity-report", handlers.ExportCSVCapacityReport)

	// ==================== 14. DASHBOARD ====================
	r.GET("/api/dashboard", handlers.GetDashboardHandler(db))
	r.GET("/api/dashboard/trends", handlers.GetDashboardTrendsHandler(db))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cronCtx := c.Stop()
	select {
	case <-cronCtx.Done():
	case <-time.After(20 * time.Second):
		log.Println("Warning: cron jobs did not finish before shutdown deadline")
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}

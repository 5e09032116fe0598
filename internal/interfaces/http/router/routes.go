package router

import (
	"time"

	"github.com/bakery/backend/internal/infrastructure/auth"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"github.com/bakery/backend/internal/interfaces/http/handler"
	"github.com/bakery/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Role shorthands for the gate table
var (
	storeManager      = auth.RoleStoreManager
	inventoryManager  = auth.RoleInventoryManager
	productionManager = auth.RoleProductionManager
	cashier           = auth.RoleCashier
	deliveryStaff     = auth.RoleDeliveryStaff
	adminOnly         = []auth.Role{auth.RoleAdmin}
)

// Per-resource role gates. ADMIN passes every gate; a nil list admits any
// authenticated role.
var (
	CustomerGate = middleware.Gate{
		Read:   []auth.Role{storeManager, cashier},
		Write:  []auth.Role{storeManager},
		Delete: adminOnly,
	}
	ProductGate = middleware.Gate{
		Read:   nil,
		Write:  []auth.Role{storeManager},
		Delete: adminOnly,
	}
	StockGate = middleware.Gate{
		Read:   []auth.Role{storeManager, inventoryManager, productionManager},
		Write:  []auth.Role{storeManager, inventoryManager},
		Delete: adminOnly,
	}
	OrderGate = middleware.Gate{
		Read:   []auth.Role{storeManager, cashier},
		Write:  []auth.Role{storeManager, cashier},
		Delete: adminOnly,
	}
	ProductionGate = middleware.Gate{
		Read:   []auth.Role{storeManager, productionManager},
		Write:  []auth.Role{storeManager, productionManager},
		Delete: []auth.Role{productionManager},
	}
	PurchasingGate = middleware.Gate{
		Read:   []auth.Role{storeManager, inventoryManager},
		Write:  []auth.Role{storeManager, inventoryManager},
		Delete: adminOnly,
	}
	DeliveryGate = middleware.Gate{
		Read:   []auth.Role{storeManager, deliveryStaff},
		Write:  []auth.Role{storeManager, deliveryStaff},
		Delete: adminOnly,
	}
	NotificationGate = middleware.Gate{
		Read:   []auth.Role{storeManager},
		Write:  []auth.Role{storeManager},
		Delete: adminOnly,
	}
	POSGate = middleware.Gate{
		Read:   []auth.Role{storeManager, cashier},
		Write:  []auth.Role{storeManager, cashier},
		Delete: adminOnly,
	}
	ReportGate = middleware.Gate{
		Read:   []auth.Role{storeManager},
		Write:  adminOnly,
		Delete: adminOnly,
	}
)

// Handlers bundles the HTTP handlers mounted by NewEngine
type Handlers struct {
	System        *handler.SystemHandler
	Customer      *handler.CustomerHandler
	Supplier      *handler.SupplierHandler
	Product       *handler.ProductHandler
	Warehouse     *handler.WarehouseHandler
	Inventory     *handler.InventoryHandler
	Order         *handler.OrderHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Recipe        *handler.RecipeHandler
	Production    *handler.ProductionHandler
	Delivery      *handler.DeliveryHandler
	Notification  *handler.NotificationHandler
	POS           *handler.POSHandler
	Report        *handler.ReportHandler
}

// Config carries the engine-level settings
type Config struct {
	ServiceName      string
	Logger           *zap.Logger
	Tokens           middleware.TokenValidator
	CORS             middleware.CORSConfig
	TrustedProxies   []string
	MaxBodySize      int64
	RequestTimeout   time.Duration
	TracingEnabled   bool
	ProfilingEnabled bool
	// Prometheus exposes /metrics when set
	Prometheus *telemetry.PrometheusMetrics
	// Meter records OTel HTTP metrics; nil disables them
	Meter metric.Meter
	// Limiters; nil disables rate limiting for that surface
	APIRateLimit    gin.HandlerFunc
	PublicRateLimit gin.HandlerFunc
	SwaggerEnabled  bool
}

// NewEngine builds the gin engine with the global middleware stack, the
// unauthenticated endpoints and every /api resource behind its role gate.
func NewEngine(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureHeaders())
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(cfg.Prometheus, cfg.Meter))
	engine.Use(middleware.Profiling(cfg.ProfilingEnabled))

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.Prometheus != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Prometheus.Handler()))
	}
	if cfg.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Storefront catalogue, tenant from X-Tenant-ID
	public := engine.Group("/api/public", middleware.PublicTenant())
	if cfg.PublicRateLimit != nil {
		public.Use(cfg.PublicRateLimit)
	}
	public.GET("/products", h.Product.ListPublic)

	apiMiddleware := []gin.HandlerFunc{middleware.JWTAuth(cfg.Tokens, log)}
	if cfg.APIRateLimit != nil {
		apiMiddleware = append(apiMiddleware, cfg.APIRateLimit)
	}
	r := NewRouter(engine, WithMiddleware(apiMiddleware...))

	gate := func(g middleware.Gate) gin.HandlerFunc {
		return middleware.RequireGate(g, log)
	}

	customers := NewDomainGroup("customers", "/customers").Use(gate(CustomerGate))
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.GET("/:id", h.Customer.GetByID)
	customers.PUT("/:id", h.Customer.Update)
	customers.POST("/:id/activate", h.Customer.Activate)
	customers.POST("/:id/deactivate", h.Customer.Deactivate)
	customers.DELETE("/:id", h.Customer.Delete)

	suppliers := NewDomainGroup("suppliers", "/suppliers").Use(gate(PurchasingGate))
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("", h.Supplier.List)
	suppliers.GET("/:id", h.Supplier.GetByID)
	suppliers.PUT("/:id", h.Supplier.Update)
	suppliers.POST("/:id/deactivate", h.Supplier.Deactivate)

	products := NewDomainGroup("products", "/products").Use(gate(ProductGate))
	products.POST("", h.Product.Create)
	products.POST("/import", h.Product.Import)
	products.GET("", h.Product.List)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.PUT("/:id/prices", h.Product.UpdatePrices)
	products.POST("/:id/activate", h.Product.Activate)
	products.POST("/:id/deactivate", h.Product.Deactivate)
	products.DELETE("/:id", h.Product.Delete)

	warehouses := NewDomainGroup("warehouses", "/warehouses").Use(gate(StockGate))
	warehouses.POST("", h.Warehouse.Create)
	warehouses.GET("", h.Warehouse.List)
	warehouses.GET("/:id", h.Warehouse.GetByID)
	warehouses.PUT("/:id", h.Warehouse.Update)

	inventory := NewDomainGroup("inventory", "/inventory").Use(gate(StockGate))
	inventory.POST("", h.Inventory.Create)
	inventory.GET("", h.Inventory.List)
	inventory.GET("/:id", h.Inventory.GetByID)
	inventory.PUT("/:id", h.Inventory.Update)
	inventory.POST("/:id/adjust", h.Inventory.Adjust)
	inventory.POST("/:id/transfer", h.Inventory.Transfer)
	inventory.POST("/:id/reserve", h.Inventory.Reserve)
	inventory.POST("/:id/release", h.Inventory.Release)
	inventory.GET("/:id/transactions", h.Inventory.ListTransactions)

	orders := NewDomainGroup("orders", "/orders").Use(gate(OrderGate))
	orders.POST("", h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id/items", h.Order.UpdateItems)
	orders.PUT("/:id/delivery", h.Order.UpdateDelivery)
	orders.PATCH("/:id/status", h.Order.UpdateStatus)
	orders.PATCH("/:id/payment-status", h.Order.UpdatePaymentStatus)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.DELETE("/:id", h.Order.Delete)

	purchaseOrders := NewDomainGroup("purchase-orders", "/purchase-orders").Use(gate(PurchasingGate))
	purchaseOrders.POST("", h.PurchaseOrder.Create)
	purchaseOrders.GET("", h.PurchaseOrder.List)
	purchaseOrders.GET("/:id", h.PurchaseOrder.GetByID)
	purchaseOrders.PUT("/:id", h.PurchaseOrder.UpdateSchedule)
	purchaseOrders.PUT("/:id/items", h.PurchaseOrder.UpdateItems)
	purchaseOrders.PATCH("/:id/status", h.PurchaseOrder.UpdateStatus)
	purchaseOrders.DELETE("/:id", h.PurchaseOrder.Delete)

	recipes := NewDomainGroup("recipes", "/recipes").Use(gate(ProductionGate))
	recipes.POST("", h.Recipe.Create)
	recipes.GET("", h.Recipe.List)
	recipes.GET("/:id", h.Recipe.GetByID)
	recipes.PUT("/:id", h.Recipe.Update)
	recipes.DELETE("/:id", h.Recipe.Delete)

	productions := NewDomainGroup("productions", "/productions").Use(gate(ProductionGate))
	productions.POST("", h.Production.Create)
	productions.GET("", h.Production.List)
	productions.GET("/:id", h.Production.GetByID)
	productions.PUT("/:id", h.Production.Update)
	productions.POST("/:id/start", h.Production.Start)
	productions.POST("/:id/hold", h.Production.Hold)
	productions.POST("/:id/cancel", h.Production.Cancel)
	productions.POST("/:id/complete", h.Production.Complete)
	productions.DELETE("/:id", h.Production.Delete)

	deliveries := NewDomainGroup("deliveries", "/deliveries").Use(gate(DeliveryGate))
	deliveries.POST("", h.Delivery.Create)
	deliveries.GET("", h.Delivery.List)
	deliveries.GET("/:id", h.Delivery.GetByID)
	deliveries.PUT("/:id", h.Delivery.Update)
	deliveries.PATCH("/:id/status", h.Delivery.UpdateStatus)
	deliveries.DELETE("/:id", h.Delivery.Delete)

	notifications := NewDomainGroup("notifications", "/notifications").Use(gate(NotificationGate))
	notifications.POST("", h.Notification.Create)
	notifications.GET("", h.Notification.List)
	notifications.GET("/:id", h.Notification.GetByID)
	notifications.POST("/:id/sent", h.Notification.MarkSent)
	notifications.POST("/:id/failed", h.Notification.MarkFailed)
	notifications.DELETE("/:id", h.Notification.Delete)

	pos := NewDomainGroup("pos", "/pos").Use(gate(POSGate))
	pos.POST("/sessions", h.POS.OpenSession)
	pos.GET("/sessions", h.POS.ListSessions)
	pos.GET("/sessions/:id", h.POS.GetSession)
	pos.POST("/sessions/:id/close", h.POS.CloseSession)
	pos.POST("/checkout", h.POS.Checkout)
	pos.GET("/orders", h.POS.ListOrders)
	pos.GET("/orders/:id", h.POS.GetOrder)
	pos.POST("/orders/:id/void", h.POS.VoidOrder)
	pos.GET("/orders/:id/receipt", h.POS.GetReceipt)

	reports := NewDomainGroup("reports", "/reports").Use(gate(ReportGate))
	reports.GET("/summary", h.Report.Summary)
	reports.GET("/sales-trend", h.Report.SalesTrend)
	reports.GET("/top-products", h.Report.TopProducts)
	reports.GET("/inventory-valuation", h.Report.InventoryValuation)
	reports.GET("/production-summary", h.Report.ProductionSummary)
	reports.GET("/export", h.Report.Export)

	r.Register(customers).
		Register(suppliers).
		Register(products).
		Register(warehouses).
		Register(inventory).
		Register(orders).
		Register(purchaseOrders).
		Register(recipes).
		Register(productions).
		Register(deliveries).
		Register(notifications).
		Register(pos).
		Register(reports)

	if h.System != nil {
		system := NewDomainGroup("system", "/system")
		system.GET("/info", h.System.GetSystemInfo)
		r.Register(system)
	}

	r.Setup()
	log.Debug("API routes mounted", zap.String("base_path", r.BasePath()), zap.Int("routes", len(r.Routes())))
	return engine
}

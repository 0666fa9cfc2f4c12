// Package server assembles the HTTP API from the domain handlers.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wa-thone-kyaw/ano-backend/internal/auth"
	catH "github.com/wa-thone-kyaw/ano-backend/internal/catalog/handler"
	"github.com/wa-thone-kyaw/ano-backend/internal/httpx"
	invH "github.com/wa-thone-kyaw/ano-backend/internal/inventory/handler"
	"github.com/wa-thone-kyaw/ano-backend/internal/logger"
	"github.com/wa-thone-kyaw/ano-backend/internal/metrics"
	"github.com/wa-thone-kyaw/ano-backend/internal/model"
	orderH "github.com/wa-thone-kyaw/ano-backend/internal/order/handler"
	partnerH "github.com/wa-thone-kyaw/ano-backend/internal/partner/handler"
	prodH "github.com/wa-thone-kyaw/ano-backend/internal/product/handler"
	rawH "github.com/wa-thone-kyaw/ano-backend/internal/rawmaterial/handler"
	roleH "github.com/wa-thone-kyaw/ano-backend/internal/role/handler"
	userH "github.com/wa-thone-kyaw/ano-backend/internal/user/handler"
)

// Resources lists every capability resource guarded by the router. Each has
// a ":read" and a ":write" capability.
var Resources = []string{
	"categories", "colors", "types", "warehouses",
	"products", "prices", "inventory", "orders",
	"customers", "suppliers", "raw-materials", "users", "roles",
}

type Handlers struct {
	Categories  *catH.CatalogHandler[model.Category]
	Colors      *catH.CatalogHandler[model.Color]
	Types       *catH.CatalogHandler[model.Type]
	Warehouses  *catH.CatalogHandler[model.Warehouse]
	Products    *prodH.ProductHandler
	Inventory   *invH.InventoryHandler
	Orders      *orderH.OrderHandler
	Partners    *partnerH.PartnerHandler
	RawMaterial *rawH.RawMaterialHandler
	Users       *userH.UserHandler
	Roles       *roleH.RoleHandler
}

type Options struct {
	Tokens       *auth.TokenManager
	Authorizer   auth.Authorizer
	CORSOrigins  []string
	MaxBodyBytes int64
	// UploadsDir is served under /uploads when photos live on local disk.
	UploadsDir string
	Logger     logger.ZapLogger
}

func NewRouter(h *Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLog(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"x-total-count"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.MaxBodyBytes > 0 {
		r.Use(httpx.LimitBody(opts.MaxBodyBytes))
	}
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())
	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Post("/login", h.Users.Login)
	r.Post("/signup", h.Users.SignUp)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(opts.Tokens))
		require := func(resource string) func(http.Handler) http.Handler {
			return auth.Require(opts.Authorizer, resource, opts.Logger)
		}

		catalogRoutes(r, "/categories", require("categories"), h.Categories)
		catalogRoutes(r, "/colors", require("colors"), h.Colors)
		catalogRoutes(r, "/types", require("types"), h.Types)
		catalogRoutes(r, "/warehouses", require("warehouses"), h.Warehouses)

		r.Group(func(r chi.Router) {
			r.Use(require("products"))
			r.Get("/products", h.Products.List)
			r.Post("/products", h.Products.Create)
			r.Get("/products/all", h.Products.ListAll)
			r.Get("/products/{id}", h.Products.Get)
			r.Put("/products/{id}", h.Products.Update)
			r.Delete("/products/{id}", h.Products.Delete)
			r.Get("/products/{id}/prices", h.Products.ListPrices)
			r.Post("/products/{id}/prices", h.Products.AddPrice)
		})

		r.Route("/prices", func(r chi.Router) {
			r.Use(require("prices"))
			r.Get("/", h.Products.ListAllPrices)
			r.Get("/latest-price/{productId}", h.Products.LatestPrice)
		})

		r.Group(func(r chi.Router) {
			r.Use(require("inventory"))
			r.Post("/products/{id}/stock", h.Inventory.AddStock)
			r.Get("/products/{id}/inventory", h.Inventory.GetProductInventory)
			r.Put("/products/{id}/reorder-level", h.Inventory.SetReorderLevel)
			r.Put("/stock-log/{logId}", h.Inventory.EditStockLog)
			r.Delete("/stock-log/{logId}", h.Inventory.DeleteStockLog)
			r.Get("/stock-details/{productId}", h.Inventory.StockDetails)
			r.Get("/inventory", h.Inventory.ListInventory)
			r.Get("/inventory/low-stock", h.Inventory.ListLowStock)
			r.Get("/inventory/movements", h.Inventory.ListMovements)
			r.Get("/inventory/export", h.Inventory.Export)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(require("orders"))
			r.Get("/", h.Orders.List)
			r.Post("/", h.Orders.Create)
			r.Get("/{id}", h.Orders.Get)
			r.Put("/{id}", h.Orders.Update)
			r.Put("/{id}/status", h.Orders.UpdateStatus)
			r.Delete("/{id}", h.Orders.Delete)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(require("customers"))
			r.Get("/", h.Partners.ListCustomers)
			r.Post("/", h.Partners.CreateCustomer)
			r.Get("/{id}", h.Partners.GetCustomer)
			r.Put("/{id}", h.Partners.UpdateCustomer)
			r.Delete("/{id}", h.Partners.DeleteCustomer)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Use(require("suppliers"))
			r.Get("/", h.Partners.ListSuppliers)
			r.Post("/", h.Partners.CreateSupplier)
			r.Get("/{id}", h.Partners.GetSupplier)
			r.Put("/{id}", h.Partners.UpdateSupplier)
			r.Delete("/{id}", h.Partners.DeleteSupplier)
		})

		r.Route("/raw-materials", func(r chi.Router) {
			r.Use(require("raw-materials"))
			r.Get("/", h.RawMaterial.List)
			r.Post("/", h.RawMaterial.Create)
			r.Get("/{id}", h.RawMaterial.Get)
			r.Put("/{id}", h.RawMaterial.Update)
			r.Delete("/{id}", h.RawMaterial.Delete)
			r.Get("/{id}/movements", h.RawMaterial.ListMovements)
		})

		r.Route("/raw-material-usage", func(r chi.Router) {
			r.Use(require("raw-materials"))
			r.Get("/", h.RawMaterial.ListUsages)
			r.Post("/", h.RawMaterial.RecordUsage)
			r.Put("/{id}", h.RawMaterial.EditUsage)
			r.Delete("/{id}", h.RawMaterial.DeleteUsage)
			r.Get("/usage-details/{rawMaterialId}", h.RawMaterial.UsageDetails)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(require("users"))
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/count", h.Users.Count)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
			r.Put("/{id}/reset-password", h.Users.ResetPassword)
			r.Put("/{id}/change-password", h.Users.ChangePassword)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(require("roles"))
			r.Get("/", h.Roles.ListRoles)
			r.Post("/", h.Roles.CreateRole)
			r.Get("/permissions", h.Roles.ListPermissions)
			r.Post("/permissions", h.Roles.CreatePermission)
			r.Get("/roles-with-permissions", h.Roles.RolesWithPermissions)
			r.Put("/{id}", h.Roles.UpdateRole)
			r.Delete("/{id}", h.Roles.DeleteRole)
			r.Get("/{id}/permissions", h.Roles.RolePermissions)
			r.Post("/{id}/permissions", h.Roles.AssignPermissions)
			r.Delete("/{id}/permissions/{permissionId}", h.Roles.UnassignPermission)
		})
	})

	return r
}

type catalogHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

func catalogRoutes(r chi.Router, prefix string, guard func(http.Handler) http.Handler, h catalogHandler) {
	r.Route(prefix, func(r chi.Router) {
		r.Use(guard)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

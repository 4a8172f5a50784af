package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("/summary", func(c *gin.Context) {
		c.String(http.StatusOK, "summary")
	})
	r.Register(orders)
	assert.Len(t, r.registrars, 1)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/orders/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "summary", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/orders/summary").Code)
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Tenant-Checked", "yes")
		c.Next()
	})

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(accounts).Setup()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "yes", serve(engine, http.MethodGet, "/api/v1/accounts").Header().Get("X-Tenant-Checked"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Tenant-Checked"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("invoices", "/invoices")
		assert.Equal(t, "invoices", g.Name())
		assert.Equal(t, "/invoices", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("purchase-orders", "/purchase-orders")
		g.GET("/:id", ok).
			POST("/:id/send", ok).
			PUT("/:id/items/:item_id", ok).
			PATCH("/:id", ok).
			DELETE("/:id/items/:item_id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/purchase-orders/1"},
			{http.MethodPost, "/api/v1/purchase-orders/1/send"},
			{http.MethodPut, "/api/v1/purchase-orders/1/items/2"},
			{http.MethodPatch, "/api/v1/purchase-orders/1"},
			{http.MethodDelete, "/api/v1/purchase-orders/1/items/2"},
		}
		for _, tt := range tests {
			assert.Equal(t, http.StatusOK, serve(engine, tt.method, tt.path).Code, "%s %s", tt.method, tt.path)
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("statements", "/statements")
		g.Use(func(c *gin.Context) {
			c.Header("X-Report", "ledger")
			c.Next()
		})
		g.GET("/trial-balance", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/statements/trial-balance")
		assert.Equal(t, "ledger", w.Header().Get("X-Report"))
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("partners", "/partners")
		g.Group("clients", "/clients").GET("", func(c *gin.Context) { c.String(http.StatusOK, "clients") })
		g.Group("suppliers", "/suppliers").GET("", func(c *gin.Context) { c.String(http.StatusOK, "suppliers") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "clients", serve(engine, http.MethodGet, "/api/v1/partners/clients").Body.String())
		assert.Equal(t, "suppliers", serve(engine, http.MethodGet, "/api/v1/partners/suppliers").Body.String())
	})
}

func TestDomainGroupHandle(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("transactions", "/transactions")
	g.Handle("post", "/:id/cancel", func(c *gin.Context) { c.Status(http.StatusAccepted) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, http.StatusAccepted, serve(engine, http.MethodPost, "/api/v1/transactions/7/cancel").Code)
}

func TestRouterRoutes(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", ok).GET("/:id", ok)
	invoices.Group("invoice-items", "/:id/items").DELETE("/:item_id", ok)

	statements := NewDomainGroup("statements", "/statements")
	statements.GET("/trial-balance", ok)

	r := NewRouter(gin.New(), WithAPIVersion("v2")).Register(statements).Register(invoices)
	assert.Equal(t, "/api/v2", r.BasePath())

	assert.Equal(t, []Route{
		{Resource: "invoices", Method: http.MethodPost, Path: "/api/v2/invoices"},
		{Resource: "invoices", Method: http.MethodGet, Path: "/api/v2/invoices/:id"},
		{Resource: "invoice-items", Method: http.MethodDelete, Path: "/api/v2/invoices/:id/items/:item_id"},
		{Resource: "statements", Method: http.MethodGet, Path: "/api/v2/statements/trial-balance"},
	}, r.Routes())
}

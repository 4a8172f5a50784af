package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	financeapp "github.com/tradedesk/backend/internal/application/finance"
	partnerapp "github.com/tradedesk/backend/internal/application/partner"
	tradeapp "github.com/tradedesk/backend/internal/application/trade"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/infrastructure/cache"
	"github.com/tradedesk/backend/internal/infrastructure/config"
	"github.com/tradedesk/backend/internal/infrastructure/event"
	"github.com/tradedesk/backend/internal/infrastructure/persistence"
	"github.com/tradedesk/backend/internal/interfaces/http/dto"
	"github.com/tradedesk/backend/internal/interfaces/http/middleware"
	"github.com/tradedesk/backend/internal/interfaces/http/router"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	tenant uuid.UUID
}

// newTestAPI wires the full route table over an in-memory sqlite database
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate())
	db := database.DB

	clients := persistence.NewGormClientRepository(db)
	suppliers := persistence.NewGormSupplierRepository(db)
	orders := persistence.NewGormOrderRepository(db)
	quotations := persistence.NewGormQuotationRepository(db)
	pos := persistence.NewGormPurchaseOrderRepository(db)
	invoices := persistence.NewGormSalesInvoiceRepository(db)
	shipments := persistence.NewGormShippingInvoiceRepository(db)
	accounts := persistence.NewGormAccountRepository(db)
	transactions := persistence.NewGormTransactionRepository(db)

	statementCache := cache.NewInMemoryStatementCache(time.Minute)
	bus := event.NewInMemoryEventBus(nil)
	invalidator := financeapp.NewStatementCacheInvalidator(statementCache, nil)
	bus.Subscribe(invalidator, invalidator.EventTypes()...)

	repos := tradeapp.OrderRepositories{
		Orders:           orders,
		Clients:          clients,
		Quotations:       quotations,
		PurchaseOrders:   pos,
		Invoices:         invoices,
		ShippingInvoices: shipments,
	}
	orderService := tradeapp.NewOrderService(repos, nil)
	accountService := financeapp.NewAccountService(accounts, transactions, nil)
	transactionService := financeapp.NewTransactionService(transactions, persistence.NewGormLedgerScope(db), nil)
	accountService.SetEventPublisher(bus)
	transactionService.SetEventPublisher(bus)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewSystemHandler(database, "test").Health)

	r := router.NewRouter(engine).Use(middleware.TenantMiddleware())
	r.Register(ClientRoutes(NewClientHandler(partnerapp.NewClientService(clients, orders, nil)))).
		Register(SupplierRoutes(NewSupplierHandler(partnerapp.NewSupplierService(suppliers, pos, nil)))).
		Register(OrderRoutes(NewOrderHandler(orderService, tradeapp.NewWorkflowService(repos)))).
		Register(QuotationRoutes(NewQuotationHandler(tradeapp.NewQuotationService(quotations, orders, suppliers, nil)))).
		Register(PurchaseOrderRoutes(NewPurchaseOrderHandler(tradeapp.NewPurchaseOrderService(pos, orders, suppliers, nil)))).
		Register(InvoiceRoutes(NewInvoiceHandler(tradeapp.NewInvoiceService(invoices, orders, pos, nil)))).
		Register(ShippingRoutes(NewShippingHandler(tradeapp.NewShippingService(shipments, orders, invoices, nil)))).
		Register(CalculatorRoutes(NewCalculatorHandler(tradeapp.NewCalculatorService()))).
		Register(AccountRoutes(NewAccountHandler(accountService))).
		Register(TransactionRoutes(NewTransactionHandler(transactionService))).
		Register(StatementRoutes(NewStatementHandler(financeapp.NewStatementService(accounts, statementCache, nil))))
	r.Setup()

	return &testAPI{t: t, engine: engine, tenant: uuid.New()}
}

func (a *testAPI) request(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, a.tenant.String())

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// mustCreate posts body and decodes the created resource into out
func (a *testAPI) mustCreate(path string, body, out any) {
	a.t.Helper()
	w, env := a.request(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(a.t, json.Unmarshal(env.Data, out))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAPI_OrderToInvoice(t *testing.T) {
	api := newTestAPI(t)

	var client partnerapp.ClientResponse
	api.mustCreate("/api/v1/clients", map[string]any{
		"code": "CL-001", "name": "Acme Imports", "email": "buyer@acme.test",
	}, &client)
	assert.Equal(t, "Acme Imports", client.Name)

	var order tradeapp.OrderResponse
	api.mustCreate("/api/v1/orders", map[string]any{
		"client_id":       client.ID,
		"project_name":    "Showroom chairs",
		"workflow_type":   "standard",
		"commission_rate": "5",
	}, &order)
	assert.Equal(t, "Acme Imports", order.ClientName)
	assert.Equal(t, "pending", order.Status)

	var invoice tradeapp.InvoiceResponse
	api.mustCreate("/api/v1/invoices", map[string]any{
		"order_id": order.ID,
		"items": []map[string]any{
			{"description": "Oak chair", "quantity": 10, "unit_price": "100"},
		},
	}, &invoice)
	assert.True(t, invoice.Subtotal.Equal(d("1000")))
	assert.True(t, invoice.CommissionFee.Equal(d("50")))
	assert.True(t, invoice.Total.Equal(d("1050")))
	assert.Equal(t, "draft", invoice.Status)

	t.Run("workflow reflects the invoice", func(t *testing.T) {
		w, env := api.request(http.MethodGet, "/api/v1/orders/"+order.ID.String()+"/workflow", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var workflow tradeapp.WorkflowResponse
		require.NoError(t, json.Unmarshal(env.Data, &workflow))
		require.Len(t, workflow.Steps, 5)
		completed := map[string]bool{}
		for _, s := range workflow.Steps {
			completed[s.Name] = s.Completed
		}
		assert.True(t, completed["Order Created"])
		assert.True(t, completed["Sales Invoice"])
		assert.False(t, completed["Shipping"])
		assert.InDelta(t, 0.5, workflow.Progress, 0.0001)
	})

	t.Run("payments move the invoice to paid", func(t *testing.T) {
		base := "/api/v1/invoices/" + invoice.ID.String()
		w, _ := api.request(http.MethodPost, base+"/status", map[string]any{"status": "sent"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w, env := api.request(http.MethodPost, base+"/payments", map[string]any{"amount": "1050", "method": "bank_transfer"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var paid tradeapp.InvoiceResponse
		require.NoError(t, json.Unmarshal(env.Data, &paid))
		assert.Equal(t, "paid", paid.Status)
		assert.True(t, paid.Outstanding.IsZero())

		w, env = api.request(http.MethodPost, base+"/payments", map[string]any{"amount": "1", "method": "cash"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)
	})

	t.Run("summary counts orders by status", func(t *testing.T) {
		w, env := api.request(http.MethodGet, "/api/v1/orders/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var summary tradeapp.OrderSummaryResponse
		require.NoError(t, json.Unmarshal(env.Data, &summary))
		assert.Equal(t, int64(1), summary.Total)
	})

	t.Run("client with orders cannot be deleted", func(t *testing.T) {
		w, env := api.request(http.MethodDelete, "/api/v1/clients/"+client.ID.String(), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.NotEmpty(t, env.Error.Message)
	})
}

func TestAPI_Errors(t *testing.T) {
	api := newTestAPI(t)

	t.Run("binding failures list the fields", func(t *testing.T) {
		w, env := api.request(http.MethodPost, "/api/v1/orders", map[string]any{"workflow_type": "express"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
		fields := make([]string, 0, len(env.Error.Details))
		for _, detail := range env.Error.Details {
			fields = append(fields, detail.Field)
		}
		assert.Contains(t, fields, "project_name")
		assert.Contains(t, fields, "workflow_type")
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("bad path id", func(t *testing.T) {
		w, env := api.request(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, env.Error.Code)
	})

	t.Run("unknown resource", func(t *testing.T) {
		w, env := api.request(http.MethodGet, "/api/v1/suppliers/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, env.Error.Code)
	})

	t.Run("invalid line item points at the field", func(t *testing.T) {
		w, env := api.request(http.MethodPost, "/api/v1/calculations/totals", map[string]any{
			"items": []map[string]any{
				{"description": "Desk", "quantity": 1, "unit_price": "10"},
				{"description": "Lamp", "quantity": 0, "unit_price": "10"},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidLineItem, env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "items[1].quantity", env.Error.Details[0].Field)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		var supplier partnerapp.SupplierResponse
		api.mustCreate("/api/v1/suppliers", map[string]any{"code": "SP-1", "name": "Shanghai Textiles"}, &supplier)

		other := *api
		other.tenant = uuid.New()
		w, _ := other.request(http.MethodGet, "/api/v1/suppliers/"+supplier.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, env := other.request(http.MethodGet, "/api/v1/suppliers", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(0), env.Meta.Total)
	})
}

func TestAPI_Calculator(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.request(http.MethodPost, "/api/v1/calculations/totals", map[string]any{
		"items": []map[string]any{
			{"description": "Fabric roll", "quantity": 4, "unit_price": "125"},
		},
		"commission_rate": "10",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var totals tradeapp.TotalsResponse
	require.NoError(t, json.Unmarshal(env.Data, &totals))
	assert.True(t, totals.Subtotal.Equal(d("500")))
	assert.True(t, totals.CommissionFee.Equal(d("50")))
	assert.True(t, totals.Total.Equal(d("550")))
}

func TestAPI_Ledger(t *testing.T) {
	api := newTestAPI(t)

	var cash, capital, freight financeapp.AccountResponse
	api.mustCreate("/api/v1/accounts", map[string]any{
		"account_number": "1000", "name": "Cash", "type": "asset", "classification": "current",
	}, &cash)
	api.mustCreate("/api/v1/accounts", map[string]any{
		"account_number": "3000", "name": "Capital", "type": "equity",
	}, &capital)
	api.mustCreate("/api/v1/accounts", map[string]any{
		"account_number": "5000", "name": "Freight", "type": "expense",
	}, &freight)

	trialBalance := func(t *testing.T) finance.TrialBalance {
		t.Helper()
		w, env := api.request(http.MethodGet, "/api/v1/statements/trial-balance", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var tb finance.TrialBalance
		require.NoError(t, json.Unmarshal(env.Data, &tb))
		return tb
	}

	var funding financeapp.TransactionResponse
	api.mustCreate("/api/v1/transactions", map[string]any{
		"description": "Owner funding",
		"post_now":    true,
		"entries": []map[string]any{
			{"account_id": cash.ID, "debit": "5000"},
			{"account_id": capital.ID, "credit": "5000"},
		},
	}, &funding)
	assert.Equal(t, "posted", funding.Status)

	tb := trialBalance(t)
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.TotalDebit.Equal(d("5000")))

	t.Run("validate reports every problem without saving", func(t *testing.T) {
		w, env := api.request(http.MethodPost, "/api/v1/transactions/validate", map[string]any{
			"entries": []map[string]any{
				{"account_id": freight.ID, "debit": "100", "credit": "100"},
				{"account_id": cash.ID, "credit": "40"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)
		var report finance.ValidationReport
		require.NoError(t, json.Unmarshal(env.Data, &report))
		assert.False(t, report.Valid)
		assert.False(t, report.Balanced)
		require.Len(t, report.Problems, 1)
		assert.Equal(t, 0, report.Problems[0].Index)
	})

	t.Run("unbalanced draft cannot be posted", func(t *testing.T) {
		var draft financeapp.TransactionResponse
		api.mustCreate("/api/v1/transactions", map[string]any{
			"description": "Freight bill",
			"entries": []map[string]any{
				{"account_id": freight.ID, "debit": "300"},
				{"account_id": cash.ID, "credit": "250"},
			},
		}, &draft)
		assert.Equal(t, "draft", draft.Status)

		w, env := api.request(http.MethodPost, "/api/v1/transactions/"+draft.ID.String()+"/post", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeUnbalancedEntry, env.Error.Code)
		require.Len(t, env.Error.Details, 1)
		assert.Equal(t, "entries", env.Error.Details[0].Field)
	})

	t.Run("posting invalidates cached statements", func(t *testing.T) {
		var bill financeapp.TransactionResponse
		api.mustCreate("/api/v1/transactions", map[string]any{
			"description": "Freight paid",
			"post_now":    true,
			"entries": []map[string]any{
				{"account_id": freight.ID, "debit": "200"},
				{"account_id": cash.ID, "credit": "200"},
			},
		}, &bill)

		tb := trialBalance(t)
		assert.True(t, tb.IsBalanced)
		assert.True(t, tb.TotalDebit.Equal(d("5000")))

		w, env := api.request(http.MethodGet, "/api/v1/accounts/"+cash.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var account financeapp.AccountResponse
		require.NoError(t, json.Unmarshal(env.Data, &account))
		assert.True(t, account.Balance.Equal(d("4800")))

		w, env = api.request(http.MethodPost, "/api/v1/transactions/"+bill.ID.String()+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var cancelled financeapp.TransactionResponse
		require.NoError(t, json.Unmarshal(env.Data, &cancelled))
		assert.Equal(t, "cancelled", cancelled.Status)
	})

	t.Run("financial statement balances", func(t *testing.T) {
		w, env := api.request(http.MethodGet, "/api/v1/statements/financial", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var st finance.FinancialStatement
		require.NoError(t, json.Unmarshal(env.Data, &st))
		assert.True(t, st.BalanceSheet.TotalAssets.Equal(d("5000")))
	})
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)

	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Database)
}

package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tradedesk/backend/internal/application/finance"
	"github.com/tradedesk/backend/internal/interfaces/http/router"
)

// AccountHandler handles chart-of-accounts endpoints
type AccountHandler struct {
	BaseHandler
	accountService *financeapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *financeapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create godoc
// @Summary      Open a ledger account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateAccountRequest true "Account"
// @Success      201 {object} dto.Response{data=financeapp.AccountResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req financeapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

func (h *AccountHandler) List(c *gin.Context) {
	var filter financeapp.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	accounts, total, err := h.accountService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, accounts, total, filter.Page, filter.PageSize)
}

// Update changes descriptive fields; the balance only moves through posting
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TransactionHandler handles journal entry endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *financeapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *financeapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create godoc
// @Summary      Record a journal entry
// @Description  Saved as a draft unless post_now is set
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateTransactionRequest true "Journal entry"
// @Success      201 {object} dto.Response{data=financeapp.TransactionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req financeapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tx, err := h.transactionService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Validate godoc
// @Summary      Check entries without saving them
// @Description  Always answers 200; the report lists every problem found
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body financeapp.ValidateEntriesRequest true "Entries"
// @Success      200 {object} dto.Response{data=finance.ValidationReport}
// @Router       /transactions/validate [post]
func (h *TransactionHandler) Validate(c *gin.Context) {
	var req financeapp.ValidateEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.Success(c, h.transactionService.Validate(c.Request.Context(), req))
}

func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

func (h *TransactionHandler) List(c *gin.Context) {
	var filter financeapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	txs, total, err := h.transactionService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, txs, total, filter.Page, filter.PageSize)
}

// Post applies a draft to the account balances
func (h *TransactionHandler) Post(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.Post(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Cancel voids a transaction, reversing its effect if it was posted
func (h *TransactionHandler) Cancel(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	tx, err := h.transactionService.Cancel(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// StatementHandler serves the computed ledger reports
type StatementHandler struct {
	BaseHandler
	statementService *financeapp.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *financeapp.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// FinancialStatement godoc
// @Summary      Balance sheet and income statement
// @Tags         statements
// @Produce      json
// @Success      200 {object} dto.Response{data=finance.FinancialStatement}
// @Router       /statements/financial [get]
func (h *StatementHandler) FinancialStatement(c *gin.Context) {
	st, err := h.statementService.FinancialStatement(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// TrialBalance godoc
// @Summary      Trial balance of active accounts
// @Tags         statements
// @Produce      json
// @Success      200 {object} dto.Response{data=finance.TrialBalance}
// @Router       /statements/trial-balance [get]
func (h *StatementHandler) TrialBalance(c *gin.Context) {
	tb, err := h.statementService.TrialBalance(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tb)
}

// AccountRoutes creates the route group for account endpoints
func AccountRoutes(h *AccountHandler) *router.DomainGroup {
	group := router.NewDomainGroup("accounts", "/accounts")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	return group
}

// TransactionRoutes creates the route group for journal entry endpoints
func TransactionRoutes(h *TransactionHandler) *router.DomainGroup {
	group := router.NewDomainGroup("transactions", "/transactions")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.POST("/validate", h.Validate)
	group.GET("/:id", h.GetByID)
	group.POST("/:id/post", h.Post)
	group.POST("/:id/cancel", h.Cancel)
	return group
}

// StatementRoutes creates the route group for ledger reports
func StatementRoutes(h *StatementHandler) *router.DomainGroup {
	group := router.NewDomainGroup("statements", "/statements")
	group.GET("/financial", h.FinancialStatement)
	group.GET("/trial-balance", h.TrialBalance)
	return group
}

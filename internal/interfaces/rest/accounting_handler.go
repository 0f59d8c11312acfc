package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
	"github.com/atlaserp/backend/internal/domain/models"
)

// AccountingHandler serves journal entries, bank imports,
// reconciliation and account risk reviews.
type AccountingHandler struct {
	accounting *services.AccountingService
}

func NewAccountingHandler(accounting *services.AccountingService) *AccountingHandler {
	return &AccountingHandler{accounting: accounting}
}

func (h *AccountingHandler) CreateJournalEntry(c *gin.Context) {
	var req services.JournalEntryRequest
	if !BindJSON(c, &req) {
		return
	}
	entry, err := h.accounting.PostJournalEntry(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "entry", "Journal entry posted", entry)
}

func (h *AccountingHandler) GetJournalEntry(c *gin.Context) {
	entry, err := h.accounting.GetJournalEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "entry", entry)
}

// GetJournalEntries lists entries in [from, to). Defaults to the last
// 30 days.
func (h *AccountingHandler) GetJournalEntries(c *gin.Context) {
	now := time.Now()
	from, err := ParseDateParam(c, "from", now.AddDate(0, 0, -30))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	to, err := ParseDateParam(c, "to", now.AddDate(0, 0, 1))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	entries, err := h.accounting.ListJournalEntries(c.Request.Context(), from, to)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "entries", entries)
}

type bankImportRequest struct {
	Transactions []services.BankTransactionRequest `json:"transactions" binding:"required"`
}

// ImportBankTransactions handles POST /api/accounting/bank-transactions
func (h *AccountingHandler) ImportBankTransactions(c *gin.Context) {
	var req bankImportRequest
	if !BindJSON(c, &req) {
		return
	}
	imported, err := h.accounting.ImportBankTransactions(c.Request.Context(), req.Transactions)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "transactions", "Bank transactions imported", imported)
}

// Reconcile handles POST /api/accounting/reconcile
func (h *AccountingHandler) Reconcile(c *gin.Context) {
	report, err := h.accounting.Reconcile(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "report", report)
}

type riskReviewRequest struct {
	Findings []models.RiskFinding `json:"findings" binding:"required"`
}

// RiskReview handles POST /api/accounting/risk-review
func (h *AccountingHandler) RiskReview(c *gin.Context) {
	var req riskReviewRequest
	if !BindJSON(c, &req) {
		return
	}
	review, err := h.accounting.AccountRiskReview(req.Findings)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "review", review)
}

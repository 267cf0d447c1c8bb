package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

type createTransactionRequest struct {
	CategoryID      *int            `json:"category_id"`
	Type            string          `json:"type" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

func (req createTransactionRequest) validate() error {
	if !models.TransactionType(req.Type).Valid() {
		return fmt.Errorf("%w: transaction type %q is not one of %s, %s",
			models.ErrInvalidArgument, req.Type,
			models.TransactionTypeIncome, models.TransactionTypeExpense)
	}
	if req.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", models.ErrInvalidArgument)
	}
	return nil
}

// applyTo overlays the request onto an existing transaction. Omitted
// category and date keep their stored values.
func (req createTransactionRequest) applyTo(tx *models.Transaction) {
	if req.CategoryID != nil {
		tx.CategoryID = req.CategoryID
	}
	tx.Type = models.TransactionType(req.Type)
	tx.Amount = req.Amount
	tx.Description = req.Description
	if req.TransactionDate != nil {
		tx.TransactionDate = req.TransactionDate
	}
}

func (h *handlers) listTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	transactions, err := h.deps.Transactions.GetByUserID(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *handlers) createTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.validate(); err != nil {
		h.writeError(c, err)
		return
	}

	userID := currentUserID(c)
	if req.CategoryID != nil {
		if _, err := h.deps.Categories.GetByID(c.Request.Context(), *req.CategoryID, userID); err != nil {
			h.writeError(c, err)
			return
		}
	}

	now := time.Now()
	if req.TransactionDate == nil {
		req.TransactionDate = &now
	}

	tx := &models.Transaction{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Type:            models.TransactionType(req.Type),
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
	}
	if err := h.deps.Transactions.Create(c.Request.Context(), tx); err != nil {
		h.writeError(c, err)
		return
	}

	if tx.CategoryID != nil {
		if err := h.deps.Categories.IncrementUsage(c.Request.Context(), *tx.CategoryID); err != nil {
			h.log.Warn("failed to bump category usage",
				zap.Int("category_id", *tx.CategoryID), zap.Error(err))
		}

		// Fire-and-forget: a threshold-check failure must never fail
		// the transaction write.
		if tx.Type == models.TransactionTypeExpense {
			h.deps.Engine.DispatchThresholdCheck(userID, *tx.CategoryID, tx.Amount)
		}
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *handlers) updateTransaction(c *gin.Context) {
	transactionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.validate(); err != nil {
		h.writeError(c, err)
		return
	}

	userID := currentUserID(c)
	tx, err := h.deps.Transactions.GetByID(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if req.CategoryID != nil {
		if _, err := h.deps.Categories.GetByID(c.Request.Context(), *req.CategoryID, userID); err != nil {
			h.writeError(c, err)
			return
		}
	}

	req.applyTo(tx)

	if err := h.deps.Transactions.Update(c.Request.Context(), tx); err != nil {
		h.writeError(c, err)
		return
	}

	// The reactive hook covers updated expenses too.
	if tx.Type == models.TransactionTypeExpense && tx.CategoryID != nil {
		h.deps.Engine.DispatchThresholdCheck(userID, *tx.CategoryID, tx.Amount)
	}

	c.JSON(http.StatusOK, tx)
}

func (h *handlers) deleteTransaction(c *gin.Context) {
	transactionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	if err := h.deps.Transactions.Delete(c.Request.Context(), transactionID, currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mtarnawa/finbook/internal/models"
)

type createReminderRequest struct {
	Title             string           `json:"title" binding:"required"`
	Description       string           `json:"description"`
	DueDate           *time.Time       `json:"due_date"`
	ReminderType      *string          `json:"reminder_type"`
	CategoryID        *int             `json:"category_id"`
	ThresholdAmount   *decimal.Decimal `json:"threshold_amount"`
	TransactionType   *string          `json:"transaction_type"`
	TransactionAmount *decimal.Decimal `json:"transaction_amount"`
	RecurrenceRule    string           `json:"recurrence_rule"`
}

type updateReminderRequest struct {
	Title             *string          `json:"title"`
	Description       *string          `json:"description"`
	DueDate           *time.Time       `json:"due_date"`
	ReminderType      *string          `json:"reminder_type"`
	CategoryID        *int             `json:"category_id"`
	ThresholdAmount   *decimal.Decimal `json:"threshold_amount"`
	TransactionType   *string          `json:"transaction_type"`
	TransactionAmount *decimal.Decimal `json:"transaction_amount"`
	RecurrenceRule    *string          `json:"recurrence_rule"`
}

func (h *handlers) listReminders(c *gin.Context) {
	reminders, err := h.deps.Reminders.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminders)
}

func (h *handlers) createReminder(c *gin.Context) {
	var req createReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Omitting the field defaults to GENERAL; sending it, even empty,
	// means the value must be a valid type.
	reminderType := models.ReminderTypeGeneral
	if req.ReminderType != nil {
		var err error
		reminderType, err = h.deps.Lifecycle.NormalizeAndValidate(*req.ReminderType)
		if err != nil {
			h.writeError(c, err)
			return
		}
	}

	userID := currentUserID(c)
	r := &models.Reminder{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		ReminderType:   reminderType,
		CategoryID:     req.CategoryID,
		RecurrenceRule: req.RecurrenceRule,
	}
	if req.ThresholdAmount != nil {
		r.ThresholdAmount = decimal.NewNullDecimal(*req.ThresholdAmount)
	}
	if req.TransactionAmount != nil {
		r.TransactionAmount = decimal.NewNullDecimal(*req.TransactionAmount)
	}
	if req.TransactionType != nil {
		t := models.TransactionType(*req.TransactionType)
		r.TransactionType = &t
	}

	if err := h.deps.Lifecycle.CheckFields(r); err != nil {
		h.writeError(c, err)
		return
	}
	if r.CategoryID != nil {
		if _, err := h.deps.Categories.GetByID(c.Request.Context(), *r.CategoryID, userID); err != nil {
			h.writeError(c, err)
			return
		}
	}

	if err := h.deps.Reminders.Create(c.Request.Context(), r); err != nil {
		h.writeError(c, err)
		return
	}

	h.deps.Scheduler.Notify()
	c.JSON(http.StatusCreated, r)
}

func (h *handlers) updateReminder(c *gin.Context) {
	reminderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder id"})
		return
	}

	var req updateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	r, err := h.deps.Reminders.GetByID(c.Request.Context(), reminderID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.DueDate != nil {
		r.DueDate = req.DueDate
	}
	if req.ReminderType != nil {
		reminderType, err := h.deps.Lifecycle.NormalizeAndValidate(*req.ReminderType)
		if err != nil {
			h.writeError(c, err)
			return
		}
		r.ReminderType = reminderType
	}
	if req.CategoryID != nil {
		r.CategoryID = req.CategoryID
	}
	if req.ThresholdAmount != nil {
		r.ThresholdAmount = decimal.NewNullDecimal(*req.ThresholdAmount)
	}
	if req.TransactionAmount != nil {
		r.TransactionAmount = decimal.NewNullDecimal(*req.TransactionAmount)
	}
	if req.TransactionType != nil {
		t := models.TransactionType(*req.TransactionType)
		r.TransactionType = &t
	}
	if req.RecurrenceRule != nil {
		r.RecurrenceRule = *req.RecurrenceRule
	}

	if err := h.deps.Lifecycle.CheckFields(r); err != nil {
		h.writeError(c, err)
		return
	}
	if r.CategoryID != nil {
		if _, err := h.deps.Categories.GetByID(c.Request.Context(), *r.CategoryID, userID); err != nil {
			h.writeError(c, err)
			return
		}
	}

	if err := h.deps.Reminders.Update(c.Request.Context(), r); err != nil {
		h.writeError(c, err)
		return
	}

	h.deps.Scheduler.Notify()
	c.JSON(http.StatusOK, r)
}

func (h *handlers) toggleReminder(c *gin.Context) {
	reminderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder id"})
		return
	}

	userID := currentUserID(c)
	r, err := h.deps.Reminders.GetByID(c.Request.Context(), reminderID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.deps.Reminders.SetCompleted(c.Request.Context(), reminderID, userID, !r.Completed); err != nil {
		h.writeError(c, err)
		return
	}
	r.Completed = !r.Completed

	c.JSON(http.StatusOK, r)
}

func (h *handlers) deleteReminder(c *gin.Context) {
	reminderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reminder id"})
		return
	}

	if err := h.deps.Reminders.Delete(c.Request.Context(), reminderID, currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mtarnawa/finbook/internal/models"
)

type categoryRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Categories.GetByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{UserID: currentUserID(c), CategoryName: req.CategoryName}
	if err := h.deps.Categories.Create(c.Request.Context(), category); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *handlers) updateCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{
		CategoryID:   categoryID,
		UserID:       currentUserID(c),
		CategoryName: req.CategoryName,
	}
	if err := h.deps.Categories.Update(c.Request.Context(), category); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := h.deps.Categories.Delete(c.Request.Context(), categoryID, currentUserID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

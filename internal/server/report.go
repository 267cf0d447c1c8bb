package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *handlers) reportSummary(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		// Make the range inclusive of the whole end day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	summary, err := h.deps.Reports.Summarize(c.Request.Context(), currentUserID(c), from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

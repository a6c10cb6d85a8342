package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportXLSX streams stored outcomes as a workbook. ?limit= caps the rows.
func (s *Server) exportXLSX(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	data, err := s.exporter.ExportXLSX(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="water_bills.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

package api

import (
	"net/http"

	reqdto "tableside/internal/handler/dto/request"
	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type IndicatorHandler struct {
	indicatorQueries queries.IndicatorQueries
}

func NewIndicatorHandler(indicatorQueries queries.IndicatorQueries) *IndicatorHandler {
	return &IndicatorHandler{indicatorQueries: indicatorQueries}
}

func (h *IndicatorHandler) Dashboard(c *gin.Context) {
	var q reqdto.ListOrdersQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid query parameters")
		return
	}

	rng, err := q.ToDateRange()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected RFC3339")
		return
	}

	indicator, err := h.indicatorQueries.Dashboard(c.Request.Context(), rng)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "Dashboard indicators retrieved successfully", indicator)
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"tableside/internal/domain/table"
	reqdto "tableside/internal/handler/dto/request"
	resdto "tableside/internal/handler/dto/response"
	"tableside/internal/handler/httperr"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableCommands commands.TableCommands
	tableQueries  queries.TableQueries
}

func NewTableHandler(tableCommands commands.TableCommands, tableQueries queries.TableQueries) *TableHandler {
	return &TableHandler{
		tableCommands: tableCommands,
		tableQueries:  tableQueries,
	}
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req reqdto.CreateTableRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	status, err := table.NewStatus(req.Status)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid table status")
		return
	}

	view, err := h.tableCommands.CreateTable(c.Request.Context(), commands.CreateTableParams{
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   status,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidTableNumber):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Table number must be a positive 32-bit integer")
		case errors.Is(err, commands.ErrDuplicateTableNumber):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Table number already exists")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusCreated, "Table created successfully", view)
}

func (h *TableHandler) ListTables(c *gin.Context) {
	views, err := h.tableQueries.List(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}

	resdto.JSON(c, http.StatusOK, "Tables retrieved successfully", views)
}

func (h *TableHandler) GetTable(c *gin.Context) {
	number, ok := h.parseNumber(c)
	if !ok {
		return
	}

	view, err := h.tableQueries.GetByNumber(c.Request.Context(), number)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found")
		return
	}

	resdto.JSON(c, http.StatusOK, "Table retrieved successfully", view)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	number, ok := h.parseNumber(c)
	if !ok {
		return
	}

	var req reqdto.UpdateTableRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format")
		return
	}

	status, err := table.NewStatus(req.Status)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid table status")
		return
	}

	view, err := h.tableCommands.UpdateTable(c.Request.Context(), number, commands.UpdateTableParams{
		Capacity:    req.Capacity,
		Status:      status,
		ChangeToken: req.ChangeToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrTableNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusOK, "Table updated successfully", view)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	number, ok := h.parseNumber(c)
	if !ok {
		return
	}

	if err := h.tableCommands.DeleteTable(c.Request.Context(), number); err != nil {
		switch {
		case errors.Is(err, commands.ErrTableNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Table not found")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	resdto.JSON(c, http.StatusOK, "Table deleted successfully", nil)
}

func (h *TableHandler) parseNumber(c *gin.Context) (int32, bool) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 32)
	if err != nil || number <= 0 {
		if err == nil {
			err = strconv.ErrRange
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid table number format")
		return 0, false
	}
	return int32(number), true
}

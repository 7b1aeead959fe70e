package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
)

// parseIDParam parses a positive int64 path parameter, writing the error
// response itself. The bool reports success.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name)
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// queryID parses an optional int64 query parameter, returning 0 when absent
// or malformed.
func queryID(ctx *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(ctx.Query(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// respond writes the standard success envelope.
func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.APIResponse{
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondPaged writes a paginated list envelope.
func respondPaged(ctx *gin.Context, items interface{}, pagination dto.PaginationInfo) {
	respond(ctx, http.StatusOK, dto.PagedResponse{
		Items:      items,
		Pagination: pagination,
	})
}

// bindError writes the standard binding failure response.
func bindError(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
	errorDetail = errorDetail.WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

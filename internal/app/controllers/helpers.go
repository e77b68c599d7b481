package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes a
// 400 response and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+name).
			WithField(name).
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// respond writes a successful envelope
func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewAPIResponse(data, message))
}

// acknowledge writes a {message, id} envelope
func acknowledge(ctx *gin.Context, status int, message string, id int64) {
	respond(ctx, status, dto.MessageResponse{Message: message, ID: id}, message)
}

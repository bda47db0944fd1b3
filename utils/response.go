package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Application error codes carried in error bodies next to the HTTP status.
const (
	CodeInvalidPayload = 40020
	CodeValidation     = 40021
	CodeRouteNotFound  = 40400
	CodePostNotFound   = 40401
	CodeInternal       = 50000
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Respond writes data as the JSON body with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Success returns data with 200.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, data)
}

// Created returns data with 201.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, data)
}

// NoContent answers 204 without a body.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
	ctx.Writer.WriteHeaderNow()
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, ErrorResponse{Code: code, Message: message})
}

// FieldErrors returns 400 listing every failed field; message is the first failure.
func FieldErrors(ctx *gin.Context, message string, fields map[string]string) {
	Respond(ctx, http.StatusBadRequest, ErrorResponse{Code: CodeValidation, Message: message, Errors: fields})
}

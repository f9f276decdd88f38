package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_ledger_bot/internal/service"
)

// ErrorResponse - тело ответа при ошибке
type ErrorResponse struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

const (
	codeBadRequest = "bad_request"
	codeForbidden  = "forbidden"
	codeNotFound   = "not_found"
	codeInternal   = "internal_error"
)

// statusFor сопоставляет ошибку сервиса с HTTP статусом
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)

	var detail string
	switch status {
	case http.StatusForbidden:
		detail = "Forbidden"
	case http.StatusInternalServerError:
		detail = "internal error"
		h.logger.Error("Request failed",
			zap.String("request_id", RequestIDValue(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	default:
		detail = strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Status: "error", Code: code, Detail: detail})
}

func badRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Status: "error", Code: codeBadRequest, Detail: detail})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/microlend_ledger/internal/apperrors"
	"github.com/SscSPs/microlend_ledger/internal/middleware"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string                 `json:"error"`
	Kind   apperrors.Kind         `json:"kind"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// respondError maps err to its status code and writes the error body.
// Internal failures are logged and their detail is not sent to the caller.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	body := errorResponse{
		Error:  err.Error(),
		Kind:   apperrors.KindOf(err),
		Fields: apperrors.FieldErrors(err),
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		body.Error = "Failed to " + action
	} else {
		logger.Warn("Request rejected: "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// bindError turns a gin binding failure into a ValidationError so it renders
// like every other field problem.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := apperrors.NewValidationError()
		for _, fe := range verrs {
			out.Add(fieldPath(fe), fe.Tag(), "%s failed on the '%s' rule", fe.Field(), fe.Tag())
		}
		return out
	}
	out := apperrors.NewValidationError()
	out.Add("body", "malformed", "%s", err.Error())
	return out
}

// fieldPath drops the struct name from a validator namespace
// ("JournalEntryRequest.lines[0].memo" -> "lines[0].memo").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// actorID returns the authenticated user or answers 401.
func actorID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Kind: apperrors.KindUnauthorized})
		return "", false
	}
	return userID, true
}

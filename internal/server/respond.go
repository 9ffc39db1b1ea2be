// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/alphafold"
	"github.com/Vaishnav14220/chem-canvas-sub005/internal/httputil"
)

// Error codes returned in ErrorBody.Code.
const (
	codeInvalidIdentifier = "invalid_identifier"
	codeInvalidRequest    = "invalid_request"
	codeNotFound          = "not_found"
	codeRemoteFailed      = "remote_failed"
	codeTimeout           = "timeout"
	codeCanceled          = "canceled"
	codeInternal          = "internal_error"
)

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned before a response was written.
const statusClientClosedRequest = 499

// ErrorBody is the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}

// respondErr maps a service error onto a status code. Context errors are
// checked before remote failures since a transport failure wraps them.
func respondErr(c *gin.Context, err error) {
	var remote *httputil.RemoteError
	switch {
	case errors.Is(err, alphafold.ErrInvalidIdentifier):
		respondError(c, http.StatusBadRequest, codeInvalidIdentifier, err.Error())
	case errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound:
		respondError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, codeTimeout, err.Error())
	case errors.Is(err, context.Canceled):
		respondError(c, statusClientClosedRequest, codeCanceled, err.Error())
	case errors.Is(err, alphafold.ErrRemoteRequestFailed):
		respondError(c, http.StatusBadGateway, codeRemoteFailed, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, codeInternal, err.Error())
	}
}

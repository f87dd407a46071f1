package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Health(t *testing.T) {
	rec := serve(http.MethodGet, "/health", "/health", "", NewHealthHandler("yookassa-proxy").Health)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"yookassa-proxy"}`, rec.Body.String())
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classdy-api/internal/models"
	"github.com/noah-isme/classdy-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(req models.TokenRequest) (*models.TokenResponse, error)
}

// AuthHandler exchanges the owner's access key for a bearer token.
type AuthHandler struct {
	service tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc tokenIssuer) *AuthHandler {
	return &AuthHandler{service: svc}
}

// IssueToken godoc
// @Summary Issue access token
// @Description Exchanges the configured access key for a JWT
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "Access key"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.TokenRequest
	if !bindJSON(c, &req, "invalid token request") {
		return
	}
	token, err := h.service.IssueToken(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, token)
}

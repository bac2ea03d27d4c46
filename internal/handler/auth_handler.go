package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/response"
)

type tokenIssuer interface {
	Issue(ctx context.Context, req dto.IssueTokenRequest) (*dto.TokenResponse, error)
}

// AuthHandler wires HTTP endpoints to the token service.
type AuthHandler struct {
	tokens tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Issue godoc
// @Summary Issue access token
// @Description Sign an access token for an identity already verified by the sign-in provider
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.IssueTokenRequest true "Identity"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jwt [post]
func (h *AuthHandler) Issue(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}

	res, err := h.tokens.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

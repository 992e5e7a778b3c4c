package controller

import (
	"errors"
	"net/http"

	"github.com/arch-spatula/jmc/internal/app/service"
	apperrors "github.com/arch-spatula/jmc/internal/errors"
	"github.com/arch-spatula/jmc/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Status reports whether editing requires a login
// GET /api/auth/status
func (ctrl *AuthController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"required": ctrl.authService.Enabled(),
	})
}

// Login exchanges the editor password for a token
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "비밀번호를 입력해주세요")
		return
	}

	token, err := ctrl.authService.Login(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthDisabled):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "편집 비밀번호가 설정되어 있지 않습니다")
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Warn("Editor login failed: invalid password")
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "비밀번호가 올바르지 않습니다")
		default:
			log.Error("Editor login failed", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, token)
}

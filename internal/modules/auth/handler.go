package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/middleware"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
	"github.com/restful-go/accounts/internal/pkg/response"
	"github.com/restful-go/accounts/internal/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the session endpoints. Login and refresh are
// reachable anonymously; logout sits behind the auth gates.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gates ...gin.HandlerFunc) {
	rg.POST("/login", h.login)
	rg.GET("/refresh", h.refresh)

	p := rg.Group("", gates...)
	p.GET("/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	missing := validate.RequiredFields(map[string]string{
		"email":    dto.Email,
		"password": dto.Password,
	}, []string{"email", "password"})
	if len(missing) > 0 {
		response.BadRequest(c, "Missing Request Parameters: "+strings.Join(missing, ", "))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), dto.Email, dto.Password)
	if err != nil {
		var perr *validate.PasswordError
		switch {
		case errors.Is(err, errUserNotFound):
			response.NotFound(c, "User not found")
		case errors.As(err, &perr):
			response.BadRequest(c, perr.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, tokenResponse{Token: token})
}

func (h *Handler) refresh(c *gin.Context) {
	raw := middleware.ExtractToken(c)
	if raw == "" {
		response.Forbidden(c, "Invalid Token")
		return
	}

	token, err := h.svc.Refresh(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, jwtpkg.ErrInvalidToken):
			response.Forbidden(c, "Invalid Token")
		case errors.Is(err, errUserNotFound):
			response.NotFound(c, "User not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, tokenResponse{Token: token})
}

func (h *Handler) logout(c *gin.Context) {
	email := middleware.CurrentUserEmail(c)
	if email == "" {
		response.Unauthorized(c, errUserNotLoggedIn.Error())
		return
	}

	err := h.svc.Logout(c.Request.Context(), email, middleware.CurrentToken(c))
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

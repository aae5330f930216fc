package user

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/middleware"
	"github.com/restful-go/accounts/internal/models"
	"github.com/restful-go/accounts/internal/pkg/response"
	"github.com/restful-go/accounts/internal/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the user CRUD endpoints. Account creation is open;
// everything else sits behind the auth gates.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gates ...gin.HandlerFunc) {
	rg.POST("/users", h.create)

	p := rg.Group("", gates...)
	p.GET("/users", h.list)
	p.GET("/users/:id", h.get)
	p.PUT("/users/:id", h.update)
	p.DELETE("/users/:id", h.remove)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	missing := validate.RequiredFields(map[string]string{
		"name":     dto.Name,
		"email":    dto.Email,
		"dob":      dto.DOB,
		"password": dto.Password,
	}, []string{"name", "email", "dob", "password"})
	if len(missing) > 0 {
		response.BadRequest(c, "Missing Request Parameters: "+strings.Join(missing, ", "))
		return
	}

	if _, err := h.svc.Create(c.Request.Context(), &dto); err != nil {
		var perr *validate.PasswordError
		switch {
		case errors.As(err, &perr):
			response.BadRequest(c, perr.Error())
		case errors.Is(err, errInvalidDOB):
			response.BadRequest(c, errInvalidDOB.Error())
		case errors.Is(err, errUserAlreadyExists):
			response.Conflict(c, "User already exists")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, "UserCreated")
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.OK(c, users)
}

func (h *Handler) get(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}
	response.OK(c, u)
}

func (h *Handler) update(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}
	if !h.ownedByCaller(c, u) {
		return
	}

	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), u, &dto)
	if err != nil {
		if errors.Is(err, errInvalidDOB) {
			response.BadRequest(c, errInvalidDOB.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}

func (h *Handler) remove(c *gin.Context) {
	u, ok := h.loadUser(c)
	if !ok {
		return
	}
	if !h.ownedByCaller(c, u) {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), u); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// loadUser resolves the :id path parameter into a user, writing the error
// response itself when it cannot.
func (h *Handler) loadUser(c *gin.Context) (*models.User, bool) {
	id := c.Param("id")
	if !validate.UserID(id) {
		response.BadRequest(c, "Invalid User ID")
		return nil, false
	}
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			response.NotFound(c, "User not found")
			return nil, false
		}
		response.InternalError(c, err)
		return nil, false
	}
	return u, true
}

// ownedByCaller enforces that mutating operations only apply to the account
// whose email matches the authenticated token.
func (h *Handler) ownedByCaller(c *gin.Context, u *models.User) bool {
	if middleware.CurrentUserEmail(c) != u.Email {
		response.Forbidden(c, "User permission denied")
		return false
	}
	return true
}

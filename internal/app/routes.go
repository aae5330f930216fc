package app

import (
	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/database"
	"github.com/restful-go/accounts/internal/middleware"
	"github.com/restful-go/accounts/internal/modules/auth"
	"github.com/restful-go/accounts/internal/modules/user"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
	"github.com/restful-go/accounts/internal/pkg/response"
	"github.com/restful-go/accounts/internal/pkg/revocation"
)

func (a *App) registerRoutes(users database.UserRepository, codec *jwtpkg.Codec, revoker *revocation.Filter) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not Found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.NotFound(c, "Not Found")
	})

	r.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{"message": "pong"})
	})

	// Gate 1 checks signature and expiry; gate 2 consults the revocation
	// store when configured. Order matters: a forged token never reaches
	// the store.
	gates := []gin.HandlerFunc{middleware.Auth(codec)}
	var svcRevoker auth.Revoker
	if revoker != nil {
		gates = append(gates, middleware.Revocation(revoker, a.logger))
		svcRevoker = revoker
	}

	root := &r.RouterGroup

	authSvc := auth.NewService(users, codec, svcRevoker, a.logger)
	auth.NewHandler(authSvc).RegisterRoutes(root, gates...)

	userSvc := user.NewService(users)
	user.NewHandler(userSvc).RegisterRoutes(root, gates...)
}

package controller

import (
	"net/http"
	"strconv"
	"strings"

	"gala/app_error"
	"gala/auth"
	"gala/repository"
	"gala/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouteInfo struct {
	Method        string
	Path          string
	HandlerFunc   gin.HandlerFunc
	Authenticated bool
	RoleRequired  []repository.Role
}

const callerKey = "caller"

func SetRoutes(r *gin.Engine, db *gorm.DB, dispatcher *service.Dispatcher, results *service.ResultsCache) {
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupJudgeController(db, dispatcher)...)
	routes = append(routes, setupAdminController(db, dispatcher, results)...)
	routes = append(routes, setupUserController(db)...)
	api := r.Group("/api")
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(route.RoleRequired))
		}
		handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		api.Handle(route.Method, route.Path, handlerfuncs...)
	}
}

// tokenFromRequest reads the auth cookie, then the bearer header, then the token query
// parameter used by websocket clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("auth"); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

func AuthMiddleware(roles []repository.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		claims, err := auth.ParseClaims(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		c.Set(callerKey, &service.Caller{UserId: claims.UserId, Role: claims.Role})
		if len(roles) == 0 {
			c.Next()
			return
		}
		for _, requiredRole := range roles {
			if requiredRole == claims.Role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	}
}

func getCaller(c *gin.Context) *service.Caller {
	if value, ok := c.Get(callerKey); ok {
		if caller, ok := value.(*service.Caller); ok {
			return caller
		}
	}
	return nil
}

// intParam parses a path parameter; a malformed id is a validation failure.
func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		app_error.Respond(c, app_error.Validation("invalid "+name))
		return 0, false
	}
	return value, true
}

// optionalIntQuery parses an optional query parameter; empty means absent.
func optionalIntQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		app_error.Respond(c, app_error.Validation("invalid "+name))
		return nil, false
	}
	return &value, true
}

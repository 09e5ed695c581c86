package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/ctxutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// authenticate validates the bearer token and stores the request data on the request context.
func (am *AuthMiddleware) authenticate(c *gin.Context) (*ctxutil.RequestData, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorEnvelope{
			Error: response.APIError{Message: "missing or invalid token", Code: "unauthorized"},
		})
		return nil, false
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		code := "unauthorized"
		if ae, ok := apierr.As(err); ok && ae.Code != "" {
			code = ae.Code
		}
		am.log.Debug("token rejected", "code", code)
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorEnvelope{
			Error: response.APIError{Message: err.Error(), Code: code},
		})
		return nil, false
	}
	c.Request = c.Request.WithContext(ctx)
	return ctxutil.GetRequestData(ctx), true
}

// RequireAuth admits end-user tokens only.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd, ok := am.authenticate(c)
		if !ok {
			return
		}
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorEnvelope{
				Error: response.APIError{Message: "forbidden", Code: "forbidden"},
			})
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd, ok := am.authenticate(c)
		if !ok {
			return
		}
		if !rd.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorEnvelope{
				Error: response.APIError{Message: "admin access required", Code: "forbidden"},
			})
			return
		}
		c.Next()
	}
}

// bearerToken reads the Authorization header only; tokens in query strings end up in access logs.
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Flagroom/internal/dto"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
	"github.com/rs/zerolog/log"
)

const userContextKey = "currentUser"

// SessionClaims is the token payload minted by the external auth
// service. Only the identity travels in the token; role and verified
// state are read from the user store on every request.
type SessionClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Authenticate parses the bearer token and resolves the caller's user
// record. Credentials themselves are owned by the external auth service;
// this only consumes its tokens.
func Authenticate(secret string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Missing or malformed Authorization header"})
			return
		}

		var claims SessionClaims
		token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("Rejected invalid session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid session token"})
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			log.Warn().Err(err).Uint("userID", claims.UserID).Msg("Session token references unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid session token"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// RequireRoles gates a route to the given roles. Students must also be
// verified; teachers are trusted once authenticated.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}

		allowed := false
		for _, role := range roles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Insufficient permissions"})
			return
		}

		if user.Role == model.RoleStudent && !user.Verified {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Account not verified"})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"photo-store/domain/dto"
	"photo-store/domain/model"
	"photo-store/domain/repository"
	"photo-store/infrastructure/logger"
)

func Auth(userRepository repository.IUser, secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		if authorization == "" {
			abort(ctx, http.StatusUnauthorized, "401", "Unauthorized")
			return
		}
		auth := strings.Split(authorization, "Bearer ")
		if len(auth) != 2 {
			abort(ctx, http.StatusUnauthorized, "401", "Unauthorized")
			return
		}
		userClaims, token, err := getClaim(auth[1], secretKey)
		if err != nil || !token.Valid {
			abort(ctx, http.StatusUnauthorized, "401", reason(err))
			return
		}

		if userRepository == nil {
			logger.GetLogger().Warn("User repository not configured; rejecting authenticated request")
			abort(ctx, http.StatusServiceUnavailable, "503", "Authentication is unavailable")
			return
		}
		user, err := userRepository.GetByUserName(ctx.Request.Context(), userClaims.UserName)
		if err != nil {
			logger.GetLogger().WithField("user_name", userClaims.UserName).Info("Token user not found")
			abort(ctx, http.StatusUnauthorized, "401", "Unauthorized")
			return
		}
		ctx.Set("user_id", user.ID)
		ctx.Set("user_name", user.UserName)
		ctx.Next()
	}
}

func abort(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, dto.Res{
		ResponseCode:    code,
		ResponseMessage: message,
	})
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		}
		if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
		return fmt.Sprintf("Couldn't handle this token:%v", err)
	}
	return "Unauthorized"
}

func getClaim(tokenString, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}

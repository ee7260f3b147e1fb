package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// StoreIDParam is the route parameter naming the merchant's store
	StoreIDParam = "store_id"
	// StoreIDKey holds the verified store id in the gin context
	StoreIDKey = "store_id"
)

// StoreOwnerVerifier checks that a user owns a store
type StoreOwnerVerifier interface {
	VerifyOwner(ctx context.Context, userID, storeID uuid.UUID) error
}

// StoreAccess resolves :store_id and lets only its owner through.
// It must run after JWTAuthMiddleware.
func StoreAccess(verifier StoreOwnerVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(RequestIDKey)

		storeID, err := uuid.Parse(c.Param(StoreIDParam))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput, "Invalid store ID", requestID))
			return
		}
		userID, err := uuid.Parse(GetJWTUserID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}

		if err := verifier.VerifyOwner(c.Request.Context(), userID, storeID); err != nil {
			switch {
			case errors.Is(err, shared.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Store not found", requestID))
			case errors.Is(err, shared.ErrForbidden):
				c.AbortWithStatusJSON(http.StatusForbidden,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "You do not own this store", requestID))
			default:
				logger.FromContext(c.Request.Context()).Error("store ownership check failed", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
			}
			return
		}

		c.Set(StoreIDKey, storeID.String())
		c.Request = c.Request.WithContext(logger.WithStoreID(c.Request.Context(), storeID.String()))
		c.Next()
	}
}

// GetStoreID returns the store id verified by StoreAccess
func GetStoreID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(StoreIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/cafe-pos/internal/application/service"
	"github.com/sangkips/cafe-pos/internal/presentation/http/middleware"
	"github.com/sangkips/cafe-pos/pkg/apperror"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetActor builds the acting user from the token claims
func GetActor(c *gin.Context) (service.Actor, bool) {
	userID := GetUserID(c)
	if userID == nil {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID: *userID,
		Name:   c.GetString(middleware.ContextUserName),
		Email:  c.GetString(middleware.ContextUserEmail),
		Role:   c.GetString(middleware.ContextUserRole),
	}, true
}

// parseID reads a uuid path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + name)
	}
	return id, nil
}

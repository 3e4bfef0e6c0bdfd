package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horarios-api/internal/middleware"
	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/service"
)

func sessionFromContext(c *gin.Context) *models.Session {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil
	}
	return session
}

func claimsFromContext(c *gin.Context) *models.AdminClaims {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return nil
	}
	return claims
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

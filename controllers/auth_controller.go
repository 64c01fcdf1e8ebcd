package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/superkingsely080296-boop/Comms-API-master/pkg/resp"
	"github.com/superkingsely080296-boop/Comms-API-master/services"
)

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Svc: s} }

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, err := h.Svc.Login(req.Username, req.Password)
	if err != nil {
		resp.Unauthorized(c, "invalid username or password")
		return
	}
	resp.OK(c, gin.H{"token": token})
}

package controller

import (
	"great_awareness_backend/internal/service"
	"great_awareness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// MessageResponse is returned by endpoints that only report an outcome.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account. Email, username, verified phone, device id and OTP must be unused.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "Registration data"
// @Success 201 {object} util.Response{data=service.UserResponse} "Created"
// @Failure 400 {object} util.Response "Invalid input or duplicate identity"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// Login godoc
// @Summary Log in
// @Description Exchanges email (or username) and password for a bearer token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=service.TokenResponse}
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Invalid credentials or inactive account"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, token)
}

// Verify godoc
// @Summary Verify a token
// @Tags auth
// @Produce  json
// @Param   token query string true "JWT"
// @Success 200 {object} util.Response{data=service.VerifyResponse}
// @Failure 401 {object} util.Response "Invalid token"
// @Router /api/auth/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	resp, err := c.AuthService.Verify(ctx.Query("token"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserResponse}
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.AuthService.Me(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always succeeds so account existence is not revealed
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.ForgotPasswordRequest true "Email"
// @Success 200 {object} util.Response{data=MessageResponse}
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, MessageResponse{Message: "If the email is registered, a reset link has been sent"})
}

// ResetPassword godoc
// @Summary Reset a password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} util.Response{data=MessageResponse}
// @Failure 400 {object} util.Response "Invalid or expired token"
// @Router /api/auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req service.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResetPassword(ctx.Request.Context(), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, MessageResponse{Message: "Password has been reset"})
}

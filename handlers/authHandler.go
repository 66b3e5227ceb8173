package handlers

import (
	"GlobalDent/services"
	"GlobalDent/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		UserService: userService,
	}
}

// Register creates a new operator account
func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.UserService.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login authenticates the operator, sets the auth cookies and returns the tokens
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &credentials) {
		return
	}

	user, tokens, err := h.UserService.Login(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	})
}

// RefreshToken issues a new access token from a refresh token taken from
// the body, the refreshToken query parameter or the refresh cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.ShouldBindJSON(&body)

	token := body.RefreshToken
	if token == "" {
		token = c.Query("refreshToken")
	}
	if token == "" {
		token, _ = c.Cookie(utils.RefreshTokenCookie)
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh token is required"})
		return
	}

	accessToken, err := h.UserService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logoff logs the operator out by clearing cookies
func (h *AuthHandler) Logoff(c *gin.Context) {
	utils.ClearAuthCookies(c)
	c.Status(http.StatusOK)
}

func (h *AuthHandler) GetUserProfile(c *gin.Context) {
	operatorID, ok := utils.OperatorFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
		return
	}

	user, err := h.UserService.Profile(c.Request.Context(), *operatorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SendResetCode sends a password reset code to the operator's email
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var data struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &data) {
		return
	}

	if err := h.UserService.SendResetCode(c.Request.Context(), data.Email); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ChangePassword sets a new password after checking the reset code
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var data struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if !bindJSON(c, &data) {
		return
	}

	if err := h.UserService.ChangePassword(c.Request.Context(), data.Email, data.Code, data.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

// safeNext 只允许站内相对路径，防止开放重定向
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Next": c.Query("next")})
}

func (h *AuthHandler) Register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	password := c.PostForm("password")
	next := c.PostForm("next")

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Please enter a valid email address.", "Next": next})
		return
	}
	if name == "" {
		// 没填名字就用邮箱前缀
		name = parts[0]
	}

	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Password must be at least 6 characters.", "Next": next})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/register.html", gin.H{"Error": "Something went wrong. Please try again.", "Next": next})
		return
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Render(c, http.StatusConflict, "auth/register.html", gin.H{"Error": "This email is already registered.", "Next": next})
		return
	}

	// 发送激活邮件
	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	db.DB.Save(&user)
	h.mailService.SendWelcomeEmail(email, code)

	Render(c, http.StatusOK, "auth/activate.html", gin.H{
		"Success": "Account created. We sent an activation code to your email.",
		"Email":   email,
		"Next":    next,
	})
}

func (h *AuthHandler) ShowActivate(c *gin.Context) {
	Render(c, http.StatusOK, "auth/activate.html", gin.H{"Email": c.Query("email")})
}

func (h *AuthHandler) Activate(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	code := c.PostForm("code")
	next := c.PostForm("next")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusBadRequest, "auth/activate.html", gin.H{"Error": "Account not found.", "Email": email})
		return
	}

	if user.IsActivated {
		Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "Account already activated. Please sign in.", "Next": next})
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != code {
		Render(c, http.StatusBadRequest, "auth/activate.html", gin.H{"Error": "Incorrect activation code.", "Email": email})
		return
	}

	user.IsActivated = true
	user.VerifyCode = ""
	db.DB.Save(&user)

	// 激活成功后自动登录
	session := sessions.DefaultMany(c, middleware.AuthSession)
	session.Set("user_id", user.ID)
	_ = session.Save()

	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	password := c.PostForm("password")
	next := c.PostForm("next")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Incorrect email or password.", "Next": next})
		return
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Incorrect email or password.", "Next": next})
		return
	}

	if !user.IsActivated {
		Render(c, http.StatusUnauthorized, "auth/activate.html", gin.H{
			"Error": "Account not activated. Please enter your activation code.",
			"Email": email,
			"Next":  next,
		})
		return
	}

	session := sessions.DefaultMany(c, middleware.AuthSession)
	session.Set("user_id", user.ID)
	_ = session.Save()

	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	// 只清登录会话，匿名评论台账要留着
	session := sessions.DefaultMany(c, middleware.AuthSession)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowForgotPassword(c *gin.Context) {
	Render(c, http.StatusOK, "auth/forgot_password.html", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// 不暴露账号是否存在
		Render(c, http.StatusOK, "auth/reset_password.html", gin.H{
			"Success": "If that account exists, a reset code is on its way.",
			"Email":   email,
		})
		return
	}

	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	db.DB.Save(&user)
	h.mailService.SendPasswordResetEmail(email, code)

	Render(c, http.StatusOK, "auth/reset_password.html", gin.H{"Email": email})
}

func (h *AuthHandler) ShowResetPassword(c *gin.Context) {
	Render(c, http.StatusOK, "auth/reset_password.html", gin.H{"Email": c.Query("email")})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
	code := c.PostForm("code")
	newPassword := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusBadRequest, "auth/reset_password.html", gin.H{"Error": "Account not found.", "Email": email})
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != code {
		Render(c, http.StatusBadRequest, "auth/reset_password.html", gin.H{"Error": "Incorrect or expired reset code.", "Email": email})
		return
	}

	if len(newPassword) < 6 {
		Render(c, http.StatusBadRequest, "auth/reset_password.html", gin.H{"Error": "Password must be at least 6 characters.", "Email": email})
		return
	}

	hash, _ := utils.HashPassword(newPassword)
	user.Password = hash
	user.VerifyCode = ""
	db.DB.Save(&user)

	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "Password reset. Please sign in."})
}

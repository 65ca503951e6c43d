package middleware

import (
	"net/http"
	"net/url"

	"inkwell/internal/db"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const IsAdminKey = "is_admin"

// AuthSession 登录态 cookie 会话名
const AuthSession = "inkwell_session"

// LoadUser retrieves user from session and sets to context
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.DefaultMany(c, AuthSession)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
				// 管理员判定只有一个裁决点（services.IsAdmin）
				c.Set(IsAdminKey, services.IsAdmin(user.Email, services.AdminEmail()))
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in, 未登录跳转登录页并带上回跳地址
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 后台路由守卫，服务端独立校验管理员身份，不信任前端隐藏入口
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get(IsAdminKey)
		if admin, ok := isAdmin.(bool); !ok || !admin {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TrackVisitor 每个浏览器会话只累计一次站点访客数
func TrackVisitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.DefaultMany(c, AuthSession)
		if session.Get("site_visited") == nil {
			session.Set("site_visited", true)
			_ = session.Save()
			services.GetCounterService().ScheduleVisitor()
		}
		c.Next()
	}
}

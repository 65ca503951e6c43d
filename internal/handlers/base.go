package handlers

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// currentUser 取当前登录用户，未登录返回 nil
func currentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists && u != nil {
		return u.(*models.User)
	}
	return nil
}

// Render helper to inject common variables like 'current user'.
// 传入的 obj 可能来自页面缓存，被多个请求共享，这里只读不写：
// 每次渲染拷贝到新 map 再注入请求级数据
func Render(c *gin.Context, code int, name string, obj gin.H) {
	data := make(gin.H, len(obj)+8)
	for k, v := range obj {
		data[k] = v
	}

	// Inject Current User
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		data["CurrentUser"] = user
		if isAdmin, ok := c.Get(middleware.IsAdminKey); ok {
			data["IsAdmin"] = isAdmin.(bool)
		}
	}

	// 布局公共数据：公告条和推广弹窗（走缓存）
	data["Announcement"] = services.Announcement()
	data["Popup"] = services.Popup()
	data["CurrentPath"] = c.Request.URL.Path

	// 一次性 flash 消息
	session := sessions.DefaultMany(c, middleware.AuthSession)
	if flash := session.Get("flash"); flash != nil {
		data["Flash"] = flash
		session.Delete("flash")
		_ = session.Save()
	}
	if flashErr := session.Get("flash_error"); flashErr != nil {
		data["FlashError"] = flashErr
		session.Delete("flash_error")
		_ = session.Save()
	}

	c.HTML(code, name, data)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// Flash 设置一次性提示消息，下一次渲染后清除
func Flash(c *gin.Context, message string) {
	session := sessions.DefaultMany(c, middleware.AuthSession)
	session.Set("flash", message)
	_ = session.Save()
}

// FlashError 设置一次性错误消息
func FlashError(c *gin.Context, message string) {
	session := sessions.DefaultMany(c, middleware.AuthSession)
	session.Set("flash_error", message)
	_ = session.Save()
}

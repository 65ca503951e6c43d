package router

import (
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	blogHandler := handlers.NewBlogHandler()
	commentHandler := handlers.NewCommentHandler()
	bookmarkHandler := handlers.NewBookmarkHandler()
	pollHandler := handlers.NewPollHandler()
	userHandler := handlers.NewUserHandler()
	adminHandler := handlers.NewAdminHandler()
	seoHandler := handlers.NewSEOHandler()

	// 公共路由 (Public Routes)
	r.GET("/", blogHandler.Home)             // 首页 - 文章列表
	r.GET("/blog/:slug", blogHandler.Detail) // 文章详情页
	r.GET("/tags/:tag", blogHandler.ListByTag)
	r.GET("/search", blogHandler.Search)

	// 评论提交在服务层校验登录；删除可走台账口令，登出后同设备也能删自己的评论
	r.POST("/blog/:slug/comment", commentHandler.Create)
	r.POST("/blog/:slug/comment/:id/delete", commentHandler.Delete)

	r.GET("/register", authHandler.ShowRegister)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/activate", authHandler.ShowActivate)
	r.POST("/activate", authHandler.Activate)
	r.GET("/forgot-password", authHandler.ShowForgotPassword)
	r.POST("/forgot-password", authHandler.ForgotPassword)
	r.GET("/reset-password", authHandler.ShowResetPassword)
	r.POST("/reset-password", authHandler.ResetPassword)

	// SEO
	r.GET("/robots.txt", seoHandler.RobotsTxt)
	r.GET("/sitemap.xml", seoHandler.SitemapXML)
	r.GET("/feed.xml", seoHandler.RSSFeed)

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/bookmark/:id", bookmarkHandler.Toggle) // 收藏/取消收藏
		authorized.POST("/poll/:id/vote", pollHandler.Vote)      // 投票

		authorized.GET("/bookmarks", userHandler.Bookmarks)
		authorized.GET("/settings", userHandler.ShowSettings)
		authorized.POST("/settings/profile", userHandler.UpdateProfile)
		authorized.POST("/settings/password", userHandler.ChangePassword)
	}

	// 管理后台 (Admin Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("", adminHandler.Dashboard)

		admin.GET("/posts", adminHandler.ListPosts)
		admin.GET("/posts/new", adminHandler.ShowCreatePost)
		admin.POST("/posts/new", adminHandler.CreatePost)
		admin.GET("/posts/:id/edit", adminHandler.ShowEditPost)
		admin.POST("/posts/:id/edit", adminHandler.UpdatePost)
		admin.POST("/posts/:id/delete", adminHandler.DeletePost)

		admin.POST("/posts/:id/poll", adminHandler.SavePoll)
		admin.POST("/posts/:id/poll/delete", adminHandler.DeletePoll)

		admin.GET("/comments", adminHandler.ListComments)
		admin.POST("/comments/:id/approve", adminHandler.SetCommentApproved)
		admin.POST("/comments/:id/delete", adminHandler.DeleteComment)

		admin.GET("/settings", adminHandler.ShowSettings)
		admin.POST("/settings", adminHandler.SaveSettings)
	}
}

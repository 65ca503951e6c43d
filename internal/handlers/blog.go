package handlers

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/storage"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	comments *services.CommentController
}

func NewBlogHandler() *BlogHandler {
	return &BlogHandler{
		comments: services.NewCommentController(storage.NewPostgresStore(db.DB)),
	}
}

// RenderedComment 评论树的渲染视图，带上渲染后的 HTML 和作者标识
type RenderedComment struct {
	models.Comment
	BodyHTML   template.HTML
	AuthorName string
	FromAdmin  bool
	Mine       bool
	Replies    []*RenderedComment
}

// PollResultRow 投票结果的一行，百分比向下取整
type PollResultRow struct {
	Option  models.PollOption
	Count   int64
	Percent int
}

// renderCommentTree 把评论树转成模板可用的视图节点
func renderCommentTree(nodes []*services.CommentNode, ledger map[string]string, adminEmail, adminName string) []*RenderedComment {
	out := make([]*RenderedComment, 0, len(nodes))
	for _, n := range nodes {
		name, fromAdmin := services.CommentBadge(&n.Comment, adminEmail, adminName)
		_, mine := ledger[n.ID]
		rc := &RenderedComment{
			Comment:    n.Comment,
			BodyHTML:   utils.RenderComment(n.Comment.Comment),
			AuthorName: name,
			FromAdmin:  fromAdmin,
			Mine:       mine,
			Replies:    renderCommentTree(n.Replies, ledger, adminEmail, adminName),
		}
		out = append(out, rc)
	}
	return out
}

// fillCommentCounts 批量填充文章的评论数量（只统计已通过的）
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID string
		Count  int
	}
	var results []CountResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ? AND approved = ?", postIDs, true).
		Group("post_id").
		Scan(&results)

	countMap := make(map[string]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// sidebarData 侧边栏公共数据：阅读最多 + 最近 7 天趋势
func sidebarData() gin.H {
	cacheKey := "blog:sidebar"
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			return hData
		}
	}

	// 没有任何阅读量时该栏目整个不出现
	var topRead []models.Post
	db.DB.Select("id, title, slug, view_count").
		Where("published = ? AND view_count > 0", true).
		Order("view_count DESC").
		Limit(3).
		Find(&topRead)

	var trending []models.Post
	weekAgo := time.Now().AddDate(0, 0, -7)
	db.DB.Select("id, title, slug, view_count, created_at").
		Where("published = ? AND created_at > ?", true, weekAgo).
		Order("view_count DESC").
		Limit(5).
		Find(&trending)

	data := gin.H{
		"TopRead":  topRead,
		"Trending": trending,
	}
	utils.GetCache().Set(cacheKey, data, 5*time.Minute)
	return data
}

func (h *BlogHandler) Home(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum := utils.StringToInt(p); pageNum > 0 {
			page = pageNum
		}
	}

	cacheKey := fmt.Sprintf("blog:home:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "blog/list.html", hData)
			return
		}
	}

	perPage := 10
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Post{}).Where("published = ?", true).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	db.DB.Where("published = ?", true).
		Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&posts)

	fillCommentCounts(posts)

	siteURL := utils.SiteURL()
	fullURL := siteURL
	if page > 1 {
		fullURL = fmt.Sprintf("%s?page=%d", siteURL, page)
	}

	renderData := gin.H{
		"Posts":       posts,
		"Active":      "home",
		"Title":       "Inkwell",
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Description": "Essays and notes on software, writing and whatever else catches my eye.",
		"FullURL":     fullURL,
	}
	for k, v := range sidebarData() {
		renderData[k] = v
	}

	// 首页缓存 1 分钟
	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "blog/list.html", renderData)
}

func (h *BlogHandler) ListByTag(c *gin.Context) {
	tag := strings.ToLower(strings.TrimSpace(c.Param("tag")))
	if tag == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum := utils.StringToInt(p); pageNum > 0 {
			page = pageNum
		}
	}

	perPage := 10
	offset := (page - 1) * perPage

	// 标签是逗号串，匹配要带边界，避免 go 命中 golang
	tagCond := "published = ? AND (tags = ? OR tags LIKE ? OR tags LIKE ? OR tags LIKE ?)"
	tagArgs := []interface{}{true, tag, tag + ",%", "%," + tag, "%," + tag + ",%"}

	var total int64
	db.DB.Model(&models.Post{}).Where(tagCond, tagArgs...).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	db.DB.Where(tagCond, tagArgs...).
		Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&posts)

	fillCommentCounts(posts)

	fullURL := fmt.Sprintf("%s/tags/%s", utils.SiteURL(), tag)
	if page > 1 {
		fullURL = fmt.Sprintf("%s?page=%d", fullURL, page)
	}

	renderData := gin.H{
		"Posts":       posts,
		"Active":      "tag",
		"Tag":         tag,
		"Title":       "#" + tag,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Description": fmt.Sprintf("Posts tagged with %s", tag),
		"FullURL":     fullURL,
	}
	for k, v := range sidebarData() {
		renderData[k] = v
	}

	Render(c, http.StatusOK, "blog/list.html", renderData)
}

func (h *BlogHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	var posts []models.Post
	if query != "" {
		searchPattern := "%" + query + "%"
		db.DB.Where("published = ? AND (title ILIKE ? OR excerpt ILIKE ? OR content ILIKE ?)", true, searchPattern, searchPattern, searchPattern).
			Order("created_at DESC").
			Limit(50).
			Find(&posts)
	}

	fillCommentCounts(posts)

	description := "Search the archive"
	if query != "" {
		description = fmt.Sprintf("Search results for '%s'", query)
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Posts":       posts,
		"Query":       query,
		"Active":      "search",
		"Title":       "Search",
		"Description": description,
		"FullURL":     fmt.Sprintf("%s/search?q=%s", utils.SiteURL(), query),
	})
}

func (h *BlogHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	var user *models.User
	if u, exists := c.Get(middleware.CheckUserKey); exists && u != nil {
		user = u.(*models.User)
	}
	isAdmin := c.GetBool(middleware.IsAdminKey)

	var post models.Post
	if err := db.DB.Where("slug = ?", slug).First(&post).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// 草稿只对管理员可见
	if !post.Published && !isAdmin {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	// 浏览量按会话去重：一个会话对一篇文章只计一次
	session := sessions.DefaultMany(c, middleware.AuthSession)
	viewKey := "viewed_" + post.ID
	if post.Published && session.Get(viewKey) == nil {
		services.GetCounterService().ScheduleView(post.ID)
		post.ViewCount++
		session.Set(viewKey, true)
		_ = session.Save()
	}

	// 渲染评论树，挂上匿名台账的"我的评论"标记
	comments, err := h.comments.List(c.Request.Context(), post.ID)
	if err != nil {
		comments = nil
	}
	ledgerSession := sessions.DefaultMany(c, services.LedgerCookie)
	ledger := services.LedgerAll(ledgerSession)
	adminEmail := services.AdminEmail()
	adminName := services.AdminDisplayName()
	tree := renderCommentTree(services.BuildCommentTree(comments), ledger, adminEmail, adminName)

	// 文章投票
	var poll models.Poll
	var hasPoll bool
	var pollResults []PollResultRow
	var votedOption string
	var voterAvatars []string
	if err := db.DB.Where("post_id = ?", post.ID).First(&poll).Error; err == nil {
		hasPoll = true
		type VoteCount struct {
			OptionID string
			Count    int64
		}
		var counts []VoteCount
		db.DB.Model(&models.PollVote{}).
			Select("option_id, COUNT(*) as count").
			Where("poll_id = ?", poll.ID).
			Group("option_id").
			Scan(&counts)
		byOption := make(map[string]int64, len(counts))
		var total int64
		for _, vc := range counts {
			byOption[vc.OptionID] = vc.Count
			total += vc.Count
		}
		for _, opt := range poll.OptionList() {
			row := PollResultRow{Option: opt, Count: byOption[opt.ID]}
			if total > 0 {
				row.Percent = int(row.Count * 100 / total)
			}
			pollResults = append(pollResults, row)
		}
		if user != nil {
			var vote models.PollVote
			if err := db.DB.Where("poll_id = ? AND user_id = ?", poll.ID, user.ID).First(&vote).Error; err == nil {
				votedOption = vote.OptionID
			}
		}
		// 最近投票者头像，最多取 5 个
		db.DB.Model(&models.PollVote{}).
			Select("users.avatar_url").
			Joins("JOIN users ON users.id = poll_votes.user_id").
			Where("poll_votes.poll_id = ? AND users.avatar_url <> ''", poll.ID).
			Order("poll_votes.created_at DESC").
			Limit(5).
			Scan(&voterAvatars)
	}

	// 登录用户的收藏状态
	isBookmarked := false
	if user != nil {
		var bookmark models.Bookmark
		if err := db.DB.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&bookmark).Error; err == nil {
			isBookmarked = true
		}
	}

	// 上一篇 / 下一篇（只在已发布文章之间翻）
	var prevPost models.Post
	hasPrev := db.DB.Select("slug, title").
		Where("published = ? AND created_at < ?", true, post.CreatedAt).
		Order("created_at DESC").
		First(&prevPost).Error == nil

	var nextPost models.Post
	hasNext := db.DB.Select("slug, title").
		Where("published = ? AND created_at > ?", true, post.CreatedAt).
		Order("created_at ASC").
		First(&nextPost).Error == nil

	// SEO / OG 数据
	siteURL := utils.SiteURL()
	description := post.Excerpt
	if description == "" {
		description = utils.AutoExcerpt(post.Content, 150)
	}
	imageURL := post.FeaturedImage
	if imageURL == "" {
		imageURL = utils.FirstImageURL(post.Content)
	}
	if imageURL == "" {
		imageURL = "/static/img/logo.svg"
	}
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		if !strings.HasPrefix(imageURL, "/") {
			imageURL = "/" + imageURL
		}
		imageURL = siteURL + imageURL
	}

	Render(c, http.StatusOK, "blog/detail.html", gin.H{
		"Post":          post,
		"PostContent":   utils.SanitizePostHTML(post.Content),
		"Comments":      tree,
		"CommentCount":  services.CountVisible(comments),
		"Title":         post.Title,
		"Tags":          post.TagList(),
		"HasPoll":       hasPoll,
		"Poll":          poll,
		"PollResults":   pollResults,
		"VotedOption":   votedOption,
		"PollVoters":    voterAvatars,
		"IsBookmarked":  isBookmarked,
		"HasPrev":       hasPrev,
		"PrevPost":      prevPost,
		"HasNext":       hasNext,
		"NextPost":      nextPost,
		"Description":   description,
		"FullURL":       fmt.Sprintf("%s/blog/%s", siteURL, post.Slug),
		"ImageURL":      imageURL,
		"Author":        services.AdminDisplayName(),
		"PublishedTime": post.CreatedAt.Format(time.RFC3339),
		"ModifiedTime":  post.UpdatedAt.Format(time.RFC3339),
		"ViewCountText": utils.FormatViewCount(post.ViewCount),
	})
}

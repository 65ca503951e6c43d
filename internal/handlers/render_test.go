package handlers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// warmSettingsCache 预热设置缓存，让 Render 不用连库就能拿到公告和弹窗
func warmSettingsCache() {
	utils.GetCache().Set("settings:"+models.SettingAnnouncement, "", time.Minute)
	utils.GetCache().Set("settings:"+models.SettingSitePopup, "", time.Minute)
}

func newRenderTestRouter(shared gin.H) *gin.Engine {
	gin.SetMode(gin.TestMode)
	warmSettingsCache()

	r := gin.New()
	tmpl := template.Must(template.New("page.html").Parse(
		`user={{with .CurrentUser}}{{.Name}}{{end}};title={{.Title}}`))
	r.SetHTMLTemplate(tmpl)
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.SessionsMany([]string{middleware.AuthSession, services.LedgerCookie}, store))

	// as 参数模拟登录态，空则按游客处理
	r.GET("/page", func(c *gin.Context) {
		if name := c.Query("as"); name != "" {
			c.Set(middleware.CheckUserKey, &models.User{Name: name})
			c.Set(middleware.IsAdminKey, false)
		}
		Render(c, http.StatusOK, "page.html", shared)
	})
	return r
}

// 首页把渲染数据放进页面缓存，同一份 map 会被多个请求复用。
// 登录态是请求级数据，绝不能写进共享 map 串给后面的游客。
func TestRenderDoesNotLeakUserIntoSharedData(t *testing.T) {
	shared := gin.H{"Title": "cached"}
	r := newRenderTestRouter(shared)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/page?as=alice", nil))
	if !strings.Contains(w1.Body.String(), "user=alice") {
		t.Fatalf("logged-in render missing user: %q", w1.Body.String())
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/page", nil))
	if strings.Contains(w2.Body.String(), "alice") {
		t.Fatalf("anonymous visitor rendered with previous user's identity: %q", w2.Body.String())
	}

	// 共享 map 本身必须保持只有页面数据
	for _, key := range []string{"CurrentUser", "IsAdmin", "Announcement", "Popup", "CurrentPath", "Flash", "FlashError"} {
		if _, ok := shared[key]; ok {
			t.Errorf("shared data map was mutated with %q", key)
		}
	}
}

// flash 是一次性消息，同样不能留在共享的缓存数据里
func TestRenderFlashStaysPerRequest(t *testing.T) {
	shared := gin.H{"Title": "cached"}
	r := newRenderTestRouter(shared)

	// 先种一条 flash，再带着 cookie 渲染
	seed := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	seed.Use(sessions.SessionsMany([]string{middleware.AuthSession, services.LedgerCookie}, store))
	seed.GET("/seed", func(c *gin.Context) {
		Flash(c, "saved")
		c.Status(http.StatusNoContent)
	})
	ws := httptest.NewRecorder()
	seed.ServeHTTP(ws, httptest.NewRequest(http.MethodGet, "/seed", nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	for _, ck := range ws.Result().Cookies() {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)

	if _, ok := shared["Flash"]; ok {
		t.Fatal("one-shot flash message leaked into shared data map")
	}
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// newCommentTestApp 只挂删除路由，外加两个直接读写台账 cookie 的辅助路由
func newCommentTestApp(h *CommentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.SessionsMany([]string{middleware.AuthSession, services.LedgerCookie}, store))
	r.POST("/blog/:slug/comment/:id/delete", h.Delete)
	r.GET("/ledger/put", func(c *gin.Context) {
		s := sessions.DefaultMany(c, services.LedgerCookie)
		services.LedgerRecord(s, c.Query("id"), c.Query("secret"))
		c.Status(http.StatusNoContent)
	})
	r.GET("/ledger/get", func(c *gin.Context) {
		s := sessions.DefaultMany(c, services.LedgerCookie)
		c.String(http.StatusOK, services.LedgerGet(s, c.Query("id")))
	})
	return r
}

// cookieJar 在请求之间传递 Set-Cookie，同名后写的覆盖先写的
type cookieJar map[string]*http.Cookie

func (j cookieJar) absorb(w *httptest.ResponseRecorder) {
	for _, ck := range w.Result().Cookies() {
		j[ck.Name] = ck
	}
}

func (j cookieJar) attach(req *http.Request) {
	for _, ck := range j {
		req.AddCookie(ck)
	}
}

// 登出后的同设备删除：没有登录态，凭台账密钥删掉评论，
// 删除成功后台账里的条目也要跟着清掉
func TestDeleteWithLedgerSecretClearsEntry(t *testing.T) {
	store := storage.NewMemoryStore()
	ctrl := services.NewCommentController(store)
	h := &CommentHandler{comments: ctrl}
	r := newCommentTestApp(h)

	author := &models.User{ID: 7, Name: "ink", Email: "ink@example.com"}
	comment, secret, err := ctrl.Submit(context.Background(), author, "post-1", nil, "hello there")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	jar := cookieJar{}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger/put?id="+comment.ID+"&secret="+secret, nil))
	jar.absorb(w)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blog/post-1/comment/"+comment.ID+"/delete", nil)
	jar.attach(req)
	r.ServeHTTP(w, req)
	jar.absorb(w)

	if w.Code != http.StatusFound {
		t.Fatalf("delete status = %d, want %d", w.Code, http.StatusFound)
	}
	if store.Len() != 0 {
		t.Fatalf("comment still in store after delete, len = %d", store.Len())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ledger/get?id="+comment.ID, nil)
	jar.attach(req)
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "" {
		t.Fatalf("ledger entry survived delete: %q", got)
	}
}

// 密钥不对时删除被拒，评论和台账条目都原样保留
func TestDeleteRejectedKeepsLedgerEntry(t *testing.T) {
	store := storage.NewMemoryStore()
	ctrl := services.NewCommentController(store)
	h := &CommentHandler{comments: ctrl}
	r := newCommentTestApp(h)

	author := &models.User{ID: 7, Name: "ink", Email: "ink@example.com"}
	comment, _, err := ctrl.Submit(context.Background(), author, "post-1", nil, "hello there")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	jar := cookieJar{}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ledger/put?id="+comment.ID+"&secret=wrong-secret", nil))
	jar.absorb(w)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/blog/post-1/comment/"+comment.ID+"/delete", nil)
	jar.attach(req)
	r.ServeHTTP(w, req)
	jar.absorb(w)

	if store.Len() != 1 {
		t.Fatalf("rejected delete changed the store, len = %d", store.Len())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ledger/get?id="+comment.ID, nil)
	jar.attach(req)
	r.ServeHTTP(w, req)
	if got := w.Body.String(); got != "wrong-secret" {
		t.Fatalf("ledger entry after rejected delete = %q, want %q", got, "wrong-secret")
	}
}

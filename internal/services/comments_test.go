package services

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/storage"
)

func testUser(id uint, name, email string) *models.User {
	return &models.User{ID: id, Name: name, Email: email, AvatarURL: "https://img.example/" + name + ".png"}
}

func TestSubmitRequiresUser(t *testing.T) {
	store := storage.NewMemoryStore()
	cc := NewCommentController(store)

	_, _, err := cc.Submit(context.Background(), nil, "post-1", nil, "hello")
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("Expected ErrLoginRequired, got %v", err)
	}
	// 前置校验失败不触碰存储
	if store.Len() != 0 {
		t.Errorf("Store should be untouched, has %d rows", store.Len())
	}
}

func TestSubmitRejectsEmptyBody(t *testing.T) {
	store := storage.NewMemoryStore()
	cc := NewCommentController(store)

	for _, body := range []string{"", "   ", "\n\t "} {
		_, _, err := cc.Submit(context.Background(), testUser(1, "ann", "ann@example.com"), "post-1", nil, body)
		if !errors.Is(err, ErrEmptyComment) {
			t.Errorf("Body %q: expected ErrEmptyComment, got %v", body, err)
		}
	}
	if store.Len() != 0 {
		t.Errorf("Store should be untouched, has %d rows", store.Len())
	}
}

func TestSubmitFreezesIdentityAndSecret(t *testing.T) {
	store := storage.NewMemoryStore()
	cc := NewCommentController(store)
	user := testUser(7, "ann", "ann@example.com")

	comment, secret, err := cc.Submit(context.Background(), user, "post-1", nil, "first!")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if comment.ID == "" {
		t.Error("Stored comment should have a server-assigned id")
	}
	if secret == "" || comment.Secret != secret {
		t.Error("Returned secret should match the stored one")
	}
	if !comment.Approved {
		t.Error("Comments are approved at insert time")
	}
	if comment.Name != "ann" || comment.Email != "ann@example.com" || comment.AvatarURL == "" {
		t.Errorf("Identity not frozen onto the comment: %+v", comment)
	}

	// 改账号资料不回写已落库的评论
	user.Name = "annie"
	stored, err := store.Get(context.Background(), comment.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Name != "ann" {
		t.Errorf("Frozen name changed to %s", stored.Name)
	}
}

// 缺 avatar_url 列的旧库：整条插入失败后省略该列重试一次，评论不重复落库
func TestSubmitAvatarColumnRetry(t *testing.T) {
	store := storage.NewMemoryStore()
	store.RejectAvatarColumn = true
	cc := NewCommentController(store)

	comment, _, err := cc.Submit(context.Background(), testUser(1, "ann", "ann@example.com"), "post-1", nil, "hi")
	if err != nil {
		t.Fatalf("Retry should have succeeded: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Retry duplicated the comment, store has %d rows", store.Len())
	}
	stored, _ := store.Get(context.Background(), comment.ID)
	if stored.AvatarURL != "" {
		t.Errorf("Retry should omit avatar_url, got %q", stored.AvatarURL)
	}
}

// 一次性故障会被重试恰好一次，落库不重复
func TestSubmitRetriesTransientFailureOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailNextInsert = errors.New("connection reset")
	cc := NewCommentController(store)

	comment, _, err := cc.Submit(context.Background(), testUser(1, "ann", "ann@example.com"), "post-1", nil, "hi")
	if err != nil {
		t.Fatalf("Single transient failure should be retried once: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Expected exactly one stored comment, got %d", store.Len())
	}
	if comment.ID == "" {
		t.Error("Retried insert should assign an id")
	}
}

// 重试自身再失败就放弃，错误原样上抛
func TestSubmitGivesUpAfterRetry(t *testing.T) {
	store := storage.NewMemoryStore()
	insertErr := errors.New("database is down")
	store.FailAllInserts = insertErr
	cc := NewCommentController(store)

	_, _, err := cc.Submit(context.Background(), testUser(1, "ann", "ann@example.com"), "post-1", nil, "hi")
	if !errors.Is(err, insertErr) {
		t.Fatalf("Expected the insert error to surface, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Nothing should be stored, got %d rows", store.Len())
	}
}

func TestDeleteAuthorization(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "boss@example.com")

	store := storage.NewMemoryStore()
	cc := NewCommentController(store)
	owner := testUser(3, "ann", "ann@example.com")

	comment, secret, err := cc.Submit(context.Background(), owner, "post-1", nil, "mine")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	cases := []struct {
		name    string
		actor   *models.User
		secret  string
		allowed bool
	}{
		{"无口令的路人", testUser(9, "bob", "bob@example.com"), "", false},
		{"错误口令", nil, "wrong-secret", false},
		{"正确口令", nil, secret, true},
		{"登录的作者本人", owner, "", true},
		{"管理员", testUser(1, "boss", "boss@example.com"), "", true},
	}

	for _, tc := range cases {
		if got := cc.CanDelete(tc.actor, comment, tc.secret); got != tc.allowed {
			t.Errorf("%s: CanDelete = %v, want %v", tc.name, got, tc.allowed)
		}
	}

	// 未授权的删除不改动数据
	if err := cc.Delete(context.Background(), nil, comment.ID, "wrong"); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Expected ErrNotAllowed, got %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Unauthorized delete changed the store")
	}

	// 口令删除成功
	if err := cc.Delete(context.Background(), nil, comment.ID, secret); err != nil {
		t.Errorf("Secret delete failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Comment not removed")
	}
}

func TestDeleteMissingComment(t *testing.T) {
	cc := NewCommentController(storage.NewMemoryStore())
	err := cc.Delete(context.Background(), nil, "nope", "whatever")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// 一层级联：删根时直接子回复一起删，孙辈留在表里但从渲染树消失
func TestDeleteCascadesOneLevel(t *testing.T) {
	store := storage.NewMemoryStore()
	cc := NewCommentController(store)
	user := testUser(1, "ann", "ann@example.com")

	root, _, _ := cc.Submit(context.Background(), user, "post-1", nil, "root")
	child, _, _ := cc.Submit(context.Background(), user, "post-1", &root.ID, "child")
	_, _, _ = cc.Submit(context.Background(), user, "post-1", &child.ID, "grandchild")

	if err := cc.Delete(context.Background(), user, root.ID, ""); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// 孙辈的行还在
	if store.Len() != 1 {
		t.Fatalf("Expected orphaned grandchild row to survive, store has %d rows", store.Len())
	}

	// 但渲染树为空
	remaining, _ := cc.List(context.Background(), "post-1")
	if tree := BuildCommentTree(remaining); len(tree) != 0 {
		t.Errorf("Orphaned grandchild should not render, got %d roots", len(tree))
	}
}

func TestSetApprovedAdminOnly(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "boss@example.com")

	store := storage.NewMemoryStore()
	cc := NewCommentController(store)
	user := testUser(2, "ann", "ann@example.com")

	comment, _, _ := cc.Submit(context.Background(), user, "post-1", nil, "hello")

	if err := cc.SetApproved(context.Background(), user, comment.ID, false); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Non-admin moderation should fail, got %v", err)
	}

	admin := testUser(1, "boss", "boss@example.com")
	if err := cc.SetApproved(context.Background(), admin, comment.ID, false); err != nil {
		t.Fatalf("Admin moderation failed: %v", err)
	}

	visible, _ := cc.List(context.Background(), "post-1")
	if len(visible) != 0 {
		t.Errorf("Unapproved comment still listed publicly")
	}

	all, _ := cc.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("Admin list should include pending comments, got %d", len(all))
	}
}

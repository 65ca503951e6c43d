package services

import (
	"testing"
	"time"

	"inkwell/internal/models"
)

func strPtr(s string) *string { return &s }

func flatComments() []models.Comment {
	base := time.Now()
	return []models.Comment{
		{ID: "1", Comment: "root one", CreatedAt: base},
		{ID: "2", ParentID: strPtr("1"), Comment: "reply to one", CreatedAt: base.Add(time.Minute)},
		{ID: "3", ParentID: strPtr("2"), Comment: "nested reply", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "4", Comment: "root two", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "5", ParentID: strPtr("1"), Comment: "another reply to one", CreatedAt: base.Add(4 * time.Minute)},
	}
}

func TestBuildCommentTree(t *testing.T) {
	tree := BuildCommentTree(flatComments())

	if len(tree) != 2 {
		t.Fatalf("Expected 2 roots, got %d", len(tree))
	}
	if tree[0].ID != "1" || tree[1].ID != "4" {
		t.Errorf("Roots out of order: %s, %s", tree[0].ID, tree[1].ID)
	}

	// 1 的直接回复按原始顺序
	if len(tree[0].Replies) != 2 {
		t.Fatalf("Expected 2 replies under root 1, got %d", len(tree[0].Replies))
	}
	if tree[0].Replies[0].ID != "2" || tree[0].Replies[1].ID != "5" {
		t.Errorf("Replies out of order: %s, %s", tree[0].Replies[0].ID, tree[0].Replies[1].ID)
	}

	// 嵌套回复挂在 2 下面
	if len(tree[0].Replies[0].Replies) != 1 || tree[0].Replies[0].Replies[0].ID != "3" {
		t.Errorf("Nested reply not attached under 2")
	}
}

// 孤儿评论（父节点不在列表里）既不当根也不挂树
func TestBuildCommentTreeOrphan(t *testing.T) {
	comments := []models.Comment{
		{ID: "1", Comment: "root"},
		{ID: "9", ParentID: strPtr("gone"), Comment: "orphan"},
	}

	tree := BuildCommentTree(comments)
	if len(tree) != 1 {
		t.Fatalf("Expected 1 root, got %d", len(tree))
	}
	if tree[0].ID != "1" || len(tree[0].Replies) != 0 {
		t.Errorf("Orphan leaked into the tree")
	}

	if got := CountVisible(comments); got != 1 {
		t.Errorf("CountVisible = %d, want 1", got)
	}
}

// 一级级联删除后，孙子评论成为孤儿，从渲染树里消失
func TestBuildCommentTreeAfterCascade(t *testing.T) {
	comments := flatComments()

	// 模拟删除 1 及其直接子级 2、5，行 3 还留在表里
	remaining := []models.Comment{comments[2], comments[3]}

	tree := BuildCommentTree(remaining)
	if len(tree) != 1 {
		t.Fatalf("Expected 1 root after cascade, got %d", len(tree))
	}
	if tree[0].ID != "4" {
		t.Errorf("Expected root 4, got %s", tree[0].ID)
	}
}

func TestRootsAndChildren(t *testing.T) {
	comments := flatComments()

	roots := Roots(comments)
	if len(roots) != 2 {
		t.Errorf("Roots = %d, want 2", len(roots))
	}

	children := Children(comments, "1")
	if len(children) != 2 {
		t.Fatalf("Children(1) = %d, want 2", len(children))
	}
	if children[0].ID != "2" || children[1].ID != "5" {
		t.Errorf("Children out of original order")
	}

	if got := Children(comments, "404"); len(got) != 0 {
		t.Errorf("Children of unknown id should be empty")
	}
}

func TestBuildCommentTreeEmpty(t *testing.T) {
	if tree := BuildCommentTree(nil); len(tree) != 0 {
		t.Errorf("Empty input should build an empty tree")
	}
}

package services

import (
	"inkwell/internal/models"
)

// 评论树构建器：输入为按 created_at 升序的平铺列表，输出只做划分、不做排序，
// 顺序完全继承自存储层的 ORDER BY。纯函数，每次渲染整树重建（单页评论量很小）。
//
// parent_id 指向不存在评论的"孤儿"既不是根也挂不到任何父节点，
// 会静默地从可见树中消失。这是沿用的既有行为，构建器不做校验。

// CommentNode 可渲染的评论节点
type CommentNode struct {
	models.Comment
	Replies []*CommentNode
}

// Roots 返回 parent_id 为空的评论，保持原有相对顺序
func Roots(comments []models.Comment) []models.Comment {
	var roots []models.Comment
	for _, c := range comments {
		if !c.IsReply() {
			roots = append(roots, c)
		}
	}
	return roots
}

// Children 返回 parent_id == parentID 的评论，保持原有相对顺序
func Children(comments []models.Comment, parentID string) []models.Comment {
	var children []models.Comment
	for _, c := range comments {
		if c.IsReply() && *c.ParentID == parentID {
			children = append(children, c)
		}
	}
	return children
}

// BuildCommentTree 构建评论森林：根评论带递归嵌套的回复
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	byParent := make(map[string][]*CommentNode)
	var roots []*CommentNode

	// 先按输入顺序建节点
	nodes := make([]*CommentNode, len(comments))
	for i, c := range comments {
		nodes[i] = &CommentNode{Comment: c}
	}

	for _, n := range nodes {
		if n.IsReply() {
			byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
		} else {
			roots = append(roots, n)
		}
	}

	var attach func(n *CommentNode)
	attach = func(n *CommentNode) {
		n.Replies = byParent[n.ID]
		for _, r := range n.Replies {
			attach(r)
		}
	}
	for _, r := range roots {
		attach(r)
	}

	return roots
}

// CountVisible 可见树的节点总数（孤儿不计入）
func CountVisible(comments []models.Comment) int {
	total := 0
	var walk func(nodes []*CommentNode)
	walk = func(nodes []*CommentNode) {
		for _, n := range nodes {
			total++
			walk(n.Replies)
		}
	}
	walk(BuildCommentTree(comments))
	return total
}

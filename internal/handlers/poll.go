package handlers

import (
	"net/http"

	"inkwell/internal/db"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

type PollHandler struct{}

func NewPollHandler() *PollHandler {
	return &PollHandler{}
}

// Vote 投票。每人每个投票只能投一次，重复提交直接回落到结果页。
func (h *PollHandler) Vote(c *gin.Context) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists || user == nil {
		c.Redirect(http.StatusFound, "/login?next="+c.PostForm("next"))
		return
	}
	currentUser := user.(*models.User)

	pollID := c.Param("id")
	optionID := c.PostForm("option_id")

	var poll models.Poll
	if err := db.DB.Preload("Post").Where("id = ?", pollID).First(&poll).Error; err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	backURL := "/blog/" + poll.Post.Slug + "#poll"

	// 选项必须是投票里真实存在的
	valid := false
	for _, opt := range poll.OptionList() {
		if opt.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		FlashError(c, "Invalid poll option.")
		c.Redirect(http.StatusFound, backURL)
		return
	}

	// 已投过票就不再写入，唯一索引兜底并发
	var existing models.PollVote
	if err := db.DB.Where("poll_id = ? AND user_id = ?", poll.ID, currentUser.ID).First(&existing).Error; err == nil {
		c.Redirect(http.StatusFound, backURL)
		return
	}

	vote := models.PollVote{
		PollID:   poll.ID,
		UserID:   currentUser.ID,
		OptionID: optionID,
	}
	if err := db.DB.Create(&vote).Error; err != nil {
		// 唯一索引冲突说明并发下已经投过了
		c.Redirect(http.StatusFound, backURL)
		return
	}

	Flash(c, "Vote recorded.")
	c.Redirect(http.StatusFound, backURL)
}

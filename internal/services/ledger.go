package services

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
)

// 匿名作者台账：评论 id -> 作者口令 的持久映射，存在浏览器侧的长期 cookie 里
// （cookie 名 my_comments）。只是同设备回访的便利机制，不是跨设备的授权依据；
// 删除时服务端仍会用口令与落库值比对。

// LedgerCookie 台账 cookie 会话名
const LedgerCookie = "my_comments"

// 会话里存序列化后的映射（cookie 存储只接受平坦的字符串值）
const ledgerKey = "entries"

// ParseLedger 反序列化台账，空串或坏数据返回空映射
func ParseLedger(raw string) map[string]string {
	entries := make(map[string]string)
	if raw == "" {
		return entries
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return make(map[string]string)
	}
	return entries
}

// EncodeLedger 序列化台账
func EncodeLedger(entries map[string]string) string {
	data, err := json.Marshal(entries)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func ledgerEntries(s sessions.Session) map[string]string {
	raw, _ := s.Get(ledgerKey).(string)
	return ParseLedger(raw)
}

func saveLedger(s sessions.Session, entries map[string]string) {
	// 台账要比登录会话活得久，写入时单独拉长这个 cookie 的有效期
	s.Options(sessions.Options{Path: "/", MaxAge: 86400 * 365, HttpOnly: true})
	s.Set(ledgerKey, EncodeLedger(entries))
	_ = s.Save()
}

// LedgerRecord 合并一条 id->口令 记录
func LedgerRecord(s sessions.Session, commentID, secret string) {
	entries := ledgerEntries(s)
	entries[commentID] = secret
	saveLedger(s, entries)
}

// LedgerRemove 删除一条记录，不存在则不动 cookie
func LedgerRemove(s sessions.Session, commentID string) {
	entries := ledgerEntries(s)
	if _, ok := entries[commentID]; !ok {
		return
	}
	delete(entries, commentID)
	saveLedger(s, entries)
}

// LedgerGet 取某条评论的口令，没有返回空串
func LedgerGet(s sessions.Session, commentID string) string {
	return ledgerEntries(s)[commentID]
}

// LedgerAll 全部台账记录（渲染删除按钮时用）
func LedgerAll(s sessions.Session) map[string]string {
	return ledgerEntries(s)
}

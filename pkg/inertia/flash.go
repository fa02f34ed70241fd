package inertia

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash_status"

// SetFlash stores a one shot status message that survives the next redirect.
// gin escapes the cookie value itself.
// SetFlash 设置一次性状态消息
func SetFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

// PopFlash returns and clears the pending status message.
// PopFlash 读取并清除状态消息
func PopFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return msg
}

// FlashProps is a SharedFunc exposing the popped message as flash.status.
func FlashProps(c *gin.Context) Props {
	return Props{"flash": map[string]any{"status": PopFlash(c)}}
}

package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// AppNameKey gin context key of the application name
	AppNameKey = "app_name"
	// AppVersionKey gin context key of the application version
	AppVersionKey = "app_version"
)

// AppInfoWithConfig 注入应用名称与版本，页面共享属性从中读取
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AppNameKey, name)
		c.Set(AppVersionKey, version)
		c.Next()
	}
}

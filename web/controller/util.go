package controller

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/web/session"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// html renders a page. Pending flashes are consumed and shown on it.
func html(c *gin.Context, status int, name string, titleKey string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = I18nWeb(c, titleKey)
	data["flashes"] = session.Flashes(c)
	data["username"] = session.GetLoginUser(c)
	data["request_uri"] = c.Request.RequestURI
	c.HTML(status, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver": config.GetVersion(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

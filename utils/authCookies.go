package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	setCookie(c, AccessTokenCookie, accessToken, AccessTokenExpiry)
	setCookie(c, RefreshTokenCookie, refreshToken, RefreshTokenExpiry)
}

func setCookie(c *gin.Context, name, value string, expiry time.Duration) {
	c.SetCookie(name, value, int(expiry.Seconds()), "/", "", secureCookies(), true)
}

func ClearAuthCookies(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secureCookies(), true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secureCookies(), true)
}

// secureCookies is off only in gin debug mode, for local development over plain HTTP.
func secureCookies() bool {
	return gin.Mode() != gin.DebugMode
}

package middleware

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetUpMiddleware installs the cookie session (the join flow remembers the
// player's email in it) and the CORS policy. Games are joined through
// shared links from arbitrary origins, so the policy is wide open; the
// session cookie needs AllowCredentials.
func SetUpMiddleware(r *gin.Engine) {
	store := cookie.NewStore([]byte(os.Getenv("SESSION_KEY")))
	store.Options(sessions.Options{
		Path:     "/",
		Secure:   os.Getenv("PROD") == "true",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("boxpool_session", store))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
}

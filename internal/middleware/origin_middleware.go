package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/config"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	"github.com/imperiopizzas/imperio-backend/pkg/util"
)

const OriginKey = "order_origin"

// OriginMiddleware classifies every request as a table or an outside visit.
// Table links write a signed session cookie so later pages stay internal.
type OriginMiddleware struct {
	originService service.OriginService
	cookieName    string
	secret        string
	tokenTTL      time.Duration
	secure        bool
}

func NewOriginMiddleware(originService service.OriginService, cfg *config.SessionConfig) *OriginMiddleware {
	return &OriginMiddleware{
		originService: originService,
		cookieName:    cfg.OriginCookieName,
		secret:        cfg.Secret,
		tokenTTL:      cfg.OriginTokenTTL,
		secure:        cfg.SecureCookies,
	}
}

func (m *OriginMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		session := m.sessionOrigin(c)
		res, err := m.originService.Resolve(c.Request.Context(), c.Request.URL.Path, session)
		if err != nil {
			// Classification is best effort; an outage must not block browsing.
			log.Error("Failed to resolve order origin", err)
			res = service.OriginResolution{Origin: session}
		}

		if res.Persist && res.Origin != nil {
			token, err := util.GenerateOriginToken(res.Origin.TableID, res.Origin.TableNumber, m.secret, m.tokenTTL)
			if err != nil {
				log.Error("Failed to sign origin token", err)
			} else {
				// MaxAge 0 keeps the cookie for the browser session only.
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(m.cookieName, token, 0, "/", "", m.secure, true)
			}
		}

		if res.Origin != nil {
			c.Set(OriginKey, *res.Origin)
		}
		c.Next()
	}
}

// sessionOrigin reads the origin cookie. Missing, tampered or expired
// tokens are ignored.
func (m *OriginMiddleware) sessionOrigin(c *gin.Context) *model.Origin {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		return nil
	}

	claims, err := util.ValidateOriginToken(token, m.secret)
	if err != nil {
		GetLoggerFromContext(c).Debug("Ignoring origin cookie", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	origin := model.InternalOrigin(claims.TableID, claims.TableNumber)
	return &origin
}

// GetOrigin returns the origin resolved for this request, if any.
func GetOrigin(c *gin.Context) (model.Origin, bool) {
	v, ok := c.Get(OriginKey)
	if !ok {
		return model.Origin{}, false
	}
	origin, ok := v.(model.Origin)
	return origin, ok
}

// OriginOrExternal treats requests without an assignment as external.
func OriginOrExternal(c *gin.Context) model.Origin {
	if origin, ok := GetOrigin(c); ok {
		return origin
	}
	return model.ExternalOrigin()
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/service"
	apperrors "github.com/imperiopizzas/imperio-backend/internal/errors"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
)

type SessionController struct{}

func NewSessionController() *SessionController {
	return &SessionController{}
}

type OriginResponse struct {
	Assigned bool         `json:"assigned"`
	Origin   model.Origin `json:"origin"`
}

func originResponse(c *gin.Context) OriginResponse {
	origin, ok := middleware.GetOrigin(c)
	if !ok {
		origin = model.ExternalOrigin()
	}
	return OriginResponse{Assigned: ok, Origin: origin}
}

// GetOrigin reports how the current session is classified
// GET /api/session/origin
func (ctrl *SessionController) GetOrigin(c *gin.Context) {
	c.JSON(http.StatusOK, originResponse(c))
}

// TableLanding answers QR table links such as /m4. The origin middleware
// has already bound the session; anything else is a plain 404.
func (ctrl *SessionController) TableLanding(c *gin.Context) {
	if _, ok := service.TableNumberFromPath(c.Request.URL.Path); !ok || c.Request.Method != http.MethodGet {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Not found")
		return
	}
	c.JSON(http.StatusOK, originResponse(c))
}

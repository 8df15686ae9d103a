package interfaces

import (
	"Racetrack/internal/racetrack/app"
	"Racetrack/internal/racetrack/interfaces/handler/http"
	transporthttp "Racetrack/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *http.HttpHandler
}

func New(svc *app.RacetrackService) *Module {
	return &Module{
		httpHandler: http.NewHttpHandler(svc),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)

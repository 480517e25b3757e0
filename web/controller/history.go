package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/database/model"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/web/service"
	"github.com/resalelab/carprice/web/session"
)

type HistoryController struct {
	BaseController

	historyService service.HistoryService
}

func NewHistoryController(g *gin.RouterGroup) *HistoryController {
	a := &HistoryController{}
	a.initRouter(g)
	return a
}

func (a *HistoryController) initRouter(g *gin.RouterGroup) {
	g.GET("/history", a.checkLogin("flash.loginRequiredHistory"), a.history)
}

func (a *HistoryController) history(c *gin.Context) {
	username := session.GetLoginUser(c)

	records, err := a.historyService.ListFor(username)
	if err != nil {
		logger.Error("history lookup failed for ", username, ": ", err)
		addFlash(c, session.Danger, "flash.serverError")
		records = []model.Prediction{}
	}
	total, err := a.historyService.CountFor(username)
	if err != nil {
		total = int64(len(records))
	}

	html(c, http.StatusOK, "history.html", "pages.history.title", gin.H{
		"history": records,
		"count":   I18nWebCount(c, "pages.history.count", total),
	})
}

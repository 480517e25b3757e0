package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/features"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/metrics"
	"github.com/resalelab/carprice/web/service"
	"github.com/resalelab/carprice/web/session"
)

var formFields = []string{
	features.FieldYear,
	features.FieldPresentPrice,
	features.FieldKmsDriven,
	features.FieldOwner,
	features.FieldFuelType,
	features.FieldSellerType,
	features.FieldTransmission,
}

// PredictController serves the prediction form and computes predictions.
type PredictController struct {
	BaseController

	predictionService service.PredictionService
	historyService    service.HistoryService
}

func NewPredictController(g *gin.RouterGroup) *PredictController {
	a := &PredictController{}
	a.initRouter(g)
	return a
}

func (a *PredictController) initRouter(g *gin.RouterGroup) {
	g.GET("/predict_page", a.checkLogin("flash.loginRequired"), a.predictPage)
	g.POST("/predict", a.checkLogin("flash.loginRequiredPredict"), a.predict)
}

func (a *PredictController) predictPage(c *gin.Context) {
	html(c, http.StatusOK, "index.html", "pages.predict.title", gin.H{"form": map[string]string{}})
}

func (a *PredictController) predict(c *gin.Context) {
	username := session.GetLoginUser(c)
	form := submittedForm(c)

	if err := a.predictionService.Ready(); err != nil {
		metrics.IncPrediction("unavailable")
		logger.Error("prediction requested without a model: ", err)
		addFlash(c, session.Danger, "flash.modelUnavailable")
		html(c, http.StatusOK, "index.html", "pages.predict.title", gin.H{"form": form})
		return
	}

	car, err := features.Parse(c.GetPostForm)
	if err != nil {
		a.renderFailure(c, form, err)
		return
	}

	outcome, err := a.predictionService.Predict(car)
	if err != nil {
		a.renderFailure(c, form, err)
		return
	}
	metrics.IncPrediction("ok")
	logger.Infof("%s predicted %.2f with model %s", username, outcome.Price, outcome.ModelVersion)

	if err := a.historyService.Append(service.NewRecord(username, outcome)); err != nil {
		metrics.HistoryAppendFailures.Inc()
		logger.Error("history append failed for ", username, ": ", err)
		addFlash(c, session.Warning, "flash.historyNotSaved")
	}

	html(c, http.StatusOK, "index.html", "pages.predict.title", gin.H{
		"form":            form,
		"prediction_text": outcome.Message,
	})
}

func (a *PredictController) renderFailure(c *gin.Context, form map[string]string, err error) {
	if errors.Is(err, service.ErrModelUnavailable) {
		metrics.IncPrediction("unavailable")
		logger.Error("prediction failed: ", err)
		addFlash(c, session.Danger, "flash.modelUnavailable")
	} else {
		metrics.IncPrediction("invalid_input")
		logger.Debug("invalid prediction input: ", err)
		addFlash(c, session.Danger, "flash.invalidInput")
	}
	html(c, http.StatusOK, "index.html", "pages.predict.title", gin.H{"form": form})
}

// submittedForm echoes the posted values back into the form.
func submittedForm(c *gin.Context) map[string]string {
	form := make(map[string]string, len(formFields))
	for _, field := range formFields {
		form[field] = c.PostForm(field)
	}
	return form
}

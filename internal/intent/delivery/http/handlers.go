package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/pkg/response"
)

// Predict godoc
// @Summary     Classify a question
// @Description Scores the question against the loaded rules and returns its intents, ambiguity flags and clarification, plus the config fingerprint.
// @Tags        Intent
// @Accept      json
// @Produce     json
// @Param       body body predictReq true "Question to classify"
// @Success     200  {object} predictResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     429  {object} response.Resp "Too Many Requests"
// @Router      /api/v1/intent/predict [POST]
func (h *handler) Predict(c *gin.Context) {
	req, err := h.processPredictReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	res := h.predictor.Predict(req.Question)
	h.l.Debugf(c.Request.Context(), "intent.delivery.http.Predict: top1=%s ambiguous=%t", res.Top1.Label, res.IsAmbiguous)
	response.OK(c, h.newPredictResp(res))
}

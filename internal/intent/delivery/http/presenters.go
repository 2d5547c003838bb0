package http

import "intent-audit/internal/model"

type predictResp struct {
	model.PredictionResult
	ConfigFingerprint string `json:"config_fingerprint"`
}

func (h *handler) newPredictResp(res model.PredictionResult) predictResp {
	if res.Intents == nil {
		res.Intents = []model.ScoredIntent{}
	}
	return predictResp{PredictionResult: res, ConfigFingerprint: h.fingerprint}
}

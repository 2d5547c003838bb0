package http

import (
	"github.com/gin-gonic/gin"

	"intent-audit/pkg/response"
)

// List godoc
// @Summary     List indexed runs
// @Description Returns every run index entry in log order, with duplicate run ids and malformed lines reported.
// @Tags        Runs
// @Produce     json
// @Success     200 {object} listResp
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/runs [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.List(ctx)
	if err != nil {
		h.l.Errorf(ctx, "runindex.delivery.http.List: %v", err)
		h.writeError(c, err)
		return
	}
	response.OK(c, newListResp(out))
}

// Compare godoc
// @Summary     Compare runs by fingerprint
// @Description Returns the runs recorded under one config fingerprint.
// @Tags        Runs
// @Produce     json
// @Param       fingerprint query string true "Config fingerprint"
// @Success     200 {object} compareResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Run index mirror unavailable"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/runs/compare [GET]
func (h *handler) Compare(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCompareReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.Compare(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "runindex.delivery.http.Compare: %v", err)
		h.writeError(c, err)
		return
	}
	response.OK(c, newCompareResp(out))
}

// Groups godoc
// @Summary     Group runs by fingerprint
// @Description Lists every config fingerprint with the runs recorded under it.
// @Tags        Runs
// @Produce     json
// @Success     200 {object} groupsResp
// @Failure     503 {object} response.Resp "Run index mirror unavailable"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/runs/groups [GET]
func (h *handler) Groups(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.Groups(ctx)
	if err != nil {
		h.l.Warnf(ctx, "runindex.delivery.http.Groups: %v", err)
		h.writeError(c, err)
		return
	}
	response.OK(c, newGroupsResp(out))
}

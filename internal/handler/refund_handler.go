package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/service"
	"pg-bridge-api/internal/utils"
)

// RefundHandler 同步 / 异步退款接口
type RefundHandler struct {
	sync  *service.SyncRefundService
	async *service.AsyncRefundService
}

func NewRefundHandler(sync *service.SyncRefundService, async *service.AsyncRefundService) *RefundHandler {
	return &RefundHandler{sync: sync, async: async}
}

func (h *RefundHandler) cancel(c *gin.Context, fn func(ctx context.Context, req dto.CancelReq) (dto.ResultResp, error)) {
	var req dto.CancelReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ResultResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: utils.ValidationMsg(err)})
		return
	}
	resp, err := fn(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.ResultResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: constant.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SyncCancel POST /api/synchronous-refund/cancel
func (h *RefundHandler) SyncCancel(c *gin.Context) {
	h.cancel(c, h.sync.CancelPayment)
}

// AsyncCancel POST /api/asynchronous-refund/cancel
func (h *RefundHandler) AsyncCancel(c *gin.Context) {
	h.cancel(c, h.async.CancelPayment)
}

// CancelWebhook POST /api/asynchronous-refund/cancel/webhook
func (h *RefundHandler) CancelWebhook(c *gin.Context) {
	var req dto.CancelWebhookReq
	_ = c.ShouldBind(&req)
	resp, err := h.async.HandleCancellationWebhook(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		if isNotifyFailure(err) {
			c.JSON(http.StatusBadRequest, dto.CodeMessageResp{Code: http.StatusBadRequest, Message: "Failed to notify Cafe24"})
			return
		}
		status := constant.HTTPStatus(err)
		c.JSON(status, dto.CodeMessageResp{Code: status, Message: constant.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/service"
	"pg-bridge-api/internal/utils"
)

// CheckoutHandler 同步 / 异步 checkout 接口
type CheckoutHandler struct {
	sync  *service.SyncCheckoutService
	async *service.AsyncCheckoutService
}

func NewCheckoutHandler(sync *service.SyncCheckoutService, async *service.AsyncCheckoutService) *CheckoutHandler {
	return &CheckoutHandler{sync: sync, async: async}
}

type checkoutFunc func(c *gin.Context, req dto.CheckoutReq) (dto.CheckoutResp, error)

func (h *CheckoutHandler) checkout(c *gin.Context, create checkoutFunc) {
	var req dto.CheckoutReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.CheckoutResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: utils.ValidationMsg(err)})
		return
	}
	if extra := extraData(c); extra != nil {
		req.ExtraData = extra
	}
	resp, err := create(c, req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, dto.CheckoutResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: constant.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SyncCheckout POST /api/synchronous-checkout/checkout
func (h *CheckoutHandler) SyncCheckout(c *gin.Context) {
	h.checkout(c, func(c *gin.Context, req dto.CheckoutReq) (dto.CheckoutResp, error) {
		return h.sync.CreateCheckout(c.Request.Context(), req)
	})
}

// SyncCallback GET /api/synchronous-checkout/checkout/callback
func (h *CheckoutHandler) SyncCallback(c *gin.Context) {
	var req dto.SyncCallbackReq
	_ = c.ShouldBindQuery(&req)
	res, err := h.sync.HandleCallback(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.MessageResp{Message: constant.PublicMessage(err)})
		return
	}
	redirect(c, res.Location)
}

// SyncStatus GET /api/synchronous-checkout/checkout/status?key=
func (h *CheckoutHandler) SyncStatus(c *gin.Context) {
	var req dto.PaymentStatusReq
	_ = c.ShouldBind(&req)
	resp, err := h.sync.GetPaymentStatus(c.Request.Context(), req.Key)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.ResultResp{ResultCode: constant.ResultInvalidRequest, ResultMessage: constant.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsyncCheckout POST /api/asynchronous-checkout/checkout
func (h *CheckoutHandler) AsyncCheckout(c *gin.Context) {
	h.checkout(c, func(c *gin.Context, req dto.CheckoutReq) (dto.CheckoutResp, error) {
		return h.async.CreateCheckout(c.Request.Context(), req)
	})
}

// AsyncCallback GET /api/asynchronous-checkout/checkout/callback
func (h *CheckoutHandler) AsyncCallback(c *gin.Context) {
	var req dto.AsyncCallbackReq
	_ = c.ShouldBindQuery(&req)
	res, err := h.async.HandleCallback(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.MessageResp{Message: constant.PublicMessage(err)})
		return
	}
	redirect(c, res.Location)
}

// AsyncWebhook POST /api/asynchronous-checkout/checkout/webhook
func (h *CheckoutHandler) AsyncWebhook(c *gin.Context) {
	var req dto.PaymentWebhookReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResp{Message: "Invalid request"})
		return
	}
	resp, err := h.async.HandleWebhook(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		msg := "Invalid request"
		if isNotifyFailure(err) {
			msg = "Failed webhook"
		}
		c.JSON(http.StatusBadRequest, dto.MessageResp{Message: msg})
		return
	}
	c.JSON(http.StatusOK, resp)
}

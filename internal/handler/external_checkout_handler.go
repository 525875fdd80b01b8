package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/service"
	"pg-bridge-api/internal/utils"
)

// ExternalCheckoutHandler 外部结账按钮接口, 按钮脚本读取 mData / bResult
type ExternalCheckoutHandler struct {
	svc *service.ExternalCheckoutService
}

func NewExternalCheckoutHandler(svc *service.ExternalCheckoutService) *ExternalCheckoutHandler {
	return &ExternalCheckoutHandler{svc: svc}
}

func buttonFail(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.ButtonResp{MData: msg, BResult: false})
}

// ScriptData GET /api/external-checkout/script/data
func (h *ExternalCheckoutHandler) ScriptData(c *gin.Context) {
	var req dto.ScriptDataReq
	if err := c.ShouldBindQuery(&req); err != nil {
		buttonFail(c, http.StatusBadRequest, utils.ValidationMsg(err))
		return
	}
	data, err := h.svc.ScriptData(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		buttonFail(c, constant.HTTPStatus(err), constant.PublicMessage(err))
		return
	}
	c.JSON(http.StatusOK, dto.ButtonResp{MData: data, BResult: true})
}

// OrderRequestHmac GET /api/external-checkout/script/hmac
func (h *ExternalCheckoutHandler) OrderRequestHmac(c *gin.Context) {
	var req dto.OrderRequestHmacReq
	if err := c.ShouldBindQuery(&req); err != nil {
		buttonFail(c, http.StatusBadRequest, utils.ValidationMsg(err))
		return
	}
	c.JSON(http.StatusOK, dto.ButtonResp{MData: h.svc.OrderRequestHmac(req), BResult: true})
}

// Payload POST /api/external-checkout/payload
func (h *ExternalCheckoutHandler) Payload(c *gin.Context) {
	var req dto.PayloadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		buttonFail(c, http.StatusBadRequest, utils.ValidationMsg(err))
		return
	}
	res, err := h.svc.CreatePayload(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		buttonFail(c, constant.HTTPStatus(err), constant.PublicMessage(err))
		return
	}
	c.JSON(http.StatusOK, dto.ButtonResp{MData: res, BResult: true})
}

// Review GET /api/external-checkout/order/review?mall_id=&order_id=
func (h *ExternalCheckoutHandler) Review(c *gin.Context) {
	var req dto.PreviewReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResp{Message: utils.ValidationMsg(err)})
		return
	}
	view, err := h.svc.DisplayOrderPreview(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.MessageResp{Message: constant.PublicMessage(err)})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Pay POST /api/external-checkout/order/pay
func (h *ExternalCheckoutHandler) Pay(c *gin.Context) {
	var req dto.PreviewReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.PaymentResp{Message: utils.ValidationMsg(err)})
		return
	}
	resp, err := h.svc.HandleExternalCheckoutPayment(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		if resp.Message == "" {
			resp.Message = constant.PublicMessage(err)
		}
		c.JSON(constant.HTTPStatus(err), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback GET /api/external-checkout/order/callback?reference_no=
func (h *ExternalCheckoutHandler) Callback(c *gin.Context) {
	var req dto.ExternalCallbackReq
	_ = c.ShouldBindQuery(&req)
	res, err := h.svc.HandleExternalCheckoutCallback(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(constant.HTTPStatus(err), dto.MessageResp{Message: constant.PublicMessage(err)})
		return
	}
	redirect(c, res.Location)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pg-bridge-api/internal/constant"
	"pg-bridge-api/internal/dto"
	"pg-bridge-api/internal/middleware"
	"pg-bridge-api/internal/service"
	"pg-bridge-api/internal/utils"
)

// AdminHandler 商户配置接口, 统一返回 utils.Response
type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) reply(c *gin.Context, view dto.SettingsView, err error) {
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, utils.FromError(err, middleware.TraceID(c)))
		return
	}
	c.JSON(http.StatusOK, utils.Success(view))
}

func (h *AdminHandler) badRequest(c *gin.Context, err error) {
	resp := utils.ErrorWithTrace(constant.CodeInvalidRequest, middleware.TraceID(c))
	resp.Data = utils.ValidationMsg(err)
	c.JSON(http.StatusOK, resp)
}

// Link POST /admin/link
func (h *AdminHandler) Link(c *gin.Context) {
	var req dto.LinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.svc.Link(c.Request.Context(), req)
	h.reply(c, view, err)
}

// Unlink POST /admin/unlink
func (h *AdminHandler) Unlink(c *gin.Context) {
	var req dto.UnlinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.svc.Unlink(c.Request.Context(), req.MallID)
	h.reply(c, view, err)
}

// ToggleShop POST /admin/shop/toggle
func (h *AdminHandler) ToggleShop(c *gin.Context) {
	var req dto.ToggleShopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.svc.ToggleShop(c.Request.Context(), req)
	h.reply(c, view, err)
}

// Settings GET /admin/settings?mall_id=
func (h *AdminHandler) Settings(c *gin.Context) {
	view, err := h.svc.Settings(c.Request.Context(), c.Query("mall_id"))
	h.reply(c, view, err)
}

package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/superkingsely080296-boop/Comms-API-master/entity"
	"github.com/superkingsely080296-boop/Comms-API-master/pkg/resp"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
	"github.com/superkingsely080296-boop/Comms-API-master/services"
)

type AdminController struct {
	Orders     *repository.OrderRepository
	Sessions   *services.SessionService
	Businesses *repository.BusinessRepository
}

func NewAdminController(orders *repository.OrderRepository, sessions *services.SessionService, businesses *repository.BusinessRepository) *AdminController {
	return &AdminController{Orders: orders, Sessions: sessions, Businesses: businesses}
}

// GET /admin/orders?business=&limit=
func (h *AdminController) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := h.Orders.List(c.Query("business"), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /admin/orders/:id
func (h *AdminController) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.Orders.FindByID(uint(id))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if order == nil {
		resp.BadRequest(c, "order not found")
		return
	}
	resp.OK(c, order)
}

// GET /admin/sessions
func (h *AdminController) ListSessions(c *gin.Context) {
	sessions, err := h.Sessions.All()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, sessions)
}

// GET /admin/businesses
func (h *AdminController) ListBusinesses(c *gin.Context) {
	businesses, err := h.Businesses.All()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, businesses)
}

// PUT /admin/businesses - register or update the business behind a webhook
// phone number id, including its synced catalog id.
func (h *AdminController) UpsertBusiness(c *gin.Context) {
	var b entity.Business
	if err := c.ShouldBindJSON(&b); err != nil {
		resp.BadRequest(c, "invalid business payload")
		return
	}
	if b.BusinessID == "" {
		resp.BadRequest(c, "businessId is required")
		return
	}
	if err := h.Businesses.Upsert(&b); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, b)
}

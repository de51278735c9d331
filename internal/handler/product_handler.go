package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skincare-tracker/internal/model"
	"skincare-tracker/internal/service"
)

type ProductHandler struct {
	svc    *service.ProductService
	logger *zap.Logger
}

func NewProductHandler(svc *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, logger: logger}
}

// List handles GET /products/:userId
func (h *ProductHandler) List(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	products, err := h.svc.List(c.Request.Context(), uid, c.Param("userId"))
	if err != nil {
		fail(c, h.logger, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get handles GET /products/item/:id
func (h *ProductHandler) Get(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		fail(c, h.logger, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var p model.Product
	if !bindJSON(c, h.logger, "CreateProduct", &p) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), uid, &p)
	if err != nil {
		fail(c, h.logger, "CreateProduct", err)
		return
	}
	h.logger.Info("CreateProduct: success", zap.String("user_id", uid), zap.String("product_id", created.ID))
	c.JSON(http.StatusCreated, created)
}

func (h *ProductHandler) Update(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	var patch service.ProductPatch
	if !bindJSON(c, h.logger, "UpdateProduct", &patch) {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), uid, c.Param("id"), patch)
	if err != nil {
		fail(c, h.logger, "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	uid, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		fail(c, h.logger, "DeleteProduct", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

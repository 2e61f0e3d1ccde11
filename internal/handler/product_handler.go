package handler

import (
	"net/http"
	"strings"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 一覧・商品詳細・カート追加
type ProductHandler struct {
	uc         *usecase.ProductUsecase
	categories *usecase.CategoryUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, categories *usecase.CategoryUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, categories: categories}
}

type SelectAttributeRequest struct {
	GroupID string `json:"group_id"`
	Value   string `json:"value"`
}

type AddToCartRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.list)
	e.GET("/:category", h.list)

	g := e.Group("/products/:id")
	g.GET("", h.detail)
	g.PUT("/selection", h.selectAttribute)
	g.POST("/cart", h.addToCart)
	g.POST("/quick-add", h.quickAdd)
}

func (h *ProductHandler) list(c echo.Context) error {
	//ナビのハイライトは取得前に合わせる
	h.categories.SyncWithPath(c.Request().URL.Path)

	out, err := h.uc.ListCategoryProducts(c.Request().Context(), c.Param("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	out, err := h.uc.OpenProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) selectAttribute(c echo.Context) error {
	var req SelectAttributeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if strings.TrimSpace(req.GroupID) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "group_id is required"})
	}

	out, err := h.uc.SelectAttribute(c.Param("id"), req.GroupID, req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) addToCart(c echo.Context) error {
	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//省略時は1
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	out, err := h.uc.AddSelectedToCart(c.Request().Context(), c.Param("id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) quickAdd(c echo.Context) error {
	out, err := h.uc.QuickAdd(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

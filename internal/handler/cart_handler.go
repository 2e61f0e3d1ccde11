package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc   *usecase.CartUsecase
	view *usecase.CartViewUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase, view *usecase.CartViewUsecase) *CartHandler {
	return &CartHandler{uc: uc, view: view}
}

// /cart, /cart/lines/{key} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")

	g.GET("", h.getCart)
	g.POST("/lines/:key/increment", h.increment)
	g.POST("/lines/:key/decrement", h.decrement)
	g.DELETE("/lines/:key", h.deleteLine)
}

func (h *CartHandler) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view.View(c.Request().Context()))
}

func (h *CartHandler) increment(c echo.Context) error {
	id, ok := lineIdentityFromParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line key"})
	}

	out, err := h.uc.Increment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) decrement(c echo.Context) error {
	id, ok := lineIdentityFromParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line key"})
	}

	out, err := h.uc.Decrement(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteLine(c echo.Context) error {
	id, ok := lineIdentityFromParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid line key"})
	}

	out, err := h.uc.Remove(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func lineIdentityFromParam(c echo.Context) (model.LineIdentity, bool) {
	id, err := model.ParseLineKey(c.Param("key"))
	if err != nil {
		return model.LineIdentity{}, false
	}
	return id, true
}

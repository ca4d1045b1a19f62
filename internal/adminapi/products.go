package adminapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalogadmin/internal/catalog"
	"github.com/talkincode/catalogadmin/internal/domain"
	"github.com/talkincode/catalogadmin/internal/webserver"
)

type productPayload struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func (p productPayload) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

type bulkDeletePayload struct {
	IDs []int64 `json:"ids"`
}

type addProductResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"productId"`
}

type updateProductResponse struct {
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

type deleteProductResponse struct {
	Message        string             `json:"message"`
	DeletedProduct *domain.ProductRef `json:"deletedProduct"`
}

type bulkDeleteResponse struct {
	Message string `json:"message"`
	*catalog.BulkDeleteResult
}

func (h *Handlers) registerProductRoutes(s *webserver.Server) {
	s.ApiPOST("/products/add", h.addProduct)
	s.ApiGET("/products/list", h.listProducts)
	s.ApiGET("/products/search", h.searchProducts)
	s.ApiGET("/products/export", h.exportProducts)
	s.ApiPOST("/products/bulk-delete", h.bulkDeleteProducts)
	s.ApiGET("/products/:id", h.getProduct)
	s.ApiPUT("/products/:id", h.updateProduct)
	s.ApiDELETE("/products/:id", h.deleteProduct)
}

func (h *Handlers) addProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	id, err := h.products.Add(c.Request().Context(), payload.input())
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, addProductResponse{Message: "Product added successfully", ProductID: id})
}

func (h *Handlers) listProducts(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, products)
}

func (h *Handlers) searchProducts(c echo.Context) error {
	q := catalog.SearchQuery{Query: c.QueryParam("q")}

	// limit and offset are decimal; leading zeros do not switch base

	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer", nil)
		}
		if limit == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 100", nil)
		}
		q.Limit = limit
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "offset must be an integer", nil)
		}
		q.Offset = offset
	}

	result, err := h.products.Search(c.Request().Context(), q)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, result)
}

func (h *Handlers) exportProducts(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.products.Export(c.Request().Context(), &buf); err != nil {
		return failWith(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handlers) bulkDeleteProducts(c echo.Context) error {
	var payload bulkDeletePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "ids must be a non-empty array", nil)
	}
	result, err := h.products.BulkDelete(c.Request().Context(), payload.IDs)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, bulkDeleteResponse{Message: "Products deleted successfully", BulkDeleteResult: result})
}

func (h *Handlers) getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, p)
}

func (h *Handlers) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	p, err := h.products.Update(c.Request().Context(), id, payload.input())
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, updateProductResponse{Message: "Product updated successfully", Product: p})
}

func (h *Handlers) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	ref, err := h.products.Delete(c.Request().Context(), id)
	if err != nil {
		return failWith(c, err)
	}
	return ok(c, deleteProductResponse{Message: "Product deleted successfully", DeletedProduct: ref})
}

package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/internal/service"
	pkgdto "github.com/storefront/storefront-service/pkg/dto"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/response"
	"github.com/storefront/storefront-service/pkg/utils"
)

type ProductController struct {
	service service.ProductService
}

func CreateProductController(e *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc, isAdmin echo.MiddlewareFunc) {
	c := ProductController{
		service: service,
	}
	e.GET("/products", c.GetProducts)
	e.GET("/products/top", c.GetTopProducts)
	e.GET("/products/brands", c.GetBrands)
	e.GET("/products/colors", c.GetColors)
	e.GET("/products/years", c.GetYears)
	e.GET("/products/category/:category", c.GetProductsByCategory)
	e.GET("/products/:id", c.GetProductByID)
	e.POST("/products", c.AddProduct, isLoggedIn, isAdmin)
	e.PUT("/products/:id", c.UpdateProduct, isLoggedIn, isAdmin)
	e.DELETE("/products/:id", c.DeleteProduct, isLoggedIn, isAdmin)
	e.POST("/products/:id/reviews", c.AddProductReview, isLoggedIn)
}

// validationErrors flattens validator violations into the response shape.
func validationErrors(err error) interface{} {
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make([]response.ValidationError, 0, len(violations))
	for _, violation := range violations {
		out = append(out, response.ValidationError{
			Field: violation.Field(),
			Tag:   violation.Tag(),
		})
	}
	return out
}

func (c *ProductController) GetProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
	}

	resp, err := c.service.GetProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved products record", resp)
}

// GetProductsByCategory writes a not-found status when the category holds no
// products, but still ships the (empty) listing payload.
func (c *ProductController) GetProductsByCategory(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProductsByCategory").Msg("")
	}

	resp, err := c.service.GetProductsByCategory(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	statusCode := http.StatusOK
	message := "successfully retrieved products record"
	if len(resp.Products) == 0 {
		statusCode = http.StatusNotFound
		message = "no products found in this category"
	}

	return response.WriteSuccessResponseWithStatus(e, statusCode, message, resp)
}

func (c *ProductController) GetTopProducts(e echo.Context) error {
	products, err := c.service.GetTopProducts(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", products)
}

func (c *ProductController) GetBrands(e echo.Context) error {
	brands, err := c.service.GetBrands(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", brands)
}

func (c *ProductController) GetColors(e echo.Context) error {
	colors, err := c.service.GetColors(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", colors)
}

func (c *ProductController) GetYears(e echo.Context) error {
	years, err := c.service.GetYears(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", years)
}

func (c *ProductController) GetProductByID(e echo.Context) error {
	id := e.Param("id")

	product, err := c.service.GetProductByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", product)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	_, _, externalID, _ := utils.ExtractTokenUser(e)

	product, err := c.service.AddProduct(e.Request().Context(), externalID, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", product)
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	id := e.Param("id")
	payload := dto.ProductRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	payload.ID = id
	product, err := c.service.UpdateProduct(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", product)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	id := e.Param("id")
	err := c.service.DeleteProduct(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "Product removed", nil)
}

func (c *ProductController) AddProductReview(e echo.Context) error {
	id := e.Param("id")
	payload := dto.ReviewRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProductReview").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	_, name, externalID, _ := utils.ExtractTokenUser(e)

	payload.ProductID = id
	err = c.service.AddProductReview(e.Request().Context(), externalID, name, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "Review added", nil)
}

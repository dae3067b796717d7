package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/internal/dto"
	"github.com/storefront/storefront-service/internal/service"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/response"
	"github.com/storefront/storefront-service/pkg/utils"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(e *echo.Group, service service.UserService, isLoggedIn echo.MiddlewareFunc, isAdmin echo.MiddlewareFunc) {
	c := UserController{
		service: service,
	}
	e.POST("/users", c.Register)
	e.POST("/users/auth", c.Login)
	e.POST("/users/logout", c.Logout)
	e.GET("/users/profile", c.GetProfile, isLoggedIn)
	e.PUT("/users/profile", c.UpdateProfile, isLoggedIn)
	e.GET("/users", c.GetUsers, isLoggedIn, isAdmin)
	e.GET("/users/:id", c.GetUserByID, isLoggedIn, isAdmin)
	e.PUT("/users/:id", c.UpdateUser, isLoggedIn, isAdmin)
	e.DELETE("/users/:id", c.DeleteUser, isLoggedIn, isAdmin)
}

func (c *UserController) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	resp, err := c.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (c *UserController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	resp, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// Logout is stateless; tokens simply age out, the client drops its copy.
func (c *UserController) Logout(e echo.Context) error {
	return response.WriteSuccessResponse(e, "Logged out successfully", nil)
}

func (c *UserController) GetProfile(e echo.Context) error {
	_, _, externalID, _ := utils.ExtractTokenUser(e)

	resp, err := c.service.GetProfile(e.Request().Context(), externalID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) UpdateProfile(e echo.Context) error {
	payload := dto.UpdateProfileRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProfile").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	_, _, externalID, _ := utils.ExtractTokenUser(e)

	payload.ExternalID = externalID
	resp, err := c.service.UpdateProfile(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) GetUsers(e echo.Context) error {
	page, err := strconv.Atoi(e.QueryParam("pageNumber"))
	if err != nil {
		page = 1
	}

	resp, err := c.service.GetUsers(e.Request().Context(), page)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) GetUserByID(e echo.Context) error {
	id := e.Param("id")

	resp, err := c.service.GetUserByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) UpdateUser(e echo.Context) error {
	id := e.Param("id")
	payload := dto.UpdateUserRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
	}

	if err := e.Validate(&payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, validationErrors(err))
	}

	payload.ID = id
	resp, err := c.service.UpdateUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) DeleteUser(e echo.Context) error {
	id := e.Param("id")
	err := c.service.DeleteUser(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User removed", nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type roleService interface {
	List(ctx context.Context) ([]domain.Role, error)
	Get(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, name string) (*domain.Role, error)
	Update(ctx context.Context, id int64, name string) (*domain.Role, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Update(ctx context.Context, id int64, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type tagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Get(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, name string) (*domain.Tag, error)
	Update(ctx context.Context, id int64, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

type nameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// ── Roles ────────────────────────────────────────────────────────────────────

type RoleHandler struct {
	roles roleService
}

func NewRoleHandler(roles roleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List
//
// @Summary   List roles
// @Tags      roles
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Role
// @Router    /api/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// @Summary   Get role
// @Tags      roles
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Role ID"
// @Success   200  {object}  domain.Role
// @Failure   404  {object}  errorResponse
// @Router    /api/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.roles.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// @Summary   Create role
// @Tags      roles
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      nameRequest  true  "Role"
// @Success   201   {object}  domain.Role
// @Failure   409   {object}  errorResponse
// @Router    /api/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := h.roles.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// @Summary   Rename role
// @Tags      roles
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int          true  "Role ID"
// @Param     body  body      nameRequest  true  "Role"
// @Success   200   {object}  domain.Role
// @Router    /api/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role, err := h.roles.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// @Summary   Delete role
// @Tags      roles
// @Security  BearerAuth
// @Param     id  path  int  true  "Role ID"
// @Success   204
// @Router    /api/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roles.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ── Categories ───────────────────────────────────────────────────────────────

type CategoryHandler struct {
	categories categoryService
}

func NewCategoryHandler(categories categoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// @Summary   List categories
// @Tags      categories
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Category
// @Router    /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// @Summary   Get category
// @Tags      categories
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Category ID"
// @Success   200  {object}  domain.Category
// @Failure   404  {object}  errorResponse
// @Router    /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// @Summary   Create category
// @Tags      categories
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      categoryRequest  true  "Category"
// @Success   201   {object}  domain.Category
// @Router    /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// @Summary   Update category
// @Tags      categories
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int              true  "Category ID"
// @Param     body  body      categoryRequest  true  "Category"
// @Success   200   {object}  domain.Category
// @Router    /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// @Summary   Delete category
// @Tags      categories
// @Security  BearerAuth
// @Param     id  path  int  true  "Category ID"
// @Success   204
// @Router    /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ── Tags ─────────────────────────────────────────────────────────────────────

type TagHandler struct {
	tags tagService
}

func NewTagHandler(tags tagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// @Summary   List tags
// @Tags      tags
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  domain.Tag
// @Router    /api/tags [get]
func (h *TagHandler) List(c echo.Context) error {
	tags, err := h.tags.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// @Summary   Get tag
// @Tags      tags
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Tag ID"
// @Success   200  {object}  domain.Tag
// @Failure   404  {object}  errorResponse
// @Router    /api/tags/{id} [get]
func (h *TagHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.tags.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// @Summary   Create tag
// @Tags      tags
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      nameRequest  true  "Tag"
// @Success   201   {object}  domain.Tag
// @Router    /api/tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tag)
}

// @Summary   Rename tag
// @Tags      tags
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int          true  "Tag ID"
// @Param     body  body      nameRequest  true  "Tag"
// @Success   200   {object}  domain.Tag
// @Router    /api/tags/{id} [put]
func (h *TagHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req nameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tag, err := h.tags.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tag)
}

// @Summary   Delete tag
// @Tags      tags
// @Security  BearerAuth
// @Param     id  path  int  true  "Tag ID"
// @Success   204
// @Router    /api/tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tags.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"

	model "auction-market/internal/models"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

type CategoryServiceInterface interface {
	List() ([]model.Category, error)
	Get(id uint) (model.Category, error)
	Create(user model.User, name, description string) (model.Category, error)
	Update(user model.User, id uint, name, description *string) (model.Category, error)
	Delete(user model.User, id uint) error
}

type CategoryHandler struct {
	service CategoryServiceInterface
}

func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// ListCategoriesHandler handles GET /categories (public)
func (h *CategoryHandler) ListCategoriesHandler(c *gin.Context) {
	cats, err := h.service.List()
	if err != nil {
		helpers.HandleServiceError(c, "ListCategoriesHandler", err)
		return
	}
	utils.JSONCollection(c, http.StatusOK, "categories", len(cats), helpers.NewCategoryResponses(cats))
}

// GetCategoryHandler handles GET /categories/:id (public)
func (h *CategoryHandler) GetCategoryHandler(c *gin.Context) {
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.service.Get(id)
	if err != nil {
		helpers.HandleServiceError(c, "GetCategoryHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": helpers.NewCategoryResponse(cat)})
}

// CreateCategoryHandler handles POST /categories (admin)
func (h *CategoryHandler) CreateCategoryHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	var req helpers.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateCategoryHandler", err)
		return
	}

	cat, err := h.service.Create(user, req.Name, req.Description)
	if err != nil {
		helpers.HandleServiceError(c, "CreateCategoryHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusCreated, "Category created successfully", "category", helpers.NewCategoryResponse(cat))
	helpers.LogSuccess("CreateCategoryHandler", "category created", map[string]any{"category_id": cat.ID, "name": cat.Name})
}

// UpdateCategoryHandler handles PUT /categories/:id (admin)
func (h *CategoryHandler) UpdateCategoryHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req helpers.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateCategoryHandler", err)
		return
	}

	cat, err := h.service.Update(user, id, req.Name, req.Description)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateCategoryHandler", err)
		return
	}

	utils.JSONResource(c, http.StatusOK, "Category updated successfully", "category", helpers.NewCategoryResponse(cat))
}

// DeleteCategoryHandler handles DELETE /categories/:id (admin)
func (h *CategoryHandler) DeleteCategoryHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}
	id, ok := helpers.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(user, id); err != nil {
		helpers.HandleServiceError(c, "DeleteCategoryHandler", err)
		return
	}

	utils.JSONMessage(c, http.StatusOK, "Category deleted successfully")
}

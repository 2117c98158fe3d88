package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// CategoryController serves the catalog category endpoints.
type CategoryController struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCategoryController(db *gorm.DB, logger *zap.Logger) *CategoryController {
	return &CategoryController{db: db, logger: logger}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// slugFor returns the explicit slug when supplied, otherwise derives one
// from the name. An empty result is a validation error.
func slugFor(req categoryRequest) (string, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = models.Slugify(req.Name)
	}
	if slug == "" {
		return "", utils.NewValidation("category name %q yields an empty slug", req.Name)
	}
	return slug, nil
}

func (cc *CategoryController) slugTaken(c *gin.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := cc.db.WithContext(c.Request.Context()).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, utils.NewInternal("could not check category slug", err)
	}
	return count > 0, nil
}

func (cc *CategoryController) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.db.WithContext(c.Request.Context()).Find(&categories).Error; err != nil {
		respondError(c, cc.logger, utils.NewInternal("could not fetch categories", err))
		return
	}
	c.JSON(http.StatusOK, utils.OK("categories fetched", categories))
}

func (cc *CategoryController) GetCategoryByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid category id"))
		return
	}

	var category models.Category
	dbErr := cc.db.WithContext(c.Request.Context()).Preload("Products").First(&category, "id = ?", id).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		respondError(c, cc.logger, utils.NewNotFound("category %s not found", id))
		return
	}
	if dbErr != nil {
		respondError(c, cc.logger, utils.NewInternal("could not fetch category", dbErr))
		return
	}

	c.JSON(http.StatusOK, utils.OK("category fetched", category))
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}

	slug, err := slugFor(req)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	taken, err := cc.slugTaken(c, slug, uuid.Nil)
	if err != nil {
		respondError(c, cc.logger, err)
		return
	}
	if taken {
		respondError(c, cc.logger, utils.NewConflict("category slug %q already exists", slug))
		return
	}

	category := models.Category{Name: req.Name, Slug: slug}
	if err := cc.db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		respondError(c, cc.logger, utils.NewInternal("could not create category", err))
		return
	}

	c.JSON(http.StatusCreated, utils.OK("category created", category))
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid category id"))
		return
	}

	var category models.Category
	dbErr := cc.db.WithContext(c.Request.Context()).First(&category, "id = ?", id).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		respondError(c, cc.logger, utils.NewNotFound("category %s not found", id))
		return
	}
	if dbErr != nil {
		respondError(c, cc.logger, utils.NewInternal("could not fetch category", dbErr))
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}

	category.Name = req.Name
	// The slug only changes when the client asks for it; renames alone keep
	// existing links working.
	if slug := strings.TrimSpace(req.Slug); slug != "" && slug != category.Slug {
		taken, err := cc.slugTaken(c, slug, category.ID)
		if err != nil {
			respondError(c, cc.logger, err)
			return
		}
		if taken {
			respondError(c, cc.logger, utils.NewConflict("category slug %q already exists", slug))
			return
		}
		category.Slug = slug
	}

	if err := cc.db.WithContext(c.Request.Context()).Save(&category).Error; err != nil {
		respondError(c, cc.logger, utils.NewInternal("could not update category", err))
		return
	}

	c.JSON(http.StatusOK, utils.OK("category updated", category))
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid category id"))
		return
	}

	var productCount int64
	if err := cc.db.WithContext(c.Request.Context()).Model(&models.Product{}).
		Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		respondError(c, cc.logger, utils.NewInternal("could not check category products", err))
		return
	}
	if productCount > 0 {
		respondError(c, cc.logger, utils.NewConflict("category still has %d products", productCount))
		return
	}

	result := cc.db.WithContext(c.Request.Context()).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		respondError(c, cc.logger, utils.NewInternal("could not delete category", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, cc.logger, utils.NewNotFound("category %s not found", id))
		return
	}

	c.JSON(http.StatusOK, utils.OK("category deleted", nil))
}

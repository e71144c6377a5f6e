package controllers

import (
	"errors"
	"strconv"

	"github.com/Suvintm/suvineditography/models"
	"github.com/Suvintm/suvineditography/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PackController manages the credit pack catalog: a public listing for the
// pricing page and admin CRUD
type PackController struct {
	db *gorm.DB
}

// NewPackController creates a PackController
func NewPackController(db *gorm.DB) *PackController {
	return &PackController{db: db}
}

// GET /packs
func (pc *PackController) ListPacks(c *gin.Context) {
	utils.LogInfo("ListPacks called")

	var packs []models.CreditPack
	if err := pc.db.Order("price_paise ASC").Find(&packs).Error; err != nil {
		utils.LogError("Failed to fetch credit packs: %v", err)
		utils.InternalServerError(c, "Failed to fetch packs", err.Error())
		return
	}

	utils.Success(c, "Credit packs retrieved successfully", gin.H{
		"packs": packs,
	})
}

// POST /admin/packs
func (pc *PackController) CreatePack(c *gin.Context) {
	utils.LogInfo("CreatePack called")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Credits     int64  `json:"credits" binding:"required,min=1"`
		PricePaise  int64  `json:"price_paise" binding:"required,min=1"`
		Description string `json:"description"`
		BgColor     string `json:"bg_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create pack request: %v", err)
		utils.BadRequest(c, "Name, credits and price_paise are required", err.Error())
		return
	}

	pack := models.CreditPack{
		Name:        req.Name,
		Credits:     req.Credits,
		PricePaise:  req.PricePaise,
		Description: req.Description,
	}
	if req.BgColor != "" {
		pack.BgColor = req.BgColor
	}
	if err := pc.db.Create(&pack).Error; err != nil {
		utils.LogError("Failed to create pack: %v", err)
		utils.InternalServerError(c, "Failed to create pack", err.Error())
		return
	}
	utils.LogInfo("Created credit pack %d", pack.ID)

	utils.Created(c, "Pack created successfully", gin.H{"pack": pack})
}

// PUT /admin/packs/:id
func (pc *PackController) UpdatePack(c *gin.Context) {
	utils.LogInfo("UpdatePack called")

	packID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid pack id", nil)
		return
	}

	var pack models.CreditPack
	if err := pc.db.First(&pack, uint(packID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Pack not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch pack", err.Error())
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Credits     *int64  `json:"credits"`
		PricePaise  *int64  `json:"price_paise"`
		Description *string `json:"description"`
		BgColor     *string `json:"bg_color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Credits != nil {
		if *req.Credits < 1 {
			utils.BadRequest(c, "Credits must be positive", nil)
			return
		}
		updates["credits"] = *req.Credits
	}
	if req.PricePaise != nil {
		if *req.PricePaise < 1 {
			utils.BadRequest(c, "Price must be positive", nil)
			return
		}
		updates["price_paise"] = *req.PricePaise
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BgColor != nil {
		updates["bg_color"] = *req.BgColor
	}

	if len(updates) > 0 {
		if err := pc.db.Model(&pack).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update pack %d: %v", pack.ID, err)
			utils.InternalServerError(c, "Update failed", err.Error())
			return
		}
	}
	utils.LogInfo("Updated credit pack %d", pack.ID)

	utils.Success(c, "Pack updated successfully", gin.H{"pack": pack})
}

// DELETE /admin/packs/:id
func (pc *PackController) DeletePack(c *gin.Context) {
	utils.LogInfo("DeletePack called")

	packID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid pack id", nil)
		return
	}

	res := pc.db.Delete(&models.CreditPack{}, uint(packID))
	if res.Error != nil {
		utils.LogError("Failed to delete pack %d: %v", packID, res.Error)
		utils.InternalServerError(c, "Deletion failed", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Pack not found")
		return
	}
	utils.LogInfo("Deleted credit pack %d", packID)

	utils.Success(c, "Pack deleted successfully", nil)
}

// EnsureDefaultPacks seeds the pricing page when the catalog is empty
func EnsureDefaultPacks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CreditPack{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	packs := []models.CreditPack{
		{Name: "Starter", Credits: 10, PricePaise: 9900, Description: "10 credits for occasional edits"},
		{Name: "Creator", Credits: 50, PricePaise: 39900, Description: "50 credits for regular creators"},
		{Name: "Studio", Credits: 200, PricePaise: 129900, Description: "200 credits for heavy studio use"},
	}
	return db.Create(&packs).Error
}

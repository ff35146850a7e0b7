package controllers

import (
	"errors"
	"fmt"
	"strings"

	"factory-app/controllers/idgen"
	"factory-app/models"
	"factory-app/types"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(DB *gorm.DB) *ProductController {
	return &ProductController{DB: DB}
}

func (c *ProductController) GetAllProducts(ctx *fiber.Ctx) error {
	var products []models.ProductMaster
	if err := c.DB.Preload("Recipe").Order("code ASC").Find(&products).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    products,
	})
}

type RecipeLinePayload struct {
	MaterialID types.SnowflakeID `json:"material_id" validate:"required"`
	QtyPerUnit decimal.Decimal   `json:"qty_per_unit"`
}

type CreateProductPayload struct {
	Code              string              `json:"code" validate:"required"`
	Name              string              `json:"name" validate:"required"`
	Uom               string              `json:"uom" validate:"required"`
	HsnCode           string              `json:"hsn_code"`
	GstRate           decimal.Decimal     `json:"gst_rate"`
	DefaultLabourRate decimal.Decimal     `json:"default_labour_rate"`
	CostPrice         decimal.Decimal     `json:"cost_price"`
	SellingPrice      decimal.Decimal     `json:"selling_price"`
	Recipe            []RecipeLinePayload `json:"recipe"`
}

func (c *ProductController) CreateProduct(ctx *fiber.Ctx) error {
	var payload CreateProductPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Validasi menggunakan validator
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	userID := getUserID(ctx)

	master := models.ProductMaster{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		Code:              strings.ToUpper(strings.TrimSpace(payload.Code)),
		Name:              strings.TrimSpace(payload.Name),
		Uom:               payload.Uom,
		HsnCode:           payload.HsnCode,
		GstRate:           payload.GstRate,
		DefaultLabourRate: models.Round2(payload.DefaultLabourRate),
		CostPrice:         models.Round2(payload.CostPrice),
		SellingPrice:      models.Round2(payload.SellingPrice),
		CreatedBy:         userID,
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&master).Error; err != nil {
			return err
		}

		for _, line := range payload.Recipe {
			var material models.InventoryItem
			if err := tx.Where("id = ?", line.MaterialID).Take(&material).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("material %d not found", int64(line.MaterialID))
				}
				return err
			}

			recipe := models.RecipeItem{
				ProductMasterID: master.ID,
				MaterialID:      line.MaterialID,
				QtyPerUnit:      line.QtyPerUnit,
			}
			if err := tx.Create(&recipe).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created",
		"data":    master,
	})
}

type ProductUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	SkippedCount  int      `json:"skipped_count"`
	ErrorCount    int      `json:"error_count"`
	SkippedItems  []string `json:"skipped_items"`
	ErrorMessages []string `json:"error_messages"`
}

// CreateProductsFromExcel membaca workbook dua sheet: sheet pertama product
// master, sheet kedua (opsional) baris resep per kode produk.
func (c *ProductController) CreateProductsFromExcel(ctx *fiber.Ctx) error {
	// Get file from request
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	// Validate file extension
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx, .xls) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read Excel file",
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No sheets found in Excel file",
		})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read rows",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Excel file must contain header and at least one data row",
		})
	}

	result := ProductUploadResult{
		TotalRows:     len(rows) - 1,
		SkippedItems:  []string{},
		ErrorMessages: []string{},
	}

	userID := getUserID(ctx)

	// Start transaction
	tx := c.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	codeToID := map[string]types.SnowflakeID{}

	// Process each row (skip header)
	for i, row := range rows[1:] {
		rowNum := i + 2 // Excel row number (header is row 1)

		// Skip empty rows
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		if len(row) < 3 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Insufficient columns (expected at least 3)", rowNum))
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(row[0]))
		name := strings.TrimSpace(row[1])
		uom := strings.TrimSpace(row[2])

		var existing models.ProductMaster
		if err := tx.Where("code = ?", code).Take(&existing).Error; err == nil {
			result.SkippedCount++
			result.SkippedItems = append(result.SkippedItems, code)
			codeToID[code] = existing.ID
			continue
		}

		master := models.ProductMaster{
			ID:        types.SnowflakeID(idgen.GenerateID()),
			Code:      code,
			Name:      name,
			Uom:       uom,
			CreatedBy: userID,
		}
		if len(row) > 3 {
			master.HsnCode = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			master.GstRate = parseDecimalCell(row[4])
		}
		if len(row) > 5 {
			master.DefaultLabourRate = models.Round2(parseDecimalCell(row[5]))
		}
		if len(row) > 6 {
			master.CostPrice = models.Round2(parseDecimalCell(row[6]))
		}
		if len(row) > 7 {
			master.SellingPrice = models.Round2(parseDecimalCell(row[7]))
		}

		if err := tx.Create(&master).Error; err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
			continue
		}

		codeToID[code] = master.ID
		result.SuccessCount++
	}

	// Sheet kedua: resep (product_code, material_name, qty_per_unit)
	if len(sheets) > 1 {
		recipeRows, err := f.GetRows(sheets[1])
		if err == nil && len(recipeRows) > 1 {
			for i, row := range recipeRows[1:] {
				rowNum := i + 2

				if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
					continue
				}

				code := strings.ToUpper(strings.TrimSpace(row[0]))
				materialName := strings.TrimSpace(row[1])
				qtyPerUnit := parseDecimalCell(row[2])

				masterID, ok := codeToID[code]
				if !ok {
					var master models.ProductMaster
					if err := tx.Where("code = ?", code).Take(&master).Error; err != nil {
						result.ErrorCount++
						result.ErrorMessages = append(result.ErrorMessages,
							fmt.Sprintf("Recipe row %d: product %s not found", rowNum, code))
						continue
					}
					masterID = master.ID
					codeToID[code] = masterID
				}

				var material models.InventoryItem
				if err := tx.Where("name = ?", materialName).Take(&material).Error; err != nil {
					if !errors.Is(err, gorm.ErrRecordNotFound) {
						tx.Rollback()
						return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
							"success": false,
							"error":   err.Error(),
						})
					}
					// Material belum ada → dibuat sebagai bahan baku qty 0
					material = models.InventoryItem{
						ID:        types.SnowflakeID(idgen.GenerateID()),
						Name:      materialName,
						Category:  models.CategoryRawMaterial,
						Quantity:  decimal.Zero,
						CreatedBy: userID,
					}
					if err := tx.Create(&material).Error; err != nil {
						result.ErrorCount++
						result.ErrorMessages = append(result.ErrorMessages,
							fmt.Sprintf("Recipe row %d: %s", rowNum, err.Error()))
						continue
					}
				}

				recipe := models.RecipeItem{
					ProductMasterID: masterID,
					MaterialID:      material.ID,
					QtyPerUnit:      qtyPerUnit,
				}
				if err := tx.Create(&recipe).Error; err != nil {
					result.ErrorCount++
					result.ErrorMessages = append(result.ErrorMessages,
						fmt.Sprintf("Recipe row %d: %s", rowNum, err.Error()))
				}
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to commit transaction",
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Upload processed",
		"data":    result,
	})
}

func parseDecimalCell(cell string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil {
		return decimal.Zero
	}
	return d
}

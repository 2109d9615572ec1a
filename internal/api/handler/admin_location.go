package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"jitutong/backend/internal/models"
	"jitutong/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminListLocations lists locations with keyword/status/category filters.
func (h *Handler) AdminListLocations(c *gin.Context) {
	page, pageSize := pageParams(c)
	locs, total, err := h.Store.ListLocations(storage.LocationFilter{
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs, "total": total, "page": page})
}

// AdminCreateLocation creates a location from the console. Same payload as
// the wiki-editor create.
func (h *Handler) AdminCreateLocation(c *gin.Context) {
	h.CreateWikiLocation(c)
}

// AdminUpdateLocation edits a location from the console.
func (h *Handler) AdminUpdateLocation(c *gin.Context) {
	h.UpdateWikiLocation(c)
}

// AdminDeleteLocation removes the row permanently.
func (h *Handler) AdminDeleteLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	loc, err := h.Store.GetLocationByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.DeleteLocation(loc); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Location deleted.")
}

type locationBatchDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// AdminBatchDeleteLocations soft-deletes a list of locations.
func (h *Handler) AdminBatchDeleteLocations(c *gin.Context) {
	var req locationBatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondMessage(c, http.StatusBadRequest, "A non-empty ids list is required.")
		return
	}

	deleted, err := h.Store.SoftDeleteLocations(req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Locations deleted.", "deleted": deleted})
}

type locationImportRequest struct {
	Locations []wikiLocationRequest `json:"locations" binding:"required"`
}

// AdminImportLocations bulk-creates locations from a JSON body. Building ids
// already present are rejected up front so a partial import never happens.
func (h *Handler) AdminImportLocations(c *gin.Context) {
	var req locationImportRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Locations) == 0 {
		respondMessage(c, http.StatusBadRequest, "A non-empty locations list is required.")
		return
	}

	var conflicts []int
	for _, item := range req.Locations {
		if item.BuildingID == nil {
			continue
		}
		if _, err := h.Store.GetLocationByBuildingID(*item.BuildingID); err == nil {
			conflicts = append(conflicts, *item.BuildingID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, err)
			return
		}
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"message":   "Some building ids already exist.",
			"conflicts": conflicts,
		})
		return
	}

	err := h.Store.WithTx(func(tx storage.Storage) error {
		for i := range req.Locations {
			item := &req.Locations[i]
			if item.Name == "" {
				return fmt.Errorf("row %d: name is required", i+1)
			}
			if !validCoords(item.Latitude, item.Longitude) {
				return fmt.Errorf("row %d: coordinates out of range", i+1)
			}
			loc := models.Location{
				BuildingID:     item.BuildingID,
				Name:           item.Name,
				Address:        item.Address,
				MainImage:      item.MainImage,
				RichContent:    item.RichContent,
				StructuredInfo: item.StructuredInfo,
				Description:    item.Description,
				Status:         item.Status,
				Longitude:      item.Longitude,
				Latitude:       item.Latitude,
			}
			if loc.Status == "" {
				loc.Status = models.LocationPublished
			}
			if err := h.attachCategoryAndTags(tx, &loc, item.Category, item.Tags, false); err != nil {
				return err
			}
			if err := tx.CreateLocation(&loc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Locations imported.", "imported": len(req.Locations)})
}

// AdminExportLocations dumps all locations, including soft-deleted ones'
// survivors, as JSON.
func (h *Handler) AdminExportLocations(c *gin.Context) {
	locs, err := h.Store.ListAllLocations()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="locations.json"`)
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

type importRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// locationImportRow keeps the source row number with the parsed payload so
// errors reported later still point at the right line of the uploaded file.
type locationImportRow struct {
	wikiLocationRequest
	Row int
}

// AdminImportLocationFile bulk-imports wiki locations from an uploaded JSON
// or CSV file, reporting per-row validation errors. Valid rows commit
// together; rows that fail validation are skipped, not fatal.
func (h *Handler) AdminImportLocationFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "file is required.")
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	var rows []locationImportRow
	var rowErrors []importRowError

	switch {
	case hasExt(file.Filename, ".json"):
		var payload locationImportRequest
		if err := json.NewDecoder(src).Decode(&payload); err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid JSON file.")
			return
		}
		for i, item := range payload.Locations {
			rows = append(rows, locationImportRow{wikiLocationRequest: item, Row: i + 1})
		}
	case hasExt(file.Filename, ".csv"):
		rows, rowErrors, err = parseLocationCSV(src)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid CSV file.")
			return
		}
	default:
		respondMessage(c, http.StatusUnsupportedMediaType, "Only JSON and CSV files are supported.")
		return
	}

	imported := 0
	err = h.Store.WithTx(func(tx storage.Storage) error {
		for i := range rows {
			item := &rows[i]
			if item.Name == "" {
				rowErrors = append(rowErrors, importRowError{Row: item.Row, Reason: "name is required"})
				continue
			}
			if !validCoords(item.Latitude, item.Longitude) {
				rowErrors = append(rowErrors, importRowError{Row: item.Row, Reason: "coordinates out of range"})
				continue
			}
			if item.BuildingID != nil {
				if _, err := tx.GetLocationByBuildingID(*item.BuildingID); err == nil {
					rowErrors = append(rowErrors, importRowError{Row: item.Row, Reason: "building id already exists"})
					continue
				} else if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}

			loc := models.Location{
				BuildingID:  item.BuildingID,
				Name:        item.Name,
				Address:     item.Address,
				MainImage:   item.MainImage,
				RichContent: item.RichContent,
				Description: item.Description,
				Status:      models.LocationPublished,
				Longitude:   item.Longitude,
				Latitude:    item.Latitude,
			}
			if err := h.attachCategoryAndTags(tx, &loc, item.Category, item.Tags, false); err != nil {
				return err
			}
			if err := tx.CreateLocation(&loc); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Import finished.",
		"imported": imported,
		"failed":   len(rowErrors),
		"errors":   rowErrors,
	})
}

// parseLocationCSV expects a header row of
// buildingId,name,address,category,longitude,latitude,description.
func parseLocationCSV(r io.Reader) ([]locationImportRow, []importRowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []locationImportRow
	var rowErrors []importRowError
	for i, record := range records[1:] {
		rowNum := i + 1
		row := locationImportRow{Row: rowNum}
		row.Name = field(record, "name")
		row.Address = field(record, "address")
		row.Category = field(record, "category")
		row.Description = field(record, "description")
		if raw := field(record, "buildingId"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				rowErrors = append(rowErrors, importRowError{Row: rowNum, Reason: "invalid buildingId"})
				continue
			}
			row.BuildingID = &id
		}
		if raw := field(record, "longitude"); raw != "" {
			lng, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrors = append(rowErrors, importRowError{Row: rowNum, Reason: "invalid longitude"})
				continue
			}
			row.Longitude = &lng
		}
		if raw := field(record, "latitude"); raw != "" {
			lat, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrors = append(rowErrors, importRowError{Row: rowNum, Reason: "invalid latitude"})
				continue
			}
			row.Latitude = &lat
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func hasExt(filename, ext string) bool {
	return len(filename) > len(ext) && filename[len(filename)-len(ext):] == ext
}

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishisetu/krishi-cli/internal/record"
)

type recordBody struct {
	CropName        string `json:"cropName"`
	PlantingDate    string `json:"plantingDate"`
	ExpectedHarvest string `json:"expectedHarvest"`
	Notes           string `json:"notes"`
	SoilType        string `json:"soilType"`
}

func (b recordBody) validate(w http.ResponseWriter) bool {
	if b.CropName == "" || b.PlantingDate == "" {
		writeError(w, http.StatusBadRequest, "Validation failed",
			"Crop name and planting date are required")
		return false
	}
	return true
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.List(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch records", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    records,
		"count":   len(records),
	})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var body recordBody
	if !decodeBody(w, r, &body) {
		return
	}
	if !body.validate(w) {
		return
	}

	rec := record.FarmingRecord{
		CropName:        body.CropName,
		PlantingDate:    body.PlantingDate,
		ExpectedHarvest: body.ExpectedHarvest,
		Notes:           body.Notes,
		SoilType:        body.SoilType,
	}
	if err := s.records.Create(r.Context(), &rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create record", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    rec,
		"message": "Record created successfully",
	})
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body recordBody
	if !decodeBody(w, r, &body) {
		return
	}
	if !body.validate(w) {
		return
	}

	rec := record.FarmingRecord{
		ID:              id,
		CropName:        body.CropName,
		PlantingDate:    body.PlantingDate,
		ExpectedHarvest: body.ExpectedHarvest,
		Notes:           body.Notes,
		SoilType:        body.SoilType,
	}
	if err := s.records.Update(r.Context(), &rec); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found",
				"No record found with the provided ID")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update record", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    rec,
		"message": "Record updated successfully",
	})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.records.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete record", err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Record not found",
			"No record found with the provided ID")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Record deleted successfully",
	})
}

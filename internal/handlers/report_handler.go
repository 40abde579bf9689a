package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skill-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(data)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetRoomsXLSX handles GET /api/reports/rooms/xlsx
func (h *ReportHandler) GetRoomsXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	filename, data, err := h.Service.RoomsWorkbook(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate workbook: %v", err), http.StatusInternalServerError)
		return
	}

	writeAttachment(w, xlsxContentType, filename, data)
}

// GetServicesXLSX handles GET /api/reports/services/xlsx
func (h *ReportHandler) GetServicesXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	filename, data, err := h.Service.ServicesWorkbook(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate workbook: %v", err), http.StatusInternalServerError)
		return
	}

	writeAttachment(w, xlsxContentType, filename, data)
}

// GetRoomsPDF handles GET /api/reports/rooms/pdf
func (h *ReportHandler) GetRoomsPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	filename, data, err := h.Service.RoomsPDF(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	writeAttachment(w, "application/pdf", filename, data)
}

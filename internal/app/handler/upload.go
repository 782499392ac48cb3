package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

const uploadField = "file"

// uploadFile stores content under "<millis>-<filename>". Without an object
// store the record is still returned, pointing at "#".
func (h *Handler) uploadFile(ctx context.Context, filename string, content []byte, contentType string) (dto.FileRecord, error) {
	record := dto.FileRecord{
		Filename: filename,
		URL:      "#",
		Size:     int64(len(content)),
		Type:     contentType,
	}
	if h.Objects == nil {
		return record, nil
	}

	key := fmt.Sprintf("%d-%s", h.now().UnixMilli(), filename)
	if err := h.Objects.PutObject(ctx, key, content, contentType); err != nil {
		return record, fmt.Errorf("upload %s: %w", filename, err)
	}
	record.URL = uploadsPrefix + key
	return record, nil
}

// UploadFile stores a single file
// @Summary Upload file
// @Tags Files
// @Accept mpfd
// @Produce json
// @Param file formData file true "File"
// @Success 200 {object} dto.FileRecord
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/upload [post]
func (h *Handler) UploadFile(ctx *gin.Context) error {
	fileHeader, err := ctx.FormFile(uploadField)
	if err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, "No file provided", err)
		return nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	record, err := h.uploadFile(ctx.Request.Context(), fileHeader.Filename, content, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	record.Field = uploadField

	ctx.JSON(http.StatusOK, record)
	return nil
}

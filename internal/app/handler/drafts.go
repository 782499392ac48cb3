package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaveDraft stores partially filled form data for later
// @Summary Save draft
// @Description Drafts expire after the configured retention (7 days by default)
// @Tags Drafts
// @Accept json
// @Produce json
// @Param draft body dto.SaveDraftRequest true "Draft"
// @Success 200 {object} dto.SaveDraftResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/save-draft [post]
func (h *Handler) SaveDraft(ctx *gin.Context) error {
	var req dto.SaveDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return fmt.Errorf("invalid draft body: %w", err)
	}

	draftID := req.DraftID
	if draftID == "" {
		draftID = uuid.NewString()
	}

	if h.KV != nil {
		draft := dto.Draft{
			FormID:  req.FormID,
			Data:    req.Data,
			SavedAt: dto.Timestamp(h.now()),
		}
		if err := h.KV.PutJSON(ctx.Request.Context(), draftKey(draftID), draft, h.draftTTL); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, "Failed to save draft", err)
			return nil
		}
	}

	ctx.JSON(http.StatusOK, dto.SaveDraftResponse{Success: true, DraftID: draftID})
	return nil
}

// GetDraft returns a stored draft verbatim
// @Summary Get draft
// @Tags Drafts
// @Produce json
// @Param id query string true "Draft ID"
// @Success 200 {object} dto.Draft
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/get-draft [get]
func (h *Handler) GetDraft(ctx *gin.Context) error {
	draftID := ctx.Query("id")
	if h.KV == nil || draftID == "" {
		h.errorHandler(ctx, http.StatusNotFound, "Draft not found", nil)
		return nil
	}

	var draft json.RawMessage
	found, err := h.KV.GetJSON(ctx.Request.Context(), draftKey(draftID), &draft)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to retrieve draft", err)
		return nil
	}
	if !found {
		h.errorHandler(ctx, http.StatusNotFound, "Draft not found", nil)
		return nil
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", draft)
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"formbackend/internal/app/ds"
	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// GetForm returns one form definition
// @Summary Get form
// @Description Looks the form up in the KV cache, then the database; unknown ids get the built-in default form
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} dto.FormConfig
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/form/{id} [get]
func (h *Handler) GetForm(ctx *gin.Context) error {
	id := lastSegment(ctx.Param("rest"))
	if id == "" {
		h.NotFound(ctx)
		return nil
	}
	h.respondForm(ctx, id)
	return nil
}

// GetFormConfig is GetForm addressed by query string
// @Summary Get form config
// @Tags Forms
// @Produce json
// @Param id query string false "Form ID" default(default)
// @Success 200 {object} dto.FormConfig
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/form-config [get]
func (h *Handler) GetFormConfig(ctx *gin.Context) error {
	h.respondForm(ctx, ctx.DefaultQuery("id", "default"))
	return nil
}

func (h *Handler) respondForm(ctx *gin.Context, id string) {
	form, err := h.loadForm(ctx.Request.Context(), id)
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, "Form not found", err)
		return
	}
	ctx.JSON(http.StatusOK, form)
}

func (h *Handler) loadForm(ctx context.Context, id string) (dto.FormConfig, error) {
	var form dto.FormConfig

	if h.KV != nil {
		found, err := h.KV.GetJSON(ctx, formKey(id), &form)
		if err != nil {
			return form, err
		}
		if found {
			return form, nil
		}
	}

	if h.Forms != nil {
		row, err := h.Forms.GetActiveFormConfig(ctx, id)
		if err != nil {
			return form, err
		}
		if row != nil {
			if err := json.Unmarshal(row.Config, &form); err != nil {
				return form, fmt.Errorf("decode form %s: %w", id, err)
			}
			return form, nil
		}
	}

	return dto.DefaultFormConfig(), nil
}

// ListForms returns every stored form
// @Summary List forms
// @Description Database rows carry their live active flag and timestamps; without a database the KV cache is scanned
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FormListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/forms [get]
func (h *Handler) ListForms(ctx *gin.Context) error {
	forms, err := h.listForms(ctx.Request.Context())
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to retrieve forms", err)
		return nil
	}
	ctx.JSON(http.StatusOK, dto.FormListResponse{Forms: forms})
	return nil
}

func (h *Handler) listForms(ctx context.Context) ([]dto.FormConfig, error) {
	forms := []dto.FormConfig{}

	switch {
	case h.Forms != nil:
		rows, err := h.Forms.ListFormConfigs(ctx)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			var form dto.FormConfig
			if err := json.Unmarshal(row.Config, &form); err != nil {
				return nil, fmt.Errorf("decode form %s: %w", row.ID, err)
			}
			active := row.Active
			form.Active = &active
			form.CreatedAt = dto.Timestamp(row.CreatedAt)
			form.UpdatedAt = dto.Timestamp(row.UpdatedAt)
			forms = append(forms, form)
		}

	case h.KV != nil:
		keys, err := h.KV.ListKeys(ctx, formKeyPrefix)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			var form dto.FormConfig
			found, err := h.KV.GetJSON(ctx, key, &form)
			if err != nil {
				return nil, err
			}
			if found {
				forms = append(forms, form)
			}
		}
	}

	return forms, nil
}

// SaveForm creates or replaces a form
// @Summary Save form
// @Description Assigns form_<millis> when the payload has no id and stamps createdAt/updatedAt
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form body dto.FormConfig true "Form definition"
// @Success 200 {object} dto.SaveFormResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/forms [post]
func (h *Handler) SaveForm(ctx *gin.Context) error {
	var form dto.FormConfig
	if err := ctx.ShouldBindJSON(&form); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to save form", err)
		return nil
	}

	now := h.now()
	if form.ID == "" {
		form.ID = fmt.Sprintf("form_%d", now.UnixMilli())
	}
	form.CreatedAt = dto.Timestamp(now)
	form.UpdatedAt = form.CreatedAt

	if err := h.storeForm(ctx.Request.Context(), form, now); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to save form", err)
		return nil
	}

	ctx.JSON(http.StatusOK, dto.SaveFormResponse{Success: true, FormID: form.ID})
	return nil
}

func (h *Handler) storeForm(ctx context.Context, form dto.FormConfig, now time.Time) error {
	if h.KV != nil {
		if err := h.KV.PutJSON(ctx, formKey(form.ID), form, 0); err != nil {
			return err
		}
	}

	if h.Forms != nil {
		config, err := json.Marshal(form)
		if err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
		return h.Forms.UpsertFormConfig(ctx, &ds.FormConfig{
			ID:        form.ID,
			Name:      form.Title,
			Config:    config,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return nil
}

// UpdateForm overwrites an existing form
// @Summary Update form
// @Description Refreshes updatedAt; createdAt and the active flag are left alone
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param form body dto.FormConfig true "Form definition with id"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/forms [put]
func (h *Handler) UpdateForm(ctx *gin.Context) error {
	var form dto.FormConfig
	if err := ctx.ShouldBindJSON(&form); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to update form", err)
		return nil
	}
	if form.ID == "" {
		h.errorHandler(ctx, http.StatusBadRequest, "Form id is required", nil)
		return nil
	}

	now := h.now()
	form.UpdatedAt = dto.Timestamp(now)

	if err := h.overwriteForm(ctx.Request.Context(), form, now); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Failed to update form", err)
		return nil
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
	return nil
}

func (h *Handler) overwriteForm(ctx context.Context, form dto.FormConfig, now time.Time) error {
	if h.KV != nil {
		if err := h.KV.PutJSON(ctx, formKey(form.ID), form, 0); err != nil {
			return err
		}
	}

	if h.Forms != nil {
		config, err := json.Marshal(form)
		if err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
		return h.Forms.UpdateFormConfig(ctx, form.ID, form.Title, config, now)
	}
	return nil
}

// DeleteForm hides a form
// @Summary Delete form
// @Description Removes the KV entry and marks the database row inactive; repeating it is harmless
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Form ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/forms/{id} [delete]
func (h *Handler) DeleteForm(ctx *gin.Context) error {
	id := lastSegment(ctx.Param("rest"))
	if id == "" {
		h.NotFound(ctx)
		return nil
	}

	reqCtx := ctx.Request.Context()
	if h.KV != nil {
		if err := h.KV.Delete(reqCtx, formKey(id)); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, "Failed to delete form", err)
			return nil
		}
	}
	if h.Forms != nil {
		if err := h.Forms.DeactivateFormConfig(reqCtx, id); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, "Failed to delete form", err)
			return nil
		}
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
	return nil
}

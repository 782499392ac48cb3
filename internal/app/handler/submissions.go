package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"formbackend/internal/app/ds"
	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const multipartFormData = "multipart/form-data"

// SubmitForm accepts a filled-in form
// @Summary Submit form
// @Description JSON bodies carry {formData, paymentReference, amount}; multipart bodies carry fields and files, each file is uploaded and its field value replaced by the URL
// @Tags Submissions
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/submit-form [post]
func (h *Handler) SubmitForm(ctx *gin.Context) error {
	reqCtx := ctx.Request.Context()

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return fmt.Errorf("read submission: %w", err)
	}

	var (
		formData map[string]any
		files    = []dto.FileRecord{}
	)
	contentType := ctx.GetHeader("Content-Type")
	if strings.Contains(contentType, multipartFormData) {
		formData, files, err = h.readMultipart(reqCtx, body, contentType)
		if err != nil {
			return err
		}
	} else {
		var req dto.SubmitJSONRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return fmt.Errorf("invalid submission body: %w", err)
		}
		formData = req.FormData
	}
	if formData == nil {
		formData = map[string]any{}
	}

	// Payment fields come from a second decode of the same bytes; a multipart
	// body simply yields none.
	var payment dto.PaymentFields
	_ = json.Unmarshal(body, &payment)

	status := dto.StatusSubmitted
	if payment.PaymentReference != "" {
		if h.Payments == nil || !h.Payments.VerifyTransaction(reqCtx, payment.PaymentReference) {
			h.errorHandler(ctx, http.StatusBadRequest, "Payment verification failed", nil)
			return nil
		}
		status = dto.StatusPaid
	}

	now := h.now()
	submission := dto.Submission{
		ID:               uuid.NewString(),
		Data:             formData,
		Files:            files,
		PaymentReference: payment.PaymentReference,
		Amount:           payment.Amount,
		Timestamp:        dto.Timestamp(now),
		Status:           status,
	}

	if h.Submissions != nil {
		if err := h.persistSubmission(reqCtx, submission, now); err != nil {
			logDiscarded("Database error", err)
		}
	}

	if email := submission.Email(); h.Mailer != nil && email != "" {
		if err := h.Mailer.SendConfirmation(reqCtx, email, submission); err != nil {
			logDiscarded("Email error", err)
		}
	}

	if h.Webhook != nil {
		if err := h.Webhook.Send(reqCtx, submission); err != nil {
			return err
		}
	}

	ctx.JSON(http.StatusOK, dto.SubmitResponse{
		Success:      true,
		SubmissionID: submission.ID,
		Message:      "Form submitted successfully",
	})
	return nil
}

// readMultipart walks the parts in wire order. Text parts become form values;
// file parts are uploaded and the field value becomes the file URL.
func (h *Handler) readMultipart(ctx context.Context, body []byte, contentType string) (map[string]any, []dto.FileRecord, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("parse content type: %w", err)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, nil, errors.New("multipart body without boundary")
	}

	formData := map[string]any{}
	files := []dto.FileRecord{}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read multipart: %w", err)
		}

		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read part %q: %w", part.FormName(), err)
		}

		field := part.FormName()
		if field == "" {
			continue
		}
		if part.FileName() == "" {
			formData[field] = string(content)
			continue
		}

		record, err := h.uploadFile(ctx, part.FileName(), content, part.Header.Get("Content-Type"))
		if err != nil {
			return nil, nil, err
		}
		record.Field = field
		files = append(files, record)
		formData[field] = record.URL
	}

	return formData, files, nil
}

func (h *Handler) persistSubmission(ctx context.Context, submission dto.Submission, createdAt time.Time) error {
	data, err := json.Marshal(submission.Data)
	if err != nil {
		return fmt.Errorf("encode submission data: %w", err)
	}
	files, err := json.Marshal(submission.Files)
	if err != nil {
		return fmt.Errorf("encode submission files: %w", err)
	}

	row := &ds.Submission{
		ID:        submission.ID,
		Email:     submission.Email(),
		Data:      data,
		Files:     files,
		Amount:    submission.Amount,
		Status:    submission.Status,
		CreatedAt: createdAt,
	}
	if submission.PaymentReference != "" {
		ref := submission.PaymentReference
		row.PaymentRef = &ref
	}
	return h.Submissions.CreateSubmission(ctx, row)
}

// ListSubmissions returns the latest submissions, newest first
// @Summary List submissions
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubmissionListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/submissions [get]
func (h *Handler) ListSubmissions(ctx *gin.Context) error {
	submissions := []dto.Submission{}
	if h.Submissions == nil {
		ctx.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: submissions})
		return nil
	}

	rows, err := h.Submissions.LatestSubmissions(ctx.Request.Context(), submissionsPageSize)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, "Database error", err)
		return nil
	}

	for _, row := range rows {
		submission, err := submissionFromRow(row)
		if err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, "Database error", err)
			return nil
		}
		submissions = append(submissions, submission)
	}

	ctx.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: submissions})
	return nil
}

func submissionFromRow(row ds.Submission) (dto.Submission, error) {
	submission := dto.Submission{
		ID:        row.ID,
		Files:     []dto.FileRecord{},
		Amount:    row.Amount,
		Timestamp: dto.Timestamp(row.CreatedAt),
		Status:    row.Status,
	}
	if err := json.Unmarshal(row.Data, &submission.Data); err != nil {
		return submission, fmt.Errorf("decode submission %s data: %w", row.ID, err)
	}
	if len(row.Files) > 0 {
		if err := json.Unmarshal(row.Files, &submission.Files); err != nil {
			return submission, fmt.Errorf("decode submission %s files: %w", row.ID, err)
		}
	}
	if row.PaymentRef != nil {
		submission.PaymentReference = *row.PaymentRef
	}
	return submission, nil
}

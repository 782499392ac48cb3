package handler

import (
	"fmt"
	"net/http"

	"formbackend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// VerifyPayment checks a payment reference with the gateway
// @Summary Verify payment
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body dto.VerifyPaymentRequest true "Reference"
// @Success 200 {object} dto.ValidResponse
// @Router /api/verify-payment [post]
func (h *Handler) VerifyPayment(ctx *gin.Context) error {
	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return fmt.Errorf("invalid verification body: %w", err)
	}

	valid := h.Payments != nil && h.Payments.VerifyTransaction(ctx.Request.Context(), req.Reference)
	ctx.JSON(http.StatusOK, dto.ValidResponse{Valid: valid})
	return nil
}

// VerifyRecaptcha
// @Summary Verify reCAPTCHA token
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body dto.VerifyTokenRequest true "Token"
// @Success 200 {object} dto.ValidResponse
// @Router /api/verify-recaptcha [post]
func (h *Handler) VerifyRecaptcha(ctx *gin.Context) error {
	return h.verifyToken(ctx, h.Recaptcha)
}

// VerifyTurnstile
// @Summary Verify Turnstile token
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body dto.VerifyTokenRequest true "Token"
// @Success 200 {object} dto.ValidResponse
// @Router /api/verify-turnstile [post]
func (h *Handler) VerifyTurnstile(ctx *gin.Context) error {
	return h.verifyToken(ctx, h.Turnstile)
}

func (h *Handler) verifyToken(ctx *gin.Context, verifier TokenVerifier) error {
	var req dto.VerifyTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return fmt.Errorf("invalid verification body: %w", err)
	}

	valid := verifier != nil && verifier.Verify(ctx.Request.Context(), req.Token)
	ctx.JSON(http.StatusOK, dto.ValidResponse{Valid: valid})
	return nil
}

// VerifyAdmin lets the admin UI check its bearer token
// @Summary Verify admin token
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ValidResponse
// @Failure 401 {object} dto.ValidResponse
// @Router /api/verify-admin [get]
func (h *Handler) VerifyAdmin(ctx *gin.Context) error {
	if !h.auth.IsAuthorized(ctx.GetHeader("Authorization")) {
		ctx.JSON(http.StatusUnauthorized, dto.ValidResponse{Valid: false})
		return nil
	}
	ctx.JSON(http.StatusOK, dto.ValidResponse{Valid: true})
	return nil
}

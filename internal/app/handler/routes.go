package handler

import (
	"formbackend/internal/app/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes installs the middleware chain and every API route. Call it on a
// fresh engine before any other route is added.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.Logger(), middleware.Recovery(), middleware.CORS())
	router.NoRoute(h.NotFound)

	api := router.Group("/api")
	{
		// Public
		api.GET("/form/*rest", h.wrap(h.GetForm))
		api.GET("/form-config", h.wrap(h.GetFormConfig))
		api.POST("/submit-form", h.wrap(h.SubmitForm))
		api.POST("/upload", h.wrap(h.UploadFile))
		api.POST("/save-draft", h.wrap(h.SaveDraft))
		api.GET("/get-draft", h.wrap(h.GetDraft))
		api.POST("/verify-payment", h.wrap(h.VerifyPayment))
		api.POST("/verify-recaptcha", h.wrap(h.VerifyRecaptcha))
		api.POST("/verify-turnstile", h.wrap(h.VerifyTurnstile))
		api.GET("/verify-admin", h.wrap(h.VerifyAdmin))
	}

	admin := api.Group("")
	admin.Use(h.auth.WithAuthCheck())
	{
		admin.GET("/forms", h.wrap(h.ListForms))
		admin.POST("/forms", h.wrap(h.SaveForm))
		admin.PUT("/forms", h.wrap(h.UpdateForm))
		admin.DELETE("/forms/*rest", h.wrap(h.DeleteForm))
		admin.GET("/submissions", h.wrap(h.ListSubmissions))
	}
}

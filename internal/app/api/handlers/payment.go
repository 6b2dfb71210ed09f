package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/permadocs/permapay/internal/app/service/payment"
	"github.com/permadocs/permapay/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      Storage Quote
// @Description  Prices the permanent storage of a file of the given size. Degraded pricing is flagged as estimated.
// @Tags         Payment
// @Produce      json
// @Param        file_size_bytes query int true "File size in bytes"
// @Success      200  {object}  handlers.RespStorageQuote
// @Router       /api/v1/storage/quote [get]
func ApiStorageQuote(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := strconv.ParseInt(c.Query("file_size_bytes"), 10, 64)
		if err != nil || size <= 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "file_size_bytes must be a positive integer"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(mgr.Quote(c.Request.Context(), size)))
	}
}

// @Summary      Create Payment
// @Description  Opens a time-boxed crypto payment window for storing a file, returning wallet-ready payment details.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body payment.CreatePaymentRequest true "Payment creation request"
// @Success      200  {object}  handlers.RespCreatePayment
// @Router       /api/v1/payments [post]
func ApiCreatePayment(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := mgr.CreatePayment(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, payment.ErrInvalidPaymentRequest) ||
				errors.Is(err, payment.ErrUnsupportedWalletKind) ||
				errors.Is(err, payment.ErrUnsupportedToken) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Payment Status
// @Description  Polls the payment for an on-chain match; a confirmed payment triggers the storage upload.
// @Tags         Payment
// @Produce      json
// @Param        id path string true "Payment request id"
// @Param        user_id query string true "Owning user id"
// @Success      200  {object}  handlers.RespPaymentStatus
// @Router       /api/v1/payments/{id}/status [get]
func ApiPaymentStatus(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing payment id"))
			return
		}

		res, err := mgr.CheckStatus(c.Request.Context(), id, c.Query("user_id"))
		if err != nil {
			if errors.Is(err, payment.ErrPaymentNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "payment not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Payment Options
// @Description  Lists the supported networks, tokens and wallet applications.
// @Tags         Payment
// @Produce      json
// @Success      200  {object}  handlers.RespPaymentOptions
// @Router       /api/v1/payments/options [get]
func ApiPaymentOptions(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(mgr.SupportedOptions(c.Request.Context())))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, mgr payment.Manager) {
	r.GET("/storage/quote", ApiStorageQuote(mgr))
	r.POST("/payments", ApiCreatePayment(mgr))
	r.GET("/payments/options", ApiPaymentOptions(mgr))
	r.GET("/payments/:id/status", ApiPaymentStatus(mgr))
}

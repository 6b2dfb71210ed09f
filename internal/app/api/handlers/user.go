package handlers

import (
	"net/http"
	"strconv"

	"github.com/permadocs/permapay/internal/app/service/payment"
	"github.com/permadocs/permapay/pkg/response"
	types "github.com/permadocs/permapay/pkg/types"

	"github.com/gin-gonic/gin"
)

// @Summary      List User Payments
// @Description  Lists a user's payment requests, newest first.
// @Tags         Payment
// @Produce      json
// @Param        user_id query string true "User id"
// @Param        from query int false "Pagination offset"
// @Param        size query int false "Page size (default 100)"
// @Success      200  {object}  handlers.RespUserListPayments
// @Router       /api/v1/payments [get]
func ApiPaymentList(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		from := 0
		if v := c.Query("from"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				from = n
			}
		}
		size := 100
		if v := c.Query("size"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				size = n
			} else {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid size"))
				return
			}
		}
		sortBy := c.Query("sort_by")
		if sortBy == "" {
			sortBy = "created_at"
		}
		sortOrder := c.Query("sort_order")
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		req := &payment.ScanPaymentsRequest{
			Filters:   []*types.CommonFilter{{Field: "user_id", Operator: types.CommonFilterOperatorEq, Values: []any{userID}}},
			From:      from,
			Size:      size,
			SortBy:    sortBy,
			SortOrder: sortOrder,
		}
		res, err := mgr.ScanPayments(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res.Items))
	}
}

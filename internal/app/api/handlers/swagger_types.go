package handlers

import (
    "github.com/permadocs/permapay/internal/app/service/payment"
    "github.com/permadocs/permapay/internal/app/service/statistics"
    "github.com/permadocs/permapay/pkg/response"
    types "github.com/permadocs/permapay/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    interface{}              `json:"data"`
}

// RespStorageQuote wraps a cost breakdown in the standard envelope.
type RespStorageQuote struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    types.CostBreakdown      `json:"data"`
}

// RespCreatePayment wraps CreatePaymentResponse in the standard envelope.
type RespCreatePayment struct {
    Code    response.APIResponseCode       `json:"code"`
    Message string                         `json:"message"`
    Data    payment.CreatePaymentResponse  `json:"data"`
}

// RespPaymentStatus wraps StatusResponse in the standard envelope.
type RespPaymentStatus struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    payment.StatusResponse   `json:"data"`
}

// RespPaymentOptions wraps SupportedOptions in the standard envelope.
type RespPaymentOptions struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    payment.SupportedOptions `json:"data"`
}

// RespListPayments wraps ListPaymentsResponse in the standard envelope.
type RespListPayments struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    ListPaymentsResponse     `json:"data"`
}

// RespPaymentStatistic wraps PaymentStatisticResponse in the standard envelope.
type RespPaymentStatistic struct {
    Code    response.APIResponseCode              `json:"code"`
    Message string                                `json:"message"`
    Data    statistics.PaymentStatisticResponse   `json:"data"`
}

// RespUserListPayments wraps a list of payment items in the standard envelope.
type RespUserListPayments struct {
    Code    response.APIResponseCode `json:"code"`
    Message string                   `json:"message"`
    Data    []PaymentItem            `json:"data"`
}

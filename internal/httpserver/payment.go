package httpserver

import (
	"errors"
	"net/http"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/gateway/flutterwave"
	"shopcart-api/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type initiatePaymentRequest struct {
	CartCode string `json:"cart_code" binding:"required"`
}

type cardCallbackRequest struct {
	Status        string `json:"status"`
	TxRef         string `json:"tx_ref"`
	TransactionID string `json:"transaction_id"`
}

func paymentMessage(c *gin.Context, status int, message, subMessage string) {
	c.JSON(status, gin.H{"message": message, "subMessage": subMessage})
}

func initiatePaymentHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code is required"})
			return
		}

		resp, err := svc.InitiateCardPayment(c.Request.Context(), req.CartCode, *u)
		if err != nil {
			var rejected *flutterwave.RejectedError
			switch {
			case errors.Is(err, checkout.ErrCartEmpty):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			case errors.As(err, &rejected):
				// Relay the gateway's own rejection body.
				c.Data(rejected.StatusCode, "application/json", rejected.Body)
			case errors.Is(err, flutterwave.ErrUnavailable):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment gateway unavailable"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate payment"})
			}
			return
		}
		c.Data(http.StatusOK, "application/json", resp)
	}
}

func paymentCallbackHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cardCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			paymentMessage(c, http.StatusBadRequest, "Invalid request", "Missing required parameters.")
			return
		}

		outcome, err := svc.ConfirmCardPayment(c.Request.Context(), checkout.CardCallback{
			Status:        req.Status,
			TxRef:         req.TxRef,
			TransactionID: req.TransactionID,
		})
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrMissingParams):
				paymentMessage(c, http.StatusBadRequest, "Invalid request", "Missing required parameters.")
			case errors.Is(err, checkout.ErrNotSuccessful):
				paymentMessage(c, http.StatusBadRequest, "Payment was not successful.", "The payment status was unsuccessful.")
			case errors.Is(err, checkout.ErrVerifyDeclined):
				paymentMessage(c, http.StatusBadRequest, "Verification failed", "The payment provider did not report a successful payment.")
			case errors.Is(err, checkout.ErrVerification):
				paymentMessage(c, http.StatusInternalServerError, "Verification error", "Failed to verify transaction with the payment provider.")
			case errors.Is(err, checkout.ErrMismatch):
				paymentMessage(c, http.StatusBadRequest, "Payment verification failed.", "Transaction details mismatch.")
			case errors.Is(err, domain.ErrNotFound):
				paymentMessage(c, http.StatusNotFound, "Transaction not found", "No matching transaction found for the provided reference.")
			default:
				paymentMessage(c, http.StatusInternalServerError, "Payment processing error", "An unexpected error occurred while confirming the payment.")
			}
			return
		}

		if outcome.AlreadyCompleted {
			paymentMessage(c, http.StatusOK, "Payment already confirmed", "This payment was already processed.")
			return
		}
		paymentMessage(c, http.StatusOK, "Payment successful!", "You have successfully made the payment.")
	}
}

func initiatePayPalHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		var req initiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code is required"})
			return
		}

		approvalURL, err := svc.InitiateWalletPayment(c.Request.Context(), req.CartCode, *u)
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrCartEmpty):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create payment order"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"approval_url": approvalURL})
	}
}

func paypalCallbackHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cb := checkout.WalletCallback{
			PaymentID: c.Query("paymentId"),
			PayerID:   c.Query("PayerID"),
			Ref:       c.Query("ref"),
		}

		outcome, err := svc.ConfirmWalletPayment(c.Request.Context(), cb)
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrMissingParams):
				paymentMessage(c, http.StatusBadRequest, "Invalid payment details.", "Missing required parameters.")
			case errors.Is(err, checkout.ErrVerification):
				paymentMessage(c, http.StatusInternalServerError, "Verification error", "Failed to verify transaction with the payment provider.")
			case errors.Is(err, checkout.ErrMismatch):
				paymentMessage(c, http.StatusBadRequest, "Payment verification failed.", "Transaction details mismatch.")
			case errors.Is(err, checkout.ErrNotSuccessful):
				paymentMessage(c, http.StatusBadRequest, "Payment was not successful.", "The payment status was unsuccessful.")
			case errors.Is(err, domain.ErrNotFound):
				paymentMessage(c, http.StatusNotFound, "Transaction not found", "No matching transaction found for the provided reference.")
			default:
				paymentMessage(c, http.StatusInternalServerError, "Payment processing error", "An unexpected error occurred while confirming the payment.")
			}
			return
		}

		if outcome.AlreadyCompleted {
			paymentMessage(c, http.StatusOK, "Payment already confirmed", "This payment was already processed.")
			return
		}
		paymentMessage(c, http.StatusOK, "Payment successful!", "You have successfully made the payment.")
	}
}

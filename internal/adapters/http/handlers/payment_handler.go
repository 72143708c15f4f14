package handlers

import (
	"dailywage-hub/internal/core/services"
	"dailywage-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment settlement endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type createOrderRequest struct {
	JobID string `json:"jobId"`
}

// CreateOrder opens a gateway order for a job awaiting payment
// @Summary Create payment order
// @Tags Payments
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body createOrderRequest true "Job"
// @Success 200 {object} services.OrderResult
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bind(c, createOrderSchema, &req); err != nil {
		return err
	}
	jobID, err := parseUUID(req.JobID, "jobId")
	if err != nil {
		return err
	}

	order, err := h.paymentService.CreateOrder(c.Context(), p, jobID)
	if err != nil {
		return err
	}
	return response.OK(c, order)
}

// Verify checks the checkout callback signature and settles the job
// @Summary Verify payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body services.VerifyInput true "Gateway callback"
// @Success 200 {object} services.VerifyResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.VerifyInput
	if err := bind(c, verifyPaymentSchema, &input); err != nil {
		return err
	}

	result, err := h.paymentService.Verify(c.Context(), p, &input)
	if err != nil {
		return err
	}
	return response.OK(c, result)
}

// Failed records a failed checkout
// @Summary Report failed payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body services.FailureInput true "Gateway failure"
// @Success 200 {object} models.Payment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/failed [post]
func (h *PaymentHandler) Failed(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.FailureInput
	if err := bind(c, paymentFailedSchema, &input); err != nil {
		return err
	}

	payment, err := h.paymentService.MarkFailed(c.Context(), p, &input)
	if err != nil {
		return err
	}
	return response.OK(c, payment)
}

type offlineCheckoutRequest struct {
	OrderID string `json:"razorpayOrderId"`
}

// OfflineCheckout signs a checkout callback without the hosted checkout.
// Only mounted in dev when the offline gateway is active.
// @Summary Complete checkout offline (dev only)
// @Tags Payments
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body offlineCheckoutRequest true "Order"
// @Success 200 {object} services.VerifyInput
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/offline-checkout [post]
func (h *PaymentHandler) OfflineCheckout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req offlineCheckoutRequest
	if err := bind(c, offlineCheckoutSchema, &req); err != nil {
		return err
	}

	callback, err := h.paymentService.OfflineCheckout(c.Context(), p, req.OrderID)
	if err != nil {
		return err
	}
	return response.OK(c, callback)
}

// GetForJob returns a job's latest payment
// @Summary Get job payment
// @Tags Payments
// @Produce json
// @Security SessionCookie
// @Param jobId path string true "Job ID"
// @Success 200 {object} models.Payment
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/job/{jobId} [get]
func (h *PaymentHandler) GetForJob(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetForJob(c.Context(), p, jobID)
	if err != nil {
		return err
	}
	return response.OK(c, payment)
}

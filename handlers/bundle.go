package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Tuition endpoints
	CreateTuitionHandler gin.HandlerFunc
	GetTuitionHandler    gin.HandlerFunc
	ListTuitionsHandler  gin.HandlerFunc
	DeleteTuitionHandler gin.HandlerFunc

	// Application endpoints
	ApplyHandler               gin.HandlerFunc
	WithdrawApplicationHandler gin.HandlerFunc
	UpdateApplicationHandler   gin.HandlerFunc
	MyApplicationsHandler      gin.HandlerFunc
	OngoingTuitionsHandler     gin.HandlerFunc

	// Assignment endpoints
	AcceptApplicationHandler gin.HandlerFunc
	RejectApplicationHandler gin.HandlerFunc

	// Payment endpoints
	CreateCheckoutSessionHandler gin.HandlerFunc
	StripeWebhookHandler         gin.HandlerFunc

	// Teacher directory
	ListTeachersHandler gin.HandlerFunc

	// Admin endpoints
	ApproveTuitionHandler      gin.HandlerFunc
	RejectTuitionHandler       gin.HandlerFunc
	UpdateTuitionStatusHandler gin.HandlerFunc
	RevenueSummaryHandler      gin.HandlerFunc
	RevenueTrendHandler        gin.HandlerFunc
}

// NewHandlerBundle wires the concrete handlers. main assembles the
// handlers and hands the bundle to routes.RegisterRoutes.
func NewHandlerBundle(th *TuitionHandler, teach *TeacherHandler, ah *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateTuitionHandler: th.CreateTuitionHandler,
		GetTuitionHandler:    th.GetTuitionHandler,
		ListTuitionsHandler:  th.ListTuitionsHandler,
		DeleteTuitionHandler: th.DeleteTuitionHandler,

		ApplyHandler:               th.ApplyHandler,
		WithdrawApplicationHandler: th.WithdrawApplicationHandler,
		UpdateApplicationHandler:   th.UpdateApplicationHandler,
		MyApplicationsHandler:      th.MyApplicationsHandler,
		OngoingTuitionsHandler:     th.OngoingTuitionsHandler,

		AcceptApplicationHandler: th.AcceptApplicationHandler,
		RejectApplicationHandler: th.RejectApplicationHandler,

		CreateCheckoutSessionHandler: th.CreateCheckoutSessionHandler,
		StripeWebhookHandler:         th.StripeWebhookHandler,

		ListTeachersHandler: teach.ListTeachersHandler,

		ApproveTuitionHandler:      ah.ApproveTuitionHandler,
		RejectTuitionHandler:       ah.RejectTuitionHandler,
		UpdateTuitionStatusHandler: ah.UpdateTuitionStatusHandler,
		RevenueSummaryHandler:      ah.RevenueSummaryHandler,
		RevenueTrendHandler:        ah.RevenueTrendHandler,
	}
}

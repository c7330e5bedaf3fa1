package handlers

import (
	"errors"
	"net/http"
	"strings"

	"deligo-fulfillment/internal/apperr"
	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
)

// Response messages
const (
	msgInvalidParams      = "Invalid parameters"
	msgItemUpdated        = "Order item updated successfully"
	msgItemAssigned       = "Order item updated successfully & delivery boys assigned"
	msgItemsUpdated       = "Selected order items updated successfully"
	msgItemsAssigned      = "Selected order items updated & delivery boys assigned"
	msgOrderNotFound      = "Order not found"
	msgItemAlreadyDecided = "Order item already updated"
	msgInvalidOTP         = "Invalid OTP"
	msgOTPVerified        = "OTP verified successfully. Notification sent."
	msgOrdersFetched      = "Orders fetched successfully"
	msgInternal           = "Internal server error"
)

// OrderHandler handles the order fulfillment endpoints.
type OrderHandler struct {
	resolver itemResolver
	pickup   pickupConfirmer
	orders   orderLister
	logger   logx.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(logger logx.Logger, res itemResolver, p pickupConfirmer, o orderLister) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{resolver: res, pickup: p, orders: o, logger: logger}
}

// UpdateOrderStatus handles PUT /update-order-status?order_id&item_id.
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromQuery(r, "order_id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}
	itemID, err := idFromQuery(r, "item_id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}

	var req updateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	action, ok := domain.ParseAction(req.Action)
	if !ok {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}

	res, err := h.resolver.ResolveItem(r.Context(), orderID, itemID, action, strings.TrimSpace(req.Reason))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResolved(w, r, res, msgItemUpdated, msgItemAssigned)
}

// MultiUpdateStatus handles PUT /multi-update-status?order_id.
func (h *OrderHandler) MultiUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromQuery(r, "order_id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}

	var req multiUpdateStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	action, ok := domain.ParseAction(req.Action)
	if !ok || len(req.OIID) == 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}

	res, err := h.resolver.ResolveItems(r.Context(), domain.ItemDecision{
		OrderID: orderID,
		ItemIDs: req.OIID,
		Action:  action,
		Reason:  strings.TrimSpace(req.Reason),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResolved(w, r, res, msgItemsUpdated, msgItemsAssigned)
}

// VerifyDeliveryOTP handles PUT /verify-delivery-otp?oid&vendor_id.
func (h *OrderHandler) VerifyDeliveryOTP(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromQuery(r, "oid")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}
	vendorID, err := idFromQuery(r, "vendor_id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
		return
	}

	var req verifyOTPRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.pickup.Confirm(r.Context(), domain.PickupConfirmation{
		OrderID:  orderID,
		VendorID: vendorID,
		Code:     string(req.OTP),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeOK(h.logger, w, r, msgOTPVerified, nil)
}

// ListOrders handles GET /orders?vendor_id.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	vendorID, err := idFromQuery(r, "vendor_id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "vendor_id is required")
		return
	}

	list, err := h.orders.ListVendorOrders(r.Context(), vendorID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeOK(h.logger, w, r, msgOrdersFetched, vendorOrdersToResponse(list))
}

func (h *OrderHandler) writeResolved(w http.ResponseWriter, r *http.Request, res domain.ResolveResult, updated, assigned string) {
	if res.Changed && res.Status == domain.OrderAccepted {
		writeOK(h.logger, w, r, assigned, candidatesToResponse(res.Candidates))
		return
	}
	writeOK(h.logger, w, r, updated, nil)
}

func (h *OrderHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidParams)
	case errors.Is(err, apperr.ErrInvalidCode):
		writeError(h.logger, w, r, http.StatusBadRequest, msgInvalidOTP)
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, msgOrderNotFound)
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, msgItemAlreadyDecided)
	default:
		h.logger.Error("request failed",
			logx.String("req_id", reqID(r.Context())),
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
		writeError(h.logger, w, r, http.StatusInternalServerError, msgInternal)
	}
}

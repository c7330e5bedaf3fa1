package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type updateStatusRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

type multiUpdateStatusRequest struct {
	Action string  `json:"action"`
	Reason string  `json:"reason,omitempty"`
	OIID   []int64 `json:"oiid"`
}

// otpCode accepts the code as a JSON string or number.
type otpCode string

func (c *otpCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = otpCode(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return errors.New("otp must be a string or a number")
		}
		*c = otpCode(n.String())
		return nil
	}
}

type verifyOTPRequest struct {
	OTP otpCode `json:"otp"`
}

type pointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type candidateDTO struct {
	OrderID            int64    `json:"order_id"`
	CourierID          int64    `json:"courier_id"`
	VendorToCourierKm  float64  `json:"vendor_to_courier_km"`
	VendorToCustomerKm float64  `json:"vendor_to_customer_km"`
	Courier            pointDTO `json:"courier"`
	Vendor             pointDTO `json:"vendor"`
	Customer           pointDTO `json:"customer"`
}

type orderItemDTO struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Status      int             `json:"status"`
	VendorNote  string          `json:"vendor_notes"`
}

type vendorOrderDTO struct {
	OrderID         int64           `json:"order_id"`
	CustomerID      int64           `json:"customer_id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAmount  decimal.Decimal `json:"delivery_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Discount        decimal.Decimal `json:"discount"`
	Status          int             `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_time"`
	Items           []orderItemDTO  `json:"items"`
}

package handlers

import "deligo-fulfillment/internal/domain"

func candidatesToResponse(list []domain.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(list))
	for _, c := range list {
		out = append(out, candidateDTO{
			OrderID:            c.OrderID,
			CourierID:          c.CourierID,
			VendorToCourierKm:  c.VendorToCourierKm,
			VendorToCustomerKm: c.VendorToCustomerKm,
			Courier:            pointDTO(c.Courier),
			Vendor:             pointDTO(c.Vendor),
			Customer:           pointDTO(c.Customer),
		})
	}
	return out
}

func vendorOrdersToResponse(list []domain.VendorOrder) []vendorOrderDTO {
	out := make([]vendorOrderDTO, 0, len(list))
	for _, o := range list {
		items := make([]orderItemDTO, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, orderItemDTO{
				ID:          it.ID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				Amount:      it.Amount,
				Status:      int(it.Status),
				VendorNote:  it.VendorNote,
			})
		}
		out = append(out, vendorOrderDTO{
			OrderID:         o.ID,
			CustomerID:      o.CustomerID,
			FirstName:       o.CustomerFirstName,
			LastName:        o.CustomerLastName,
			TotalAmount:     o.TotalAmount,
			DeliveryAmount:  o.DeliveryAmount,
			TaxAmount:       o.TaxAmount,
			Discount:        o.Discount,
			Status:          int(o.Status),
			ShippingAddress: o.ShippingAddress,
			BillingAddress:  o.BillingAddress,
			PaymentMethod:   o.PaymentMethod,
			CreatedAt:       o.CreatedAt,
			Items:           items,
		})
	}
	return out
}

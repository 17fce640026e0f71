package service

import (
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/pkg/whatsapp"
)

// WhatsAppShare is the composed message and the link that opens it.
type WhatsAppShare struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// ShareOrder formats a stored order for the restaurant's WhatsApp number.
func ShareOrder(order *model.Order, phone string) WhatsAppShare {
	msg := whatsapp.Message(whatsAppOrder(order))
	return WhatsAppShare{
		Message: msg,
		Link:    whatsapp.Link(phone, msg),
	}
}

func whatsAppOrder(order *model.Order) whatsapp.Order {
	w := whatsapp.Order{
		OrderType:          string(order.OrderType),
		CustomerName:       deref(order.CustomerName),
		CustomerPhone:      deref(order.CustomerPhone),
		CustomerAddress:    deref(order.CustomerAddress),
		CustomerPostalCode: deref(order.CustomerPostalCode),
		Subtotal:           order.Subtotal,
		DeliveryFee:        order.DeliveryFee,
		Total:              order.Total,
		PaymentMethod:      deref(order.PaymentMethod),
		Notes:              deref(order.Notes),
	}
	if order.TableNumber != nil {
		w.TableNumber = *order.TableNumber
	}

	for _, item := range order.Items {
		addons := make([]string, 0, len(item.Addons))
		for _, a := range item.Addons {
			addons = append(addons, a.Name)
		}
		w.Items = append(w.Items, whatsapp.Item{
			Name:     item.ProductName,
			Size:     deref(item.SizeName),
			Flavor:   deref(item.FlavorName),
			Addons:   addons,
			Quantity: item.Quantity,
			Price:    item.TotalPrice,
		})
	}
	return w
}

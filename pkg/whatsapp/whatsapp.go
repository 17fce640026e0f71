// Package whatsapp composes the order summary staff receive on WhatsApp and
// the wa.me link that opens it.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type Item struct {
	Name     string
	Size     string
	Flavor   string
	Addons   []string
	Quantity int
	Price    decimal.Decimal
}

// Order carries only what the message shows. OrderType is internal,
// delivery or pickup.
type Order struct {
	OrderType          string
	TableNumber        int
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	CustomerPostalCode string
	Items              []Item
	Subtotal           decimal.Decimal
	DeliveryFee        decimal.Decimal
	Total              decimal.Decimal
	PaymentMethod      string
	Notes              string
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// Message renders the Portuguese order summary.
func Message(o Order) string {
	var b strings.Builder
	b.WriteString("🍕 *NOVO PEDIDO - IMPÉRIO PIZZAS*\n\n")

	switch o.OrderType {
	case "internal":
		fmt.Fprintf(&b, "📍 *Origem:* Pedido Interno – Mesa %d\n\n", o.TableNumber)
	case "delivery":
		b.WriteString("📍 *Origem:* Pedido Externo (Delivery)\n\n")
	default:
		b.WriteString("📍 *Origem:* Pedido Externo (Retirada)\n\n")
	}

	if o.CustomerName != "" {
		fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.CustomerName)
	}
	if o.CustomerPhone != "" {
		fmt.Fprintf(&b, "📞 *Telefone:* %s\n", o.CustomerPhone)
	}
	if o.CustomerAddress != "" {
		fmt.Fprintf(&b, "📍 *Endereço:* %s\n", o.CustomerAddress)
		if o.CustomerPostalCode != "" {
			fmt.Fprintf(&b, "📮 *CEP:* %s\n", o.CustomerPostalCode)
		}
	}

	b.WriteString("\n*ITENS DO PEDIDO:*\n\n")
	for i, item := range o.Items {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, item.Name)
		if item.Size != "" {
			fmt.Fprintf(&b, "   Tamanho: %s\n", item.Size)
		}
		if item.Flavor != "" {
			fmt.Fprintf(&b, "   Sabor: %s\n", item.Flavor)
		}
		if len(item.Addons) > 0 {
			fmt.Fprintf(&b, "   Adicionais: %s\n", strings.Join(item.Addons, ", "))
		}
		fmt.Fprintf(&b, "   Quantidade: %dx\n", item.Quantity)
		fmt.Fprintf(&b, "   Valor: %s\n\n", money(item.Price))
	}

	fmt.Fprintf(&b, "💰 *Subtotal:* %s\n", money(o.Subtotal))
	if o.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "🚚 *Taxa de Entrega:* %s\n", money(o.DeliveryFee))
	}
	fmt.Fprintf(&b, "✨ *TOTAL:* %s\n\n", money(o.Total))

	if o.PaymentMethod != "" {
		fmt.Fprintf(&b, "💳 *Forma de Pagamento:* %s\n\n", o.PaymentMethod)
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "📝 *Observações:* %s\n\n", o.Notes)
	}

	b.WriteString("---\n_Pedido realizado pelo sistema Império Pizzas_")
	return b.String()
}

// Link builds a wa.me click-to-chat URL. Non-digits are stripped from phone.
func Link(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + encoded
}

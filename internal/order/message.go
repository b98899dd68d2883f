package order

import (
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// FormatAddress renders "street, number[, complement] - district".
func FormatAddress(a *model.Address) string {
	if a == nil {
		return ""
	}
	s := a.Street + ", " + a.Number
	if a.Complement != "" {
		s += ", " + a.Complement
	}
	return s + " - " + a.District
}

// FormatMessage builds the plain-text summary handed to WhatsApp. Asterisks
// are WhatsApp bold markers.
func FormatMessage(storeName, currencySymbol string, o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Pedido Loja %s!*\n", storeName)
	fmt.Fprintf(&b, "*Pedido:* #%s\n\n", o.OrderNumber)
	fmt.Fprintf(&b, "*Cliente:* %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "*Telefone:* %s", o.Customer.Phone)
	if addr := FormatAddress(o.Customer.Address); addr != "" {
		fmt.Fprintf(&b, "\n*Endereço:* %s", addr)
	}

	b.WriteString("\n\n*Itens:*")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "\n- %dx %s", it.Quantity, it.ProductName)
		if len(it.SelectedVariations) > 0 {
			parts := make([]string, len(it.SelectedVariations))
			for i, v := range it.SelectedVariations {
				parts[i] = v.GroupName + ": " + v.OptionName
			}
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		fmt.Fprintf(&b, " - %s cada = %s",
			model.FormatMoney(currencySymbol, it.UnitPrice()),
			model.FormatMoney(currencySymbol, it.TotalPrice))
	}

	fmt.Fprintf(&b, "\n\n*Subtotal:* %s", model.FormatMoney(currencySymbol, o.Subtotal))
	fmt.Fprintf(&b, "\n*Entrega:* %s", model.FormatMoney(currencySymbol, o.DeliveryOption.Fee))
	fmt.Fprintf(&b, "\n*Total:* %s", model.FormatMoney(currencySymbol, o.Total))
	if o.Notes != "" {
		fmt.Fprintf(&b, "\n\n*Obs:* %s", o.Notes)
	}
	return b.String()
}

package checkout

import (
	"errors"
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/cart"
	"github.com/example/autoshop/internal/money"
	"github.com/example/autoshop/internal/shipping"
)

var validate = validatorv10.New()

// CustomerForm is the checkout customer block as submitted by the client.
type CustomerForm struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Notes      string `json:"notes"`
}

var customerMessages = map[string]string{
	"FirstName":      "first name is required",
	"LastName":       "last name is required",
	"Email/required": "email is required",
	"Email/email":    "email must be a valid address",
	"Phone":          "phone is required",
	"Line1":          "address line is required",
	"City":           "city is required",
	"State":          "state is required",
	"PostalCode":     "postal code is required",
	"Country":        "country is required",
}

// Validate returns the first field-specific validation message, if any.
func (f CustomerForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validatorv10.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if msg, ok := customerMessages[fe.Field()+"/"+fe.Tag()]; ok {
			return errors.New(msg)
		}
		if msg, ok := customerMessages[fe.Field()]; ok {
			return errors.New(msg)
		}
	}
	return err
}

func (f CustomerForm) payload() backend.CustomerPayload {
	return backend.CustomerPayload{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address: backend.AddressPayload{
			Line1:      f.Line1,
			Line2:      f.Line2,
			City:       f.City,
			State:      f.State,
			PostalCode: f.PostalCode,
			Country:    f.Country,
		},
		Notes: f.Notes,
	}
}

// BuildOrderPayload assembles the checkout wire payload from the cart state,
// its computed summary, and the selected shipping rate (nil when none).
func BuildOrderPayload(state cart.State, summary cart.Summary, rate *shipping.Rate, customer CustomerForm) backend.CreateOrderPayload {
	items := make([]backend.CreateOrderItem, 0, len(state.Items))
	for _, line := range state.Items {
		items = append(items, backend.CreateOrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Qty:       line.Qty,
			UnitPrice: money.Round2(line.Price),
			LineTotal: money.Round2(line.Price * float64(line.Qty)),
			Image:     line.Image,
			Category:  line.Category,
			Weight:    line.WeightKg,
			SKU:       line.SKU,
		})
	}

	payload := backend.CreateOrderPayload{
		Currency: state.Currency,
		Items:    items,
		Summary: backend.OrderSummaryPayload{
			Subtotal: money.Round2(summary.Subtotal),
			Discount: money.Round2(summary.Discount),
			Shipping: money.Round2(summary.Shipping),
			Tax:      money.Round2(summary.Tax),
			Total:    money.Round2(summary.Total),
		},
		Coupon:   state.Coupon,
		Customer: customer.payload(),
	}

	if rate != nil {
		payload.Transportation = &backend.TransportationPayload{
			Zone:     rate.Zone,
			WeightKg: strconv.FormatFloat(rate.CeilingKg, 'f', -1, 64),
			Price:    money.Round2(rate.Price),
		}
	}

	return payload
}

package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, e.g. items[0].quantity
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseCheckout validates req and turns it into the typed value the
// placement pipeline works on.
func ParseCheckout(customerID uuid.UUID, req CheckoutRequest) (Checkout, error) {
	req.ShippingName = strings.TrimSpace(req.ShippingName)
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	req.ShippingCity = strings.TrimSpace(req.ShippingCity)
	req.ShippingState = strings.TrimSpace(req.ShippingState)
	req.ShippingZip = strings.TrimSpace(req.ShippingZip)
	req.PaymentAuthorization.Reference = strings.TrimSpace(req.PaymentAuthorization.Reference)
	req.PaymentAuthorization.Status = strings.ToLower(strings.TrimSpace(req.PaymentAuthorization.Status))
	req.CouponCode = strings.TrimSpace(req.CouponCode)
	req.Notes = strings.TrimSpace(req.Notes)

	if err := validate.Struct(req); err != nil {
		return Checkout{}, validationError(err)
	}

	c := Checkout{
		CustomerID: customerID,
		Lines:      make([]CartLine, 0, len(req.Items)),
		CouponCode: req.CouponCode,
		ShipTo: Address{
			Name:   req.ShippingName,
			Street: req.ShippingAddress,
			City:   req.ShippingCity,
			State:  req.ShippingState,
			Zip:    req.ShippingZip,
		},
		Payment: req.PaymentAuthorization,
		Notes:   req.Notes,
	}
	for _, it := range req.Items {
		c.Lines = append(c.Lines, CartLine{ProductID: it.ID, Quantity: it.Quantity})
	}
	return c, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("invalid checkout request")
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return apperr.Validation("%s is required", field)
	case "min":
		return apperr.Validation("%s must contain at least %s entry", field, fe.Param())
	case "max":
		return apperr.Validation("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return apperr.Validation("%s must be greater than %s", field, fe.Param())
	case "lte":
		return apperr.Validation("%s must be at most %s", field, fe.Param())
	case "oneof":
		return apperr.Validation("%s must be one of: %s", field, fe.Param())
	default:
		return apperr.Validation("%s is invalid", field)
	}
}

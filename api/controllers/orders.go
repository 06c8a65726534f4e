package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/umkmdelicious/backend/api/responses"
	"github.com/umkmdelicious/backend/api/validators"
	invoicesvc "github.com/umkmdelicious/backend/internal/invoices"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
	"github.com/umkmdelicious/backend/pkg/logger"
)

type placeOrderRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`
	FoodID        string `json:"food_id" validate:"required,uuid4"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

// PlaceOrder is the storefront checkout: one food per order, priced from the
// catalog so the client cannot set its own price.
func PlaceOrder(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		foodID, err := uuid.Parse(strings.TrimSpace(payload.FoodID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid food_id"))
			return
		}

		invoice, err := svc.CreateSingleItem(r.Context(), invoicesvc.SingleItemInput{
			CustomerName:  payload.CustomerName,
			CustomerPhone: payload.CustomerPhone,
			FoodID:        foodID,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "order placed", invoice)
	}
}

// CustomerOrders returns a customer's order history looked up by phone number.
func CustomerOrders(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := strings.TrimSpace(r.URL.Query().Get("phone"))
		invoices, err := svc.ListByCustomer(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoices)
	}
}

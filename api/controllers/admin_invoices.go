package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/umkmdelicious/backend/api/responses"
	"github.com/umkmdelicious/backend/api/validators"
	invoicesvc "github.com/umkmdelicious/backend/internal/invoices"
	"github.com/umkmdelicious/backend/pkg/enums"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
	"github.com/umkmdelicious/backend/pkg/logger"
)

type invoiceItemRequest struct {
	FoodID   string `json:"food_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Price    int    `json:"price" validate:"min=0"`
}

type createInvoiceRequest struct {
	CustomerName  string               `json:"customer_name" validate:"required"`
	CustomerPhone string               `json:"customer_phone" validate:"required"`
	Items         []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

func parseItemInputs(items []invoiceItemRequest) ([]invoicesvc.ItemInput, error) {
	parsed := make([]invoicesvc.ItemInput, 0, len(items))
	for _, item := range items {
		foodID, err := uuid.Parse(strings.TrimSpace(item.FoodID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid food_id").
				WithDetails(map[string]any{"food_id": item.FoodID})
		}
		parsed = append(parsed, invoicesvc.ItemInput{
			FoodID:   foodID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return parsed, nil
}

// AdminCreateInvoice records a multi-line order, e.g. phone or walk-in sales
// entered by staff.
func AdminCreateInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := parseItemInputs(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), invoicesvc.CreateInput{
			CustomerName:  payload.CustomerName,
			CustomerPhone: payload.CustomerPhone,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "invoice created", invoice)
	}
}

func AdminListInvoices(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoices, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoices)
	}
}

func AdminGetInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

type updateInvoiceRequest struct {
	CustomerName  *string               `json:"customer_name,omitempty"`
	CustomerPhone *string               `json:"customer_phone,omitempty"`
	Status        *string               `json:"status,omitempty"`
	Items         *[]invoiceItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

func AdminUpdateInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invoicesvc.UpdateInput{
			CustomerName:  payload.CustomerName,
			CustomerPhone: payload.CustomerPhone,
		}
		if payload.Status != nil {
			status, parseErr := enums.ParseInvoiceStatus(strings.TrimSpace(*payload.Status))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			input.Status = &status
		}
		if payload.Items != nil {
			items, parseErr := parseItemInputs(*payload.Items)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			input.Items = &items
		}

		invoice, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "invoice updated", invoice)
	}
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminUpdateInvoiceStatus(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInvoiceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseInvoiceStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		invoice, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "status updated", invoice)
	}
}

func AdminDeleteInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, "invoice deleted", nil)
	}
}

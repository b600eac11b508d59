package form

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/sem_planner/internal/models"
)

// Restricciones de la capa de input: campos requeridos y numéricos >= 1.
type requestInput struct {
	BrandURL             string  `json:"brand_url" validate:"required,http_url"`
	CompetitorURL        string  `json:"competitor_url" validate:"required,http_url"`
	ServiceLocations     string  `json:"service_locations" validate:"required"`
	SearchAdsBudget      float64 `json:"search_ads_budget" validate:"finite,gte=1"`
	ShoppingAdsBudget    float64 `json:"shopping_ads_budget" validate:"finite,gte=1"`
	PMaxAdsBudget        float64 `json:"pmax_ads_budget" validate:"finite,gte=1"`
	AverageProductPrice  float64 `json:"average_product_price" validate:"finite,gte=1"`
	TargetROASPercentage float64 `json:"target_roas_percentage" validate:"finite,gte=1"`
}

type FieldError struct {
	Field   string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return "invalid plan request: " + strings.Join(parts, "; ")
}

// For devuelve el mensaje del campo, o "" si no falló.
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

func validateRequest(r models.PlanRequest) error {
	err := validate.Struct(requestInput(r))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "http_url":
		return fe.Field() + " must be an http(s) URL"
	case "finite":
		return fe.Field() + " must be a number"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/najeeb67/my-money-mat/internal/client"
	"github.com/najeeb67/my-money-mat/internal/conflict"
	"github.com/najeeb67/my-money-mat/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterWith(v)
	}
}

// RegisterWith registers the custom validators on v.
func RegisterWith(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("item_kind", validateItemKind)
	_ = v.RegisterValidation("operation_name", validateOperationName)
	_ = v.RegisterValidation("resolution", validateResolution)
}

// decimalValue lets numeric tags such as gte=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateItemKind(fl validator.FieldLevel) bool {
	return models.ItemKind(fl.Field().String()).Valid()
}

func validateOperationName(fl validator.FieldLevel) bool {
	return client.IsKnownOperation(fl.Field().String())
}

func validateResolution(fl validator.FieldLevel) bool {
	return conflict.Resolution(fl.Field().String()).Valid()
}

package handlers

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// registerValidators installs the ledger-specific binding rules on gin's validator.
//
//	sourcemodule  the value names a known SourceModule
//	amount        a decimal that fits the ledger currency's minor units
func registerValidators(cur domain.Currency) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// Validate decimal.Decimal fields through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("sourcemodule", func(fl validator.FieldLevel) bool {
		return domain.SourceModule(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := cur.ParseAmount(fl.Field().String())
		return err == nil
	})
}

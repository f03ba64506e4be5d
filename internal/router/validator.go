package router

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
)

// RegisterValidations installs the custom binding rules used by request
// models. Safe to call more than once.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine")
	}
	return v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseDepartment(fl.Field().String())
		return ok
	})
}

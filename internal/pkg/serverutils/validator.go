package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ai-studymate-be/pkg/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation on a bound request body and
// converts failures into an input validation error the error handler can map.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.New(apperror.KindInputValidation, "invalid request body", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
	}
	return apperror.New(apperror.KindInputValidation, strings.Join(msgs, "; "), err)
}

package serverutils

import (
	"fmt"
	"strings"

	"hipaai-chat-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into a
// BadRequest before the service layer is touched.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", verr.Field(), verr.Tag()))
			}
		}
		if len(fields) == 0 {
			return apperror.BadRequest("Invalid request payload.")
		}
		return apperror.BadRequest("Invalid request payload: " + strings.Join(fields, ", "))
	}
	return nil
}

package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage errors to a code and message. context names the
// resource or action, e.g. "create order" or "product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Postgres 23505 / sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "slug") {
			return ErrorInfo{Code: ResourceAlreadyExists, Message: "A product with this slug already exists"}
		}
		if strings.Contains(errLower, "table_number") {
			return ErrorInfo{Code: ResourceAlreadyExists, Message: "This table number is already registered"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}

	// Postgres 23503
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "product_id") {
			return ErrorInfo{Code: ProductInvalid, Message: "The order references a product that does not exist"}
		}
		if strings.Contains(errLower, "table_id") {
			return ErrorInfo{Code: TableInvalid, Message: "The order references a table that does not exist"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// Postgres 23502 / sqlite NOT NULL
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unreachable, please try again",
		}
	}

	code := InternalDatabase
	if strings.Contains(strings.ToLower(context), "create order") {
		code = OrderCreateFailed
	}
	return ErrorInfo{
		Code:    code,
		Message: defaultMessage(context),
	}
}

func notFoundMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "order"):
		return "Order not found"
	case strings.Contains(c, "product"):
		return "Product not found"
	case strings.Contains(c, "table"):
		return "Table not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "create order"):
		return "Failed to create order"
	case strings.Contains(c, "update"):
		return "Failed to update, please try again"
	}
	return "Something went wrong, please try again"
}

// ParseAndRespond writes the parsed error with the original text in details.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	resp := ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(statusCode, resp)
}

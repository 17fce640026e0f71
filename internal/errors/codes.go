package errors

// Error codes returned in the "error" field of every error payload.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map codes to their own copy.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // malformed body or field
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // malformed identifier
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // e.g. bad date
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_, TABLE_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"
	ProductInvalid  = "PRODUCT_INVALID"        // unknown or inactive product in an order
	OptionInvalid   = "PRODUCT_OPTION_INVALID" // size/flavor/addon the product does not offer
	TableInvalid    = "TABLE_INVALID"          // missing or inactive table

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"
	OrderIllegalTransition = "ORDER_ILLEGAL_TRANSITION"
	OrderCreateFailed      = "ORDER_CREATE_FAILED"

	// ==================== Cart (CART_) ====================
	CartEmpty        = "CART_EMPTY"
	CartItemNotFound = "CART_ITEM_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidType = "UPLOAD_INVALID_TYPE"
	UploadUnavailable = "UPLOAD_UNAVAILABLE" // object storage not configured

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)

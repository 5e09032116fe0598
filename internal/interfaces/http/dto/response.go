package dto

// ValidationFailedMessage heads every 400 body that lists field errors
const ValidationFailedMessage = "Request validation failed"

// Response is the JSON envelope every endpoint answers with. Exactly one of
// Data and Error is set; Meta accompanies paged lists.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    *PageMeta  `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one field that failed validation
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Page wraps one page of a list. pageSize below one counts as one.
func Page(data any, total int64, page, pageSize int) Response {
	size := int64(max(pageSize, 1))
	return Response{
		Success: true,
		Data:    data,
		Meta: &PageMeta{
			Total:      total,
			Page:       page,
			PageSize:   int(size),
			TotalPages: int((total + size - 1) / size),
		},
	}
}

// Fail builds an error envelope; requestID is omitted when empty
func Fail(code, message, requestID string) Response {
	return Response{Error: &ErrorBody{Code: code, Message: message, RequestID: requestID}}
}

// Invalid builds the 400 envelope listing the fields that failed
func Invalid(requestID string, details []ValidationDetail) Response {
	resp := Fail(ErrCodeValidation, ValidationFailedMessage, requestID)
	resp.Error.Details = details
	return resp
}

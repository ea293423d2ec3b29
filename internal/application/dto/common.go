package dto

// ErrorResponse cuerpo de error para fallos de validación o de almacenamiento
// en la creación (clave `error`, paridad con el contrato original).
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse cuerpo genérico `{message}` para confirmaciones y 404.
type MessageResponse struct {
	Message string `json:"message"`
}

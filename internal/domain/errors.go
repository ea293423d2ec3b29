package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrFileNotFound = errors.New("archivo no encontrado")
	ErrNoImage      = errors.New("no se adjuntó ninguna imagen")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnknownField = errors.New("campo no permitido")
)

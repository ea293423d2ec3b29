package repository

import "time"

// ImageStore define el puerto de almacenamiento de imágenes en dos fases:
// Stage escribe los bytes en un área de staging y Commit los promueve al
// nombre definitivo. Los archivos confirmados nunca se eliminan.
type ImageStore interface {
	// Stage escribe los bytes en staging y devuelve un token temporal.
	Stage(data []byte) (string, error)
	// NextName calcula el nombre definitivo (<millis><ext>) que Commit usará.
	NextName(originalExt string) string
	// Commit promueve un archivo en staging a su nombre definitivo.
	Commit(stagedToken, finalName string) error
	// Discard elimina un archivo en staging (compensación si la creación falla).
	Discard(stagedToken string) error
	// Resolve devuelve la ruta absoluta de un archivo confirmado.
	// Devuelve domain.ErrFileNotFound si no existe.
	Resolve(storedFilename string) (string, error)
	// ReconcileOrphans elimina archivos de staging más antiguos que el corte
	// y devuelve cuántos se barrieron. Nunca toca archivos confirmados.
	ReconcileOrphans(olderThan time.Duration) (int, error)
}

package entity

// Product representa un artículo del catálogo con su imagen asociada.
// ImagePath es el nombre bajo el cual la imagen quedó guardada en disco;
// el sistema no garantiza que el archivo exista (referencias huérfanas posibles).
type Product struct {
	ID          string // hex del ObjectID asignado por el almacén
	Name        string
	Description string
	Price       float64
	ImagePath   string
}

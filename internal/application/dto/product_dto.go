package dto

// CreateProductRequest entrada para crear un producto (campos de texto del
// multipart; la imagen viaja aparte). Price llega como texto y se parsea en
// el caso de uso; los campos vacíos se aceptan tal cual.
type CreateProductRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
}

// UpdateProductRequest entrada para actualizar un producto (PUT y PATCH).
// Punteros para distinguir "campo omitido" de "campo puesto en vacío/cero":
// un campo omitido conserva su valor, uno presente lo reemplaza siempre.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	ImagePath   *string  `json:"imagePath"`
}

// ProductResponse salida de un producto. Mismas claves que el documento
// persistido (_id, imagePath) para que lista y actualizaciones compartan forma.
type ProductResponse struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImagePath   string  `json:"imagePath"`
}

// UpdateProductResponse envoltura de PUT/PATCH: mensaje más el producto
// actualizado con la misma forma plana que los elementos del listado.
type UpdateProductResponse struct {
	Message        string          `json:"message"`
	UpdatedProduct ProductResponse `json:"updatedProduct"`
}

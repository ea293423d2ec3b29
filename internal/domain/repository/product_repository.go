package repository

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos de lectura devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	// Create persiste un producto nuevo; el almacén asigna el ID.
	Create(ctx context.Context, product *entity.Product) error
	// FindAll devuelve todos los productos, sin orden garantizado.
	FindAll(ctx context.Context) ([]*entity.Product, error)
	// FindByID busca por ID; un ID malformado se trata como no encontrado.
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	// Update reemplaza el documento completo (last-write-wins, sin token de concurrencia).
	Update(ctx context.Context, product *entity.Product) error
	// Delete elimina por ID y devuelve el producto eliminado.
	Delete(ctx context.Context, id string) (*entity.Product, error)
}

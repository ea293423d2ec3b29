package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos más subida y descarga de imagen.
type ProductUseCase struct {
	repo     repository.ProductRepository
	store    repository.ImageStore
	validate *validator.Validate
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, store repository.ImageStore) *ProductUseCase {
	return &ProductUseCase{
		repo:     repo,
		store:    store,
		validate: validator.New(),
	}
}

// List devuelve todos los productos.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Create sube la imagen y crea el producto en dos fases: la imagen queda en
// staging, se crea el registro con el nombre definitivo y recién entonces se
// confirma el archivo. Si el registro falla se descarta el staging; si la
// confirmación falla se elimina el registro.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, image []byte, originalName string) error {
	if len(image) == 0 {
		return domain.ErrNoImage
	}

	staged, err := uc.store.Stage(image)
	if err != nil {
		return err
	}
	finalName := uc.store.NextName(filepath.Ext(originalName))

	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       parsePrice(in.Price),
		ImagePath:   finalName,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		_ = uc.store.Discard(staged)
		return err
	}
	if err := uc.store.Commit(staged, finalName); err != nil {
		_, _ = uc.repo.Delete(ctx, product.ID)
		return err
	}
	return nil
}

// Update aplica una actualización con campos marcados por presencia: los
// omitidos conservan su valor, los presentes lo reemplazan siempre (incluidos
// cero y cadena vacía). Devuelve (nil, nil) si el producto no existe.
// No valida que un imagePath suministrado tenga archivo correspondiente.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.ImagePath != nil {
		product.ImagePath = *in.ImagePath
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID. No toca la imagen asociada: los archivos
// confirmados son inmortales y pueden quedar colgando tras el borrado.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Download resuelve la imagen de un producto. Devuelve el nombre almacenado y
// la ruta absoluta. ErrNotFound si el producto no existe o no tiene imagen;
// ErrFileNotFound si el registro apunta a un archivo que ya no está en disco.
func (uc *ProductUseCase) Download(ctx context.Context, id string) (filename, path string, err error) {
	product, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	if product == nil || product.ImagePath == "" {
		return "", "", domain.ErrNotFound
	}
	path, err = uc.store.Resolve(product.ImagePath)
	if err != nil {
		return "", "", err
	}
	return product.ImagePath, path, nil
}

// parsePrice convierte el texto del formulario a número. Vacío o no numérico
// se acepta en silencio como 0 (los campos de texto no se validan).
func parsePrice(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImagePath:   p.ImagePath,
	}
}

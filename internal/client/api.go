package client

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// API cliente HTTP de la Catálogo API.
type API struct {
	http *resty.Client
}

// NewAPI construye el cliente contra la URL base del servicio.
func NewAPI(baseURL string) *API {
	return &API{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
	}
}

// List obtiene el listado completo de productos.
func (a *API) List(ctx context.Context) ([]dto.ProductResponse, error) {
	var out []dto.ProductResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("listar productos: %s", resp.Status())
	}
	return out, nil
}

// Create sube un producto nuevo con su imagen (multipart). El servidor no
// devuelve el ID asignado: hay que volver a pedir el listado para verlo.
func (a *API) Create(ctx context.Context, name, description, price, imageFile string) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"name":        name,
			"description": description,
			"price":       price,
		}).
		SetFile("image", imageFile).
		Post("/api/products")
	if err != nil {
		return fmt.Errorf("crear producto: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("crear producto: %s", resp.Status())
	}
	return nil
}

// Update aplica un PUT con campos por presencia y devuelve el producto
// actualizado ya desenvuelto de `{message, updatedProduct}`, con la misma
// forma plana que los elementos del listado.
func (a *API) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out dto.UpdateProductResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Put("/api/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("actualizar producto: %s", resp.Status())
	}
	return &out.UpdatedProduct, nil
}

// Patch aplica un PATCH con la misma lista de campos permitidos.
func (a *API) Patch(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var out dto.UpdateProductResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Patch("/api/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("actualizar producto: %s", resp.Status())
	}
	return &out.UpdatedProduct, nil
}

// Delete elimina un producto. El cuerpo de la respuesta no se inspecciona.
func (a *API) Delete(ctx context.Context, id string) error {
	resp, err := a.http.R().
		SetContext(ctx).
		Delete("/api/products/" + id)
	if err != nil {
		return fmt.Errorf("eliminar producto: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("eliminar producto: %s", resp.Status())
	}
	return nil
}

// Download baja la imagen de un producto. El nombre sale del header
// Content-Disposition; si no se puede parsear se genera un nombre por defecto.
func (a *API) Download(ctx context.Context, id string) (string, []byte, error) {
	resp, err := a.http.R().
		SetContext(ctx).
		Get("/api/products/" + id + "/download")
	if err != nil {
		return "", nil, fmt.Errorf("descargar imagen: %w", err)
	}
	if resp.IsError() {
		return "", nil, fmt.Errorf("descargar imagen: %s", resp.Status())
	}
	return downloadFilename(resp.Header().Get("Content-Disposition"), id), resp.Body(), nil
}

// downloadFilename extrae el nombre del Content-Disposition y lo reduce a un
// nombre base (sin rutas). Formatos inesperados caen al nombre por defecto.
func downloadFilename(disposition, id string) string {
	fallback := "product_" + id + ".jpg"
	if disposition == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return fallback
	}
	name := filepath.Base(params["filename"])
	if name == "" || name == "." || name == string(filepath.Separator) {
		return fallback
	}
	return name
}

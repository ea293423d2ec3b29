package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// FormState estado del formulario de producto. En modo creación ImageFile es
// la ruta local de la imagen a subir; en modo edición el formulario carga los
// valores actuales del producto.
type FormState struct {
	Name        string
	Description string
	Price       string // texto tal como lo escribió el usuario
	ImageFile   string
}

// Controller mantiene el estado del formulario y del listado, y orquesta las
// llamadas a la API espejando el listado en la caché local.
type Controller struct {
	api   *API
	cache *Cache

	Form      FormState
	Editing   bool
	EditingID string
	Products  []dto.ProductResponse
}

// NewController construye el controlador.
func NewController(api *API, cache *Cache) *Controller {
	return &Controller{api: api, cache: cache}
}

// Load trae el listado completo. Un fetch exitoso reescribe la caché local;
// si el servidor no responde se usa la copia local mientras siga fresca.
func (c *Controller) Load(ctx context.Context) error {
	products, err := c.api.List(ctx)
	if err != nil {
		if cached, ok := c.cache.Load(); ok {
			c.Products = cached
			return nil
		}
		return err
	}
	c.Products = products
	// El espejo local es mejor-esfuerzo: un fallo de escritura no rompe el listado.
	_ = c.cache.Save(products)
	return nil
}

// BeginEdit carga un producto del listado en el formulario y entra en modo edición.
func (c *Controller) BeginEdit(id string) error {
	for _, p := range c.Products {
		if p.ID == id {
			c.Form = FormState{
				Name:        p.Name,
				Description: p.Description,
				Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
			}
			c.Editing = true
			c.EditingID = id
			return nil
		}
	}
	return fmt.Errorf("el producto %s no está en el listado", id)
}

// ClearForm vuelve al modo creación con el formulario vacío.
func (c *Controller) ClearForm() {
	c.Form = FormState{}
	c.Editing = false
	c.EditingID = ""
}

// Submit envía el formulario. En modo edición hace PUT y reemplaza la entrada
// del listado con el producto devuelto (misma forma que el listado); en modo
// creación sube el multipart y re-lee el listado, porque el servidor no
// devuelve el ID asignado.
func (c *Controller) Submit(ctx context.Context) error {
	if c.Editing {
		in := dto.UpdateProductRequest{
			Name:        &c.Form.Name,
			Description: &c.Form.Description,
		}
		if c.Form.Price != "" {
			d, err := decimal.NewFromString(c.Form.Price)
			if err != nil {
				return fmt.Errorf("precio inválido: %q", c.Form.Price)
			}
			price, _ := d.Float64()
			in.Price = &price
		}
		updated, err := c.api.Update(ctx, c.EditingID, in)
		if err != nil {
			return err
		}
		for i := range c.Products {
			if c.Products[i].ID == updated.ID {
				c.Products[i] = *updated
				break
			}
		}
		c.ClearForm()
		return nil
	}

	if err := c.api.Create(ctx, c.Form.Name, c.Form.Description, c.Form.Price, c.Form.ImageFile); err != nil {
		return err
	}
	c.ClearForm()
	return c.Load(ctx)
}

// Remove elimina un producto y lo filtra del listado local sin inspeccionar
// el cuerpo de la confirmación.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return err
	}
	filtered := c.Products[:0]
	for _, p := range c.Products {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	c.Products = filtered
	return nil
}

// SaveDownload baja la imagen de un producto y la escribe en destDir con el
// nombre derivado del Content-Disposition. Devuelve la ruta escrita.
func (c *Controller) SaveDownload(ctx context.Context, id, destDir string) (string, error) {
	filename, data, err := c.api.Download(ctx, id)
	if err != nil {
		return "", err
	}
	path := filepath.Join(destDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("guardar descarga: %w", err)
	}
	return path, nil
}

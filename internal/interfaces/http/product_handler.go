package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("listar productos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "error interno del servidor"})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto con imagen
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  false  "Nombre"
// @Param        description  formData  string  false  "Descripción"
// @Param        price        formData  string  false  "Precio"
// @Param        image        formData  file    true   "Imagen del producto"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no se adjuntó ninguna imagen"})
	}
	f, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Msg("abrir imagen subida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo crear el producto"})
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		log.Error().Err(err).Msg("leer imagen subida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo crear el producto"})
	}

	// Los campos de texto no se validan: vacíos se aceptan tal cual.
	in := dto.CreateProductRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
	}

	if err := h.uc.Create(c.Context(), in, image, fh.Filename); err != nil {
		if errors.Is(err, domain.ErrNoImage) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "no se adjuntó ninguna imagen"})
		}
		log.Error().Err(err).Str("name", in.Name).Msg("crear producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "no se pudo crear el producto"})
	}
	// El ID asignado no se devuelve: el cliente vuelve a pedir el listado.
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "producto creado correctamente"})
}

// Download godoc
// @Summary      Descargar la imagen de un producto
// @Tags         products
// @Produce      octet-stream
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /api/products/{id}/download [get]
func (h *ProductHandler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	filename, path, err := h.uc.Download(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "producto o archivo no encontrado"})
		}
		log.Error().Err(err).Str("id", id).Msg("descargar imagen")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "error interno del servidor"})
	}
	if err := c.SendFile(path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("enviar archivo")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "error interno del servidor"})
	}
	// Tipo fijo: el contrato asume imagen JPEG sin inspeccionar el contenido.
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
	return nil
}

// Update godoc
// @Summary      Actualizar producto (campos por presencia)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a reemplazar"
// @Success      200   {object}  dto.UpdateProductResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "cuerpo inválido"})
	}
	return h.applyUpdate(c, in)
}

// Patch godoc
// @Summary      Actualizar producto parcialmente (campos permitidos)
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a reemplazar"
// @Success      200   {object}  dto.UpdateProductResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Patch(c *fiber.Ctx) error {
	// Lista blanca estricta: claves desconocidas se rechazan en vez de
	// persistirse tal cual sobre el documento.
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	var in dto.UpdateProductRequest
	if err := dec.Decode(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "cuerpo inválido o campo no permitido"})
	}
	return h.applyUpdate(c, in)
}

func (h *ProductHandler) applyUpdate(c *fiber.Ctx, in dto.UpdateProductRequest) error {
	id := c.Params("id")
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "entrada inválida"})
		}
		log.Error().Err(err).Str("id", id).Msg("actualizar producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "error interno del servidor"})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "producto no encontrado"})
	}
	return c.JSON(dto.UpdateProductResponse{
		Message:        "producto actualizado correctamente",
		UpdatedProduct: *out,
	})
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.Delete(c.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("eliminar producto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.MessageResponse{Message: "error interno del servidor"})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "producto no encontrado"})
	}
	// La imagen asociada no se elimina del disco.
	return c.JSON(dto.MessageResponse{Message: "producto eliminado correctamente"})
}

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localfs"
)

// fakeRepo repositorio en memoria para los tests (last-write-wins, sin orden).
type fakeRepo struct {
	mu         sync.Mutex
	products   map[string]*entity.Product
	seq        int
	failCreate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[string]*entity.Product{}}
}

func (r *fakeRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("fallo simulado del almacén")
	}
	r.seq++
	p.ID = fmt.Sprintf("%024d", r.seq)
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	delete(r.products, id)
	return p, nil
}

func buildUseCase(t *testing.T) (*usecase.ProductUseCase, *fakeRepo, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := localfs.New(dir)
	require.NoError(t, err)
	repo := newFakeRepo()
	return usecase.NewProductUseCase(repo, store), repo, dir
}

// Caso 1: crear con imagen deja registro y archivo confirmado coherentes.
func TestCreate_ConImagen(t *testing.T) {
	uc, _, dir := buildUseCase(t)
	in := dto.CreateProductRequest{Name: "Lámpara", Description: "de escritorio", Price: "19.90"}

	require.NoError(t, uc.Create(context.Background(), in, []byte("jpeg"), "foto.jpg"))

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lámpara", list[0].Name)
	assert.Equal(t, 19.90, list[0].Price)
	assert.NotEmpty(t, list[0].ImagePath)

	got, err := os.ReadFile(filepath.Join(dir, list[0].ImagePath))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got, "el archivo confirmado contiene los bytes subidos")
}

// Caso 2: sin imagen no se persiste nada.
func TestCreate_SinImagen(t *testing.T) {
	uc, repo, _ := buildUseCase(t)

	err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "x"}, nil, "")
	assert.ErrorIs(t, err, domain.ErrNoImage)
	assert.Empty(t, repo.products, "no debe quedar registro")
}

// Caso 3: si el registro falla, el staging se descarta (sin huérfanos).
func TestCreate_RegistroFalla_DescartaStaging(t *testing.T) {
	uc, repo, dir := buildUseCase(t)
	repo.failCreate = true

	err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "x"}, []byte("jpeg"), "foto.jpg")
	require.Error(t, err)

	staged, err := os.ReadDir(filepath.Join(dir, ".staging"))
	require.NoError(t, err)
	assert.Empty(t, staged, "el staging debe quedar limpio tras la compensación")

	confirmed, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, confirmed, 1) // solo .staging
	assert.Equal(t, ".staging", confirmed[0].Name())
}

// Precio vacío o no numérico se guarda en silencio como 0.
func TestCreate_PrecioNoNumerico(t *testing.T) {
	uc, _, _ := buildUseCase(t)

	require.NoError(t, uc.Create(context.Background(),
		dto.CreateProductRequest{Name: "x", Price: "no-es-numero"}, []byte("jpeg"), "foto.jpg"))

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].Price)
}

func seedProduct(t *testing.T, repo *fakeRepo) string {
	t.Helper()
	p := &entity.Product{Name: "Silla", Description: "plegable", Price: 45, ImagePath: "1700000000000.jpg"}
	require.NoError(t, repo.Create(context.Background(), p))
	return p.ID
}

// Campos omitidos conservan su valor; presentes lo reemplazan, incluido 0 y "".
func TestUpdate_CamposPorPresencia(t *testing.T) {
	uc, repo, _ := buildUseCase(t)
	id := seedProduct(t, repo)

	// Solo price: pasa a 0 (antes del rediseño 0 se ignoraba por falsy).
	zero := 0.0
	out, err := uc.Update(context.Background(), id, dto.UpdateProductRequest{Price: &zero})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, 0.0, out.Price)
	assert.Equal(t, "Silla", out.Name, "name omitido conserva su valor")

	// Descripción vacía explícita también se aplica.
	empty := ""
	out, err = uc.Update(context.Background(), id, dto.UpdateProductRequest{Description: &empty})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, out.Description)
	assert.Equal(t, 0.0, out.Price, "price se conserva de la actualización anterior")
}

// imagePath suministrado pisa el anterior sin validar que exista archivo.
func TestUpdate_ImagePathSinValidacion(t *testing.T) {
	uc, repo, _ := buildUseCase(t)
	id := seedProduct(t, repo)

	nuevo := "9999999999999.png"
	out, err := uc.Update(context.Background(), id, dto.UpdateProductRequest{ImagePath: &nuevo})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, nuevo, out.ImagePath)
}

func TestUpdate_PrecioNegativo(t *testing.T) {
	uc, repo, _ := buildUseCase(t)
	id := seedProduct(t, repo)

	negativo := -3.0
	_, err := uc.Update(context.Background(), id, dto.UpdateProductRequest{Price: &negativo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_NoEncontrado(t *testing.T) {
	uc, _, _ := buildUseCase(t)
	out, err := uc.Update(context.Background(), "000000000000000000000099", dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Eliminar no toca la imagen confirmada.
func TestDelete_NoTocaImagen(t *testing.T) {
	uc, repo, dir := buildUseCase(t)
	require.NoError(t, uc.Create(context.Background(),
		dto.CreateProductRequest{Name: "x"}, []byte("jpeg"), "foto.jpg"))

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	out, err := uc.Delete(context.Background(), list[0].ID)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, repo.products)

	_, err = os.Stat(filepath.Join(dir, list[0].ImagePath))
	assert.NoError(t, err, "el archivo sigue en disco tras borrar el registro")
}

func TestDelete_NoEncontrado(t *testing.T) {
	uc, _, _ := buildUseCase(t)
	out, err := uc.Delete(context.Background(), "000000000000000000000099")
	require.NoError(t, err)
	assert.Nil(t, out)
}

// Download: sin imagePath es no-encontrado, con archivo borrado es ErrFileNotFound.
func TestDownload_Casos(t *testing.T) {
	uc, repo, dir := buildUseCase(t)

	sin := &entity.Product{Name: "sin imagen"}
	require.NoError(t, repo.Create(context.Background(), sin))
	_, _, err := uc.Download(context.Background(), sin.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = uc.Download(context.Background(), "000000000000000000000099")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Create(context.Background(),
		dto.CreateProductRequest{Name: "con imagen"}, []byte("jpeg"), "foto.jpg"))
	list, err := uc.List(context.Background())
	require.NoError(t, err)
	var id, imagePath string
	for _, p := range list {
		if p.ImagePath != "" {
			id, imagePath = p.ID, p.ImagePath
		}
	}
	filename, path, err := uc.Download(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, imagePath, filename)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got)

	// Registro que apunta a un archivo desaparecido.
	require.NoError(t, os.Remove(filepath.Join(dir, imagePath)))
	_, _, err = uc.Download(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

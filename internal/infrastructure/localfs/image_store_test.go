package localfs_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localfs"
)

func newStore(t *testing.T) (*localfs.ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := localfs.New(dir)
	require.NoError(t, err, "el almacén debe crearse sobre un directorio temporal")
	return store, dir
}

// Flujo completo: stage → commit → resolve devuelve los mismos bytes.
func TestImageStore_StageCommitResolve(t *testing.T) {
	store, _ := newStore(t)
	data := []byte("bytes-de-imagen-jpeg")

	token, err := store.Stage(data)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	name := store.NextName(".jpg")
	assert.True(t, strings.HasSuffix(name, ".jpg"), "el nombre definitivo conserva la extensión original")

	require.NoError(t, store.Commit(token, name))

	path, err := store.Resolve(name)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got, "los bytes resueltos deben ser idénticos a los subidos")
}

// El nombre definitivo es un timestamp en milisegundos más la extensión.
func TestImageStore_NextNameFormato(t *testing.T) {
	store, _ := newStore(t)
	name := store.NextName(".png")
	millis, err := strconv.ParseInt(strings.TrimSuffix(name, ".png"), 10, 64)
	require.NoError(t, err, "el prefijo debe ser numérico")
	assert.InDelta(t, time.Now().UnixMilli(), millis, float64(5*time.Second/time.Millisecond))
}

// Discard limpia el staging: un commit posterior del mismo token falla.
func TestImageStore_Discard(t *testing.T) {
	store, _ := newStore(t)
	token, err := store.Stage([]byte("temporal"))
	require.NoError(t, err)

	require.NoError(t, store.Discard(token))
	assert.Error(t, store.Commit(token, store.NextName(".jpg")),
		"no debe poder confirmarse un staging ya descartado")

	// Descartar dos veces no es un error.
	assert.NoError(t, store.Discard(token))
}

// Resolve rechaza nombres inexistentes y nombres que escapan del directorio.
func TestImageStore_ResolveNoEncontrado(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Resolve("1700000000000.jpg")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = store.Resolve("../fuera.jpg")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = store.Resolve(".staging")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

// El barrido elimina solo staging viejo; lo confirmado y lo reciente quedan.
func TestImageStore_ReconcileOrphans(t *testing.T) {
	store, dir := newStore(t)

	oldToken, err := store.Stage([]byte("huérfano"))
	require.NoError(t, err)
	freshToken, err := store.Stage([]byte("reciente"))
	require.NoError(t, err)

	committed := store.NextName(".jpg")
	commitToken, err := store.Stage([]byte("confirmada"))
	require.NoError(t, err)
	require.NoError(t, store.Commit(commitToken, committed))

	// Envejecer el primer staging por detrás del corte.
	oldPath := filepath.Join(dir, ".staging", oldToken)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := store.ReconcileOrphans(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed, "solo el staging viejo debe barrerse")

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, ".staging", freshToken))
	assert.NoError(t, err, "el staging reciente sigue en su sitio")
	_, err = store.Resolve(committed)
	assert.NoError(t, err, "los archivos confirmados nunca se barren")
}

// catalogctl es el cliente de línea de comandos de la Catálogo API: listado,
// alta con imagen, edición, borrado y descarga de productos.
//
// Uso: catalogctl <list|add|update|patch|delete|download> [flags]
// La URL base se toma de CATALOGO_URL (por defecto http://localhost:3000).
// El listado se espeja en una caché local que sirve de respaldo sin servidor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/client"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("CATALOGO_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	api := client.NewAPI(baseURL)
	cache := client.NewCache(filepath.Join(cacheDir, "catalogo", "products.json"), 15*time.Minute)
	ctl := client.NewController(api, cache)
	ctx := context.Background()

	switch os.Args[1] {
	case "list":
		err = runList(ctx, ctl)
	case "add":
		err = runAdd(ctx, ctl, os.Args[2:])
	case "update":
		err = runUpdate(ctx, ctl, os.Args[2:])
	case "patch":
		err = runPatch(ctx, api, os.Args[2:])
	case "delete":
		err = runDelete(ctx, ctl, os.Args[2:])
	case "download":
		err = runDownload(ctx, ctl, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalogctl %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: catalogctl <list|add|update|patch|delete|download> [flags]")
}

func runList(ctx context.Context, ctl *client.Controller) error {
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	for _, p := range ctl.Products {
		fmt.Printf("%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, p.ImagePath)
	}
	return nil
}

func runAdd(ctx context.Context, ctl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "nombre del producto")
	desc := fs.String("description", "", "descripción")
	price := fs.String("price", "", "precio")
	image := fs.String("image", "", "ruta de la imagen a subir (obligatoria)")
	_ = fs.Parse(args)
	if *image == "" {
		return fmt.Errorf("-image es obligatorio")
	}
	ctl.Form = client.FormState{
		Name:        *name,
		Description: *desc,
		Price:       *price,
		ImageFile:   *image,
	}
	return ctl.Submit(ctx)
}

func runUpdate(ctx context.Context, ctl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "ID del producto (obligatorio)")
	name := fs.String("name", "", "nuevo nombre")
	desc := fs.String("description", "", "nueva descripción")
	price := fs.String("price", "", "nuevo precio")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id es obligatorio")
	}
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	if err := ctl.BeginEdit(*id); err != nil {
		return err
	}
	// Solo los flags presentes pisan el formulario cargado.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			ctl.Form.Name = *name
		case "description":
			ctl.Form.Description = *desc
		case "price":
			ctl.Form.Price = *price
		}
	})
	return ctl.Submit(ctx)
}

func runPatch(ctx context.Context, api *client.API, args []string) error {
	fs := flag.NewFlagSet("patch", flag.ExitOnError)
	id := fs.String("id", "", "ID del producto (obligatorio)")
	name := fs.String("name", "", "nuevo nombre")
	desc := fs.String("description", "", "nueva descripción")
	price := fs.Float64("price", 0, "nuevo precio")
	imagePath := fs.String("imagepath", "", "nuevo imagePath (sin re-subida)")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id es obligatorio")
	}
	var in dto.UpdateProductRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = name
		case "description":
			in.Description = desc
		case "price":
			in.Price = price
		case "imagepath":
			in.ImagePath = imagePath
		}
	})
	updated, err := api.Patch(ctx, *id, in)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\t%.2f\t%s\n", updated.ID, updated.Name, updated.Price, updated.ImagePath)
	return nil
}

func runDelete(ctx context.Context, ctl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "ID del producto (obligatorio)")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id es obligatorio")
	}
	return ctl.Remove(ctx, *id)
}

func runDownload(ctx context.Context, ctl *client.Controller, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	id := fs.String("id", "", "ID del producto (obligatorio)")
	dir := fs.String("dir", ".", "directorio destino")
	_ = fs.Parse(args)
	if *id == "" {
		return fmt.Errorf("-id es obligatorio")
	}
	path, err := ctl.SaveDownload(ctx, *id, *dir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productsCollection = "products"

// productDoc es el mapeo de persistencia de entity.Product. Los nombres bson
// coinciden con el contrato de la API (_id, imagePath).
type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	ImagePath   string             `bson:"imagePath"`
}

func (d *productDoc) toEntity() *entity.Product {
	return &entity.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImagePath:   d.ImagePath,
	}
}

func fromEntity(p *entity.Product) (*productDoc, error) {
	doc := &productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImagePath:   p.ImagePath,
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("id de producto inválido: %w", err)
		}
		doc.ID = oid
	}
	return doc, nil
}

// ProductRepo implementación del puerto ProductRepository sobre MongoDB.
type ProductRepo struct {
	col *mongo.Collection
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(db *mongo.Database) *ProductRepo {
	return &ProductRepo{col: db.Collection(productsCollection)}
}

// Create persiste un nuevo producto y escribe el ID asignado en la entidad.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc, err := fromEntity(product)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid.Hex()
	}
	return nil
}

// FindAll devuelve todos los productos en orden natural de la colección.
func (r *ProductRepo) FindAll(ctx context.Context) ([]*entity.Product, error) {
	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var list []*entity.Product
	for cur.Next(ctx) {
		var d productDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		list = append(list, d.toEntity())
	}
	return list, cur.Err()
}

// FindByID obtiene un producto por ID. Un hex malformado se trata como no encontrado.
func (r *ProductRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d productDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return d.toEntity(), nil
}

// Update reemplaza el documento completo por _id (last-write-wins).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	doc, err := fromEntity(product)
	if err != nil {
		return err
	}
	_, err = r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID y devuelve el documento eliminado,
// o (nil, nil) si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id string) (*entity.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d productDoc
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return d.toEntity(), nil
}

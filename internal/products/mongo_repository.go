package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Description       string             `bson:"description,omitempty"`
	StockQuantity     int                `bson:"stock_quantity"`
	LowStockThreshold int                `bson:"low_stock_threshold"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func toDocument(p Product) productDocument {
	doc := productDocument{
		Name:              p.Name,
		Description:       p.Description,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d productDocument) toProduct() Product {
	return Product{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Description:       d.Description,
		StockQuantity:     d.StockQuantity,
		LowStockThreshold: d.LowStockThreshold,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// MongoRepository stores products as documents in a single collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		coll: coll,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *MongoRepository) Insert(ctx context.Context, p *Product) (*Product, error) {
	record := *p
	if err := prepareInsert(&record, r.now()); err != nil {
		return nil, err
	}
	doc := toDocument(record)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	created := doc.toProduct()
	return &created, nil
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]Product, error) {
	return r.Find(ctx, Filter{})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	found := doc.toProduct()
	return &found, nil
}

func (r *MongoRepository) FindByIDAndUpdate(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDocument(update, r.now()), opts).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	updated := doc.toProduct()
	return &updated, nil
}

func (r *MongoRepository) FindByIDAndDelete(ctx context.Context, id string) (*Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoError(err)
	}
	deleted := doc.toProduct()
	return &deleted, nil
}

func (r *MongoRepository) Find(ctx context.Context, filter Filter) ([]Product, error) {
	cursor, err := r.coll.Find(ctx, filterDocument(filter))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]Product, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toProduct())
	}
	return out, nil
}

// filterDocument translates a Filter into a collection query. The low-stock
// comparison runs server side across two fields of the same document.
func filterDocument(filter Filter) bson.M {
	query := bson.M{}
	if filter.LowStock {
		query["$expr"] = bson.M{"$lt": bson.A{"$stock_quantity", "$low_stock_threshold"}}
	}
	return query
}

// updateDocument builds the $set for a validated partial update. Stock
// values are clamped at zero the same way inserts are.
func updateDocument(update ProductUpdate, now time.Time) bson.M {
	scratch := Product{}
	update.Apply(&scratch)

	set := bson.M{"updatedAt": now}
	if update.Name != nil {
		set["name"] = scratch.Name
	}
	if update.Description != nil {
		set["description"] = scratch.Description
	}
	if update.StockQuantity != nil {
		scratch.EnforceStockFloor()
		set["stock_quantity"] = scratch.StockQuantity
	}
	if update.LowStockThreshold != nil {
		set["low_stock_threshold"] = scratch.LowStockThreshold
	}
	return bson.M{"$set": set}
}

func mapMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"screenbot/internal/model"
)

type mongoRecordRepo struct {
	collection *mongo.Collection
}

// NewMongoRecordRepo stores one document per record, each cell kept as a string
func NewMongoRecordRepo(db *mongo.Database, collection string) RowStore {
	return &mongoRecordRepo{
		collection: db.Collection(collection),
	}
}

func (r *mongoRecordRepo) AppendRow(ctx context.Context, record *model.SessionRecord) error {
	doc := bson.D{}
	values := record.Values()
	for i, col := range model.RecordHeader {
		doc = append(doc, bson.E{Key: col, Value: values[i]})
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return storeErr("append", err)
}

func (r *mongoRecordRepo) FetchAllRows(ctx context.Context) ([]model.RecordRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeErr("fetch", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeErr("fetch", err)
	}

	rows := make([]model.RecordRow, 0, len(docs))
	for _, doc := range docs {
		row := make(model.RecordRow, len(model.RecordHeader))
		for _, col := range model.RecordHeader {
			if v, ok := doc[col]; ok && v != nil {
				row[col] = fmt.Sprint(v)
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *mongoRecordRepo) Close(ctx context.Context) error {
	return r.collection.Database().Client().Disconnect(ctx)
}

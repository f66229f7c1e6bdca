package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("carts").Indexes()

	sessionKeyIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "sessionKey", Value: 1}},
		Options: options.Index().
			SetName("sessionKey_unique").
			SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating sessionKey_unique index")
	_, err := indexes.CreateOne(ctx, sessionKeyIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: sessionKey index error:", err)
		return err
	}
	log.Println("EnsureCartIndexes: sessionKey_unique index created")
	return nil
}

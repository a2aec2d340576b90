package mongo

import (
	"coachfit/coaching-app/internal/domain"
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationCollectionName = "schema_migrations"
const schemaVersionDocID = "schema_version"

// migration is one upgrade step. Steps must be idempotent: the version
// document decides whether a step runs, but a crash between the step and the
// version bump means it runs again on the next start.
type migration struct {
	version int
	name    string
	run     func(ctx context.Context, db *mongo.Database) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "backfill isTemplate flag on plans",
		run: func(ctx context.Context, db *mongo.Database) error {
			// Plans written before the template/instance split are all
			// templates: instances only ever exist with the flag set.
			_, err := db.Collection(planCollectionName).UpdateMany(ctx,
				bson.M{"isTemplate": bson.M{"$exists": false}},
				bson.M{"$set": bson.M{"isTemplate": true}},
			)
			return err
		},
	},
	{
		version: 2,
		name:    "backfill pending status on check-ins",
		run: func(ctx context.Context, db *mongo.Database) error {
			_, err := db.Collection(checkInCollectionName).UpdateMany(ctx,
				bson.M{"status": bson.M{"$exists": false}},
				bson.M{"$set": bson.M{"status": domain.CheckInPending}},
			)
			return err
		},
	},
	{
		version: 3,
		name:    "complete stale duplicate active check-ins",
		run: func(ctx context.Context, db *mongo.Database) error {
			// Older data could hold several active check-ins per client.
			// Keep the newest active one and close the rest so the
			// one-active-per-client invariant holds going forward.
			coll := db.Collection(checkInCollectionName)
			activeFilter := bson.M{
				"status": bson.M{"$in": bson.A{domain.CheckInPending, domain.CheckInResponded}},
			}
			cursor, err := coll.Find(ctx, activeFilter,
				options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
			if err != nil {
				return err
			}
			defer cursor.Close(ctx)

			var active []domain.CheckIn
			if err := cursor.All(ctx, &active); err != nil {
				return err
			}

			seen := map[string]bool{}
			for _, checkIn := range active {
				key := checkIn.ClientID.Hex()
				if !seen[key] {
					seen[key] = true
					continue
				}
				_, err := coll.UpdateOne(ctx,
					bson.M{"_id": checkIn.ID},
					bson.M{"$set": bson.M{
						"status":      domain.CheckInCompleted,
						"completedAt": checkIn.Date,
					}},
				)
				if err != nil {
					return err
				}
			}
			return nil
		},
	},
}

type versionDoc struct {
	ID      string `bson:"_id"`
	Version int    `bson:"version"`
}

// RunMigrations applies every migration above the stored schema version, in
// order, bumping the version after each step.
func RunMigrations(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(migrationCollectionName)

	var current versionDoc
	err := coll.FindOne(ctx, bson.M{"_id": schemaVersionDocID}).Decode(&current)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("read schema version: %w", err)
		}
		current = versionDoc{ID: schemaVersionDocID, Version: 0}
	}

	for _, m := range migrations {
		if m.version <= current.Version {
			continue
		}
		log.Printf("Running migration %d: %s", m.version, m.name)
		if err := m.run(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		_, err := coll.UpdateOne(ctx,
			bson.M{"_id": schemaVersionDocID},
			bson.M{"$set": bson.M{"version": m.version}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("record schema version %d: %w", m.version, err)
		}
		current.Version = m.version
	}

	return nil
}

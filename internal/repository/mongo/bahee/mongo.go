package bahee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"vigat-bahee/internal/db"
	baheedomain "vigat-bahee/internal/domain/bahee"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores the ledger in three collections. With transactions
// enabled (replica set required) Transaction runs inside a session; otherwise
// writes that need it are compensated when the callback fails.
type MongoRepository struct {
	client  *mongo.Client
	db      *mongo.Database
	useTx   bool
	session mongo.Session
	undo    *[]func(context.Context) error
}

func NewMongo(client *mongo.Client, database *mongo.Database, useTransactions bool) *MongoRepository {
	return &MongoRepository{client: client, db: database, useTx: useTransactions}
}

func (r *MongoRepository) headers() *mongo.Collection {
	return r.db.Collection(db.CollectionHeaders)
}

func (r *MongoRepository) entries() *mongo.Collection {
	return r.db.Collection(db.CollectionEntries)
}

func (r *MongoRepository) logs() *mongo.Collection {
	return r.db.Collection(db.CollectionReturnNets)
}

func (r *MongoRepository) withSession(ctx context.Context) context.Context {
	if r.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, r.session)
}

func (r *MongoRepository) remember(step func(context.Context) error) {
	if r.undo != nil {
		*r.undo = append(*r.undo, step)
	}
}

func (r *MongoRepository) Transaction(ctx context.Context, fn func(baheedomain.Repository) error) error {
	if r.session != nil || r.undo != nil {
		return fn(r)
	}

	if !r.useTx {
		var undo []func(context.Context) error
		tx := &MongoRepository{client: r.client, db: r.db, undo: &undo}
		if err := fn(tx); err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				if undoErr := undo[i](context.WithoutCancel(ctx)); undoErr != nil {
					return errors.Join(err, fmt.Errorf("compensate: %w", undoErr))
				}
			}
			return err
		}
		return nil
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&MongoRepository{client: r.client, db: r.db, useTx: true, session: session})
	})
	return err
}

func (r *MongoRepository) CreateHeader(ctx context.Context, header *baheedomain.Header) error {
	now := time.Now().UTC()
	header.CreatedAt = now
	header.UpdatedAt = now
	if _, err := r.headers().InsertOne(r.withSession(ctx), header); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return baheedomain.ErrHeaderExists
		}
		return err
	}
	return nil
}

func (r *MongoRepository) GetHeader(ctx context.Context, ownerID, id string) (*baheedomain.Header, error) {
	return r.findHeader(ctx, bson.M{"_id": id, "owner_id": ownerID})
}

func (r *MongoRepository) FindHeaderByName(ctx context.Context, ownerID string, category baheedomain.Category, nameKey string) (*baheedomain.Header, error) {
	return r.findHeader(ctx, bson.M{"owner_id": ownerID, "category": category, "name_key": nameKey})
}

func (r *MongoRepository) findHeader(ctx context.Context, filter bson.M) (*baheedomain.Header, error) {
	var header baheedomain.Header
	if err := r.headers().FindOne(r.withSession(ctx), filter).Decode(&header); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, baheedomain.ErrHeaderNotFound
		}
		return nil, err
	}
	return &header, nil
}

func (r *MongoRepository) ListHeaders(ctx context.Context, ownerID string, filter baheedomain.HeaderFilter) ([]baheedomain.Header, error) {
	query := bson.M{"owner_id": ownerID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.headers().Find(r.withSession(ctx), query, opts)
	if err != nil {
		return nil, err
	}
	var headers []baheedomain.Header
	if err := cursor.All(ctx, &headers); err != nil {
		return nil, err
	}
	return headers, nil
}

func (r *MongoRepository) UpdateHeader(ctx context.Context, header *baheedomain.Header) error {
	header.UpdatedAt = time.Now().UTC()
	result, err := r.headers().UpdateOne(r.withSession(ctx),
		bson.M{"_id": header.ID, "owner_id": header.OwnerID},
		bson.M{"$set": bson.M{
			"category":      header.Category,
			"category_name": header.CategoryName,
			"name":          header.Name,
			"name_key":      header.NameKey,
			"date":          header.Date,
			"tithi":         header.Tithi,
			"updated_at":    header.UpdatedAt,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return baheedomain.ErrHeaderExists
		}
		return err
	}
	if result.MatchedCount == 0 {
		return baheedomain.ErrHeaderNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteHeader(ctx context.Context, ownerID, id string) (bool, error) {
	result, err := r.headers().DeleteOne(r.withSession(ctx), bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoRepository) CountEntriesByHeader(ctx context.Context, ownerID string, category baheedomain.Category, headerName string) (int64, error) {
	return r.entries().CountDocuments(r.withSession(ctx), bson.M{
		"owner_id":    ownerID,
		"category":    category,
		"header_name": headerName,
	})
}

func (r *MongoRepository) RelinkEntries(ctx context.Context, ownerID string, category baheedomain.Category, fromName, toName string) (int64, error) {
	relink := func(ctx context.Context, from, to string) (int64, error) {
		result, err := r.entries().UpdateMany(r.withSession(ctx),
			bson.M{"owner_id": ownerID, "category": category, "header_name": from},
			bson.M{"$set": bson.M{"header_name": to, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return 0, err
		}
		return result.ModifiedCount, nil
	}

	moved, err := relink(ctx, fromName, toName)
	if err != nil {
		return 0, err
	}
	r.remember(func(ctx context.Context) error {
		_, err := relink(ctx, toName, fromName)
		return err
	})
	return moved, nil
}

func (r *MongoRepository) CreateEntry(ctx context.Context, entry *baheedomain.Entry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	_, err := r.entries().InsertOne(r.withSession(ctx), entry)
	return err
}

func (r *MongoRepository) GetEntry(ctx context.Context, ownerID, id string) (*baheedomain.Entry, error) {
	var entry baheedomain.Entry
	if err := r.entries().FindOne(r.withSession(ctx), bson.M{"_id": id, "owner_id": ownerID}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, baheedomain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *MongoRepository) ListEntries(ctx context.Context, ownerID string, filter baheedomain.EntryFilter) ([]baheedomain.Entry, int64, error) {
	query := bson.M{"owner_id": ownerID}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.HeaderName != "" {
		query["header_name"] = filter.HeaderName
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"father_name": pattern},
			bson.M{"village": pattern},
			bson.M{"caste": pattern},
		}
	}

	sctx := r.withSession(ctx)
	total, err := r.entries().CountDocuments(sctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.entries().Find(sctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var entries []baheedomain.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *MongoRepository) UpdateUnlockedEntry(ctx context.Context, entry *baheedomain.Entry) (bool, error) {
	entry.UpdatedAt = time.Now().UTC()
	result, err := r.entries().UpdateOne(r.withSession(ctx),
		bson.M{"_id": entry.ID, "owner_id": entry.OwnerID, "locked": false},
		bson.M{"$set": bson.M{
			"category":      entry.Category,
			"category_name": entry.CategoryName,
			"header_name":   entry.HeaderName,
			"caste":         entry.Caste,
			"name":          entry.Name,
			"father_name":   entry.FatherName,
			"village":       entry.Village,
			"income":        entry.Income,
			"amount":        entry.Amount,
			"updated_at":    entry.UpdatedAt,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *MongoRepository) DeleteUnlockedEntry(ctx context.Context, ownerID, id string) (bool, error) {
	result, err := r.entries().DeleteOne(r.withSession(ctx), bson.M{"_id": id, "owner_id": ownerID, "locked": false})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoRepository) LockEntry(ctx context.Context, ownerID, id string, lockDate time.Time, description string) (bool, error) {
	result, err := r.entries().UpdateOne(r.withSession(ctx),
		bson.M{"_id": id, "owner_id": ownerID, "locked": false},
		bson.M{"$set": bson.M{
			"locked":           true,
			"lock_date":        lockDate,
			"lock_description": description,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	if result.MatchedCount != 1 {
		return false, nil
	}

	r.remember(func(ctx context.Context) error {
		_, err := r.entries().UpdateOne(ctx,
			bson.M{"_id": id, "owner_id": ownerID, "locked": true},
			bson.M{"$set": bson.M{"locked": false, "lock_date": nil, "lock_description": ""}},
		)
		return err
	})
	return true, nil
}

func (r *MongoRepository) CreateReturnNetLog(ctx context.Context, log *baheedomain.ReturnNetLog) error {
	log.CreatedAt = time.Now().UTC()
	if _, err := r.logs().InsertOne(r.withSession(ctx), log); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return baheedomain.ErrConcurrentLockRace
		}
		return err
	}
	return nil
}

func (r *MongoRepository) GetReturnNetLog(ctx context.Context, ownerID, entryKey string) (*baheedomain.ReturnNetLog, error) {
	var log baheedomain.ReturnNetLog
	if err := r.logs().FindOne(r.withSession(ctx), bson.M{"entry_key": entryKey, "owner_id": ownerID}).Decode(&log); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, baheedomain.ErrReturnNetNotFound
		}
		return nil, err
	}
	return &log, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/pwnz15/Kre/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "listings"

type ListingMongoRepository struct {
	db *mongo.Database
}

func NewListingMongoRepository(client *mongo.Client, dbName string) *ListingMongoRepository {
	return &ListingMongoRepository{
		db: client.Database(dbName),
	}
}

// EnsureIndexes creates the indexes backing the filter keys and the
// recency sort. Safe to call on every startup.
func (r *ListingMongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "governorate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "preferences.gender", Value: 1}}},
		{Keys: bson.D{{Key: "price_per_person", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	}
	_, err := r.db.Collection(listingCollectionName).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

type preferencesDocument struct {
	Gender      string `bson:"gender"`
	StudyField  string `bson:"study_field,omitempty"`
	YearOfStudy string `bson:"year_of_study,omitempty"`
}

type listingDocument struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty"`
	OwnerID          string              `bson:"owner_id"`
	Title            string              `bson:"title"`
	Description      string              `bson:"description"`
	Governorate      string              `bson:"governorate"`
	City             string              `bson:"city"`
	Address          string              `bson:"address"`
	University       string              `bson:"university"`
	CurrentOccupants int                 `bson:"current_occupants"`
	TotalCapacity    int                 `bson:"total_capacity"`
	PricePerPerson   float64             `bson:"price_per_person"`
	Preferences      preferencesDocument `bson:"preferences"`
	Photos           []entity.PhotoRef   `bson:"photos"`
	Status           string              `bson:"status"`
	CreatedAt        primitive.DateTime  `bson:"created_at"`
	UpdatedAt        primitive.DateTime  `bson:"updated_at"`
}

func toListingDocument(l *entity.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		OwnerID:          l.OwnerID,
		Title:            l.Title,
		Description:      l.Description,
		Governorate:      l.Governorate,
		City:             l.City,
		Address:          l.Address,
		University:       l.University,
		CurrentOccupants: l.CurrentOccupants,
		TotalCapacity:    l.TotalCapacity,
		PricePerPerson:   l.PricePerPerson,
		Preferences: preferencesDocument{
			Gender:      string(l.Preferences.Gender),
			StudyField:  l.Preferences.StudyField,
			YearOfStudy: l.Preferences.YearOfStudy,
		},
		Photos:    l.Photos,
		Status:    string(l.Status),
		CreatedAt: primitive.NewDateTimeFromTime(l.CreatedAt),
		UpdatedAt: primitive.NewDateTimeFromTime(l.UpdatedAt),
	}
	if doc.Photos == nil {
		doc.Photos = []entity.PhotoRef{}
	}
	if l.ID != "" {
		objID, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toListingEntity(doc *listingDocument) *entity.Listing {
	return &entity.Listing{
		ID:               doc.ID.Hex(),
		OwnerID:          doc.OwnerID,
		Title:            doc.Title,
		Description:      doc.Description,
		Governorate:      doc.Governorate,
		City:             doc.City,
		Address:          doc.Address,
		University:       doc.University,
		CurrentOccupants: doc.CurrentOccupants,
		TotalCapacity:    doc.TotalCapacity,
		PricePerPerson:   doc.PricePerPerson,
		Preferences: entity.Preferences{
			Gender:      entity.Gender(doc.Preferences.Gender),
			StudyField:  doc.Preferences.StudyField,
			YearOfStudy: doc.Preferences.YearOfStudy,
		},
		Photos:    doc.Photos,
		Status:    entity.ListingStatus(doc.Status),
		CreatedAt: doc.CreatedAt.Time(),
		UpdatedAt: doc.UpdatedAt.Time(),
	}
}

// buildListingFilter translates a domain filter into a mongo query. Absent
// keys impose no constraint; both price bounds are applied verbatim, so an
// inverted range produces a query that matches nothing.
func buildListingFilter(filter entity.Filter) bson.M {
	query := bson.M{}
	if filter.Governorate != "" {
		query["governorate"] = filter.Governorate
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Gender != "" {
		query["preferences.gender"] = string(filter.Gender)
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price_per_person"] = price
	}
	return query
}

func (r *ListingMongoRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(listingCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ListingMongoRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc listingDocument
	err = r.db.Collection(listingCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id from mongo: %w", err)
	}
	return toListingEntity(&doc), nil
}

func (r *ListingMongoRepository) Update(ctx context.Context, listing *entity.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("listing ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"title":             doc.Title,
			"description":       doc.Description,
			"governorate":       doc.Governorate,
			"city":              doc.City,
			"address":           doc.Address,
			"university":        doc.University,
			"current_occupants": doc.CurrentOccupants,
			"total_capacity":    doc.TotalCapacity,
			"price_per_person":  doc.PricePerPerson,
			"preferences":       doc.Preferences,
			"photos":            doc.Photos,
			"status":            doc.Status,
			"updated_at":        doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(listingCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(listingCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) List(ctx context.Context, filter entity.Filter, page, pageSize int) ([]*entity.Listing, error) {
	findOptions := options.Find()
	findOptions.SetSkip(int64((page - 1) * pageSize))
	findOptions.SetLimit(int64(pageSize))
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(listingCollectionName).Find(ctx, buildListingFilter(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings from mongo: %w", err)
	}

	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}
	return listings, nil
}

func (r *ListingMongoRepository) Count(ctx context.Context, filter entity.Filter) (int64, error) {
	total, err := r.db.Collection(listingCollectionName).CountDocuments(ctx, buildListingFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count listings in mongo: %w", err)
	}
	return total, nil
}

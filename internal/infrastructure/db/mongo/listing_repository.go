package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

const collectionListings = "listings"

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection(collectionListings)}
}

type listingDoc struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	HostID       string              `bson:"host_id"`
	Title        string              `bson:"title"`
	Description  string              `bson:"description"`
	NightlyPrice float64             `bson:"nightly_price"`
	Address      domain.Address      `bson:"address"`
	Images       []string            `bson:"images"`
	Amenities    []domain.Amenity    `bson:"amenities"`
	PropertyType domain.PropertyType `bson:"property_type"`
	RoomType     domain.RoomType     `bson:"room_type"`
	MaxGuests    int                 `bson:"max_guests"`
	Bedrooms     int                 `bson:"bedrooms"`
	Bathrooms    int                 `bson:"bathrooms"`
	Availability domain.Availability `bson:"availability"`
	HouseRules   string              `bson:"house_rules,omitempty"`
	Rating       domain.Rating       `bson:"rating"`
	Active       bool                `bson:"active"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func fromListing(l *domain.Listing) listingDoc {
	return listingDoc{
		HostID:       l.HostID,
		Title:        l.Title,
		Description:  l.Description,
		NightlyPrice: l.NightlyPrice,
		Address:      l.Address,
		Images:       l.Images,
		Amenities:    l.Amenities,
		PropertyType: l.PropertyType,
		RoomType:     l.RoomType,
		MaxGuests:    l.MaxGuests,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Availability: l.Availability,
		HouseRules:   l.HouseRules,
		Rating:       l.Rating,
		Active:       l.Active,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (d *listingDoc) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:           d.ID.Hex(),
		HostID:       d.HostID,
		Title:        d.Title,
		Description:  d.Description,
		NightlyPrice: d.NightlyPrice,
		Address:      d.Address,
		Images:       d.Images,
		Amenities:    d.Amenities,
		PropertyType: d.PropertyType,
		RoomType:     d.RoomType,
		MaxGuests:    d.MaxGuests,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Availability: d.Availability,
		HouseRules:   d.HouseRules,
		Rating:       d.Rating,
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, fromListing(l))
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}

	created := *l
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc listingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) ListByHost(ctx context.Context, hostID string) ([]*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"host_id": hostID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list listings by host: %w", err)
	}
	defer cur.Close(ctx)

	return decodeListings(ctx, cur)
}

// Search returns a page of active listings matching filter plus the total count.
func (r *ListingRepository) Search(ctx context.Context, filter ports.SearchListingsFilter) ([]*domain.Listing, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"active": true}
	if filter.City != "" {
		query["address.city"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.City),
			Options: "i",
		}}
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["nightly_price"] = price
	}
	if filter.Guests > 0 {
		query["max_guests"] = bson.M{"$gte": filter.Guests}
	}
	if filter.PropertyType != "" {
		query["property_type"] = filter.PropertyType
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}
	defer cur.Close(ctx)

	items, err := decodeListings(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update merges the supplied fields. New images are appended to the
// existing sequence, never replacing it.
func (r *ListingRepository) Update(ctx context.Context, id string, update ports.ListingUpdate, updatedAt time.Time) (*domain.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	set := bson.M{"updated_at": updatedAt}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.NightlyPrice != nil {
		set["nightly_price"] = *update.NightlyPrice
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Amenities != nil {
		set["amenities"] = update.Amenities
	}
	if update.PropertyType != nil {
		set["property_type"] = *update.PropertyType
	}
	if update.RoomType != nil {
		set["room_type"] = *update.RoomType
	}
	if update.MaxGuests != nil {
		set["max_guests"] = *update.MaxGuests
	}
	if update.Bedrooms != nil {
		set["bedrooms"] = *update.Bedrooms
	}
	if update.Bathrooms != nil {
		set["bathrooms"] = *update.Bathrooms
	}
	if update.Availability != nil {
		set["availability"] = *update.Availability
	}
	if update.HouseRules != nil {
		set["house_rules"] = *update.HouseRules
	}
	if update.Active != nil {
		set["active"] = *update.Active
	}

	mutation := bson.M{"$set": set}
	if len(update.Images) > 0 {
		mutation["$push"] = bson.M{"images": bson.M{"$each": update.Images}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, mutation, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete deactivates the listing instead of removing the document, so
// bookings referencing it keep resolving.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// ApplyReviewRating folds one rating into the aggregate in a single
// aggregation-pipeline update. Both expressions evaluate against the
// pre-update document, so average and count move together and concurrent
// reviews cannot lose updates.
func (r *ListingRepository) ApplyReviewRating(ctx context.Context, listingID string, rating int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return domain.ErrInvalidID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating.average": bson.M{"$divide": bson.A{
				bson.M{"$add": bson.A{
					bson.M{"$multiply": bson.A{"$rating.average", "$rating.count"}},
					rating,
				}},
				bson.M{"$add": bson.A{"$rating.count", 1}},
			}},
			"rating.count": bson.M{"$add": bson.A{"$rating.count", 1}},
		}}},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, pipeline)
	if err != nil {
		return fmt.Errorf("apply review rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing search and host lookups.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "host_id", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "address.city", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "nightly_price", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "property_type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeListings(ctx context.Context, cur *mongo.Cursor) ([]*domain.Listing, error) {
	items := make([]*domain.Listing, 0)
	for cur.Next(ctx) {
		var doc listingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return items, nil
}

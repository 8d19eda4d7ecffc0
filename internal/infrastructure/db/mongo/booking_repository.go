package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhive/marketplace-api/internal/core/domain"
	"github.com/stayhive/marketplace-api/internal/core/ports"
)

const (
	collectionBookings     = "bookings"
	collectionBookingLocks = "booking_locks"

	// lockTTL bounds how long a crashed request can hold a listing lock.
	lockTTL = 30 * time.Second

	lockAttempts = 3
	lockBackoff  = 50 * time.Millisecond
)

type BookingRepository struct {
	col   *mongo.Collection
	locks *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		col:   db.Collection(collectionBookings),
		locks: db.Collection(collectionBookingLocks),
	}
}

type bookingDoc struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty"`
	ListingID          string               `bson:"listing_id"`
	GuestID            string               `bson:"guest_id"`
	CheckIn            time.Time            `bson:"check_in"`
	CheckOut           time.Time            `bson:"check_out"`
	Guests             domain.GuestCount    `bson:"guests"`
	TotalAmount        float64              `bson:"total_amount"`
	Status             domain.BookingStatus `bson:"status"`
	PaymentStatus      domain.PaymentStatus `bson:"payment_status"`
	SpecialRequests    string               `bson:"special_requests,omitempty"`
	CancellationReason string               `bson:"cancellation_reason,omitempty"`
	Review             *domain.Review       `bson:"review,omitempty"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at"`
}

func fromBooking(b *domain.Booking) bookingDoc {
	return bookingDoc{
		ListingID:          b.ListingID,
		GuestID:            b.GuestID,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Guests:             b.Guests,
		TotalAmount:        b.TotalAmount,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
		Review:             b.Review,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (d *bookingDoc) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:                 d.ID.Hex(),
		ListingID:          d.ListingID,
		GuestID:            d.GuestID,
		CheckIn:            d.CheckIn,
		CheckOut:           d.CheckOut,
		Guests:             d.Guests,
		TotalAmount:        d.TotalAmount,
		Status:             d.Status,
		PaymentStatus:      d.PaymentStatus,
		SpecialRequests:    d.SpecialRequests,
		CancellationReason: d.CancellationReason,
		Review:             d.Review,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// CreateIfAvailable inserts the booking unless a pending or confirmed
// booking on the same listing overlaps its [check_in, check_out) interval.
// A per-listing advisory lock (unique _id insert into booking_locks) makes
// the overlap check and the insert a single atomic operation: two
// concurrent creations for the same listing serialize on the lock.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := r.acquireLock(ctx, b.ListingID); err != nil {
		return nil, err
	}
	defer r.releaseLock(b.ListingID)

	// Half-open overlap: existing.check_in < new.check_out AND
	// existing.check_out > new.check_in.
	overlap := bson.M{
		"listing_id": b.ListingID,
		"status":     bson.M{"$in": bson.A{domain.BookingPending, domain.BookingConfirmed}},
		"check_in":   bson.M{"$lt": b.CheckOut},
		"check_out":  bson.M{"$gt": b.CheckIn},
	}
	n, err := r.col.CountDocuments(ctx, overlap)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if n > 0 {
		return nil, domain.ErrDatesUnavailable
	}

	res, err := r.col.InsertOne(ctx, fromBooking(b))
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	created := *b
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

type lockDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *BookingRepository) acquireLock(ctx context.Context, listingID string) error {
	var err error
	for attempt := 0; attempt < lockAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockBackoff):
			}
		}
		_, err = r.locks.InsertOne(ctx, lockDoc{ID: listingID, CreatedAt: time.Now().UTC()})
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("acquire listing lock: %w", err)
		}
	}
	return fmt.Errorf("acquire listing lock: listing %s is busy: %w", listingID, err)
}

func (r *BookingRepository) releaseLock(listingID string) {
	// Release on a fresh context so a cancelled request still frees the
	// lock; the TTL index is the backstop.
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_, _ = r.locks.DeleteOne(ctx, bson.M{"_id": listingID})
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns bookings matching filter, newest-created first.
func (r *BookingRepository) List(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.GuestID != "" {
		query["guest_id"] = filter.GuestID
	}
	if len(filter.ListingIDs) > 0 {
		query["listing_id"] = bson.M{"$in": filter.ListingIDs}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return items, nil
}

// UpdateStatus transitions the booking in a single conditional write. The
// filter pins the expected current status, so a concurrent mutation makes
// the write a no-op rather than a lost update.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w (expected %s)", domain.ErrInvalidTransition, from)
	}
	return nil
}

// Cancel conditionally sets the status to cancelled; the filter only
// matches pending or confirmed bookings.
func (r *BookingRepository) Cancel(ctx context.Context, id, reason string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":    oid,
			"status": bson.M{"$in": bson.A{domain.BookingPending, domain.BookingConfirmed}},
		},
		bson.M{"$set": bson.M{
			"status":              domain.BookingCancelled,
			"cancellation_reason": reason,
			"updated_at":          updatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.explainCancelMiss(ctx, oid)
	}
	return nil
}

// explainCancelMiss distinguishes why a conditional cancel matched nothing.
func (r *BookingRepository) explainCancelMiss(ctx context.Context, oid primitive.ObjectID) error {
	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	if doc.Status == domain.BookingCancelled {
		return domain.ErrAlreadyCancelled
	}
	return domain.ErrCannotCancel
}

// SetReview attaches the one-time review, conditional on the booking being
// completed and not yet reviewed.
func (r *BookingRepository) SetReview(ctx context.Context, id string, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":    oid,
			"status": domain.BookingCompleted,
			"review": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"review": review, "updated_at": review.CreatedAt}},
	)
	if err != nil {
		return fmt.Errorf("set review: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.explainReviewMiss(ctx, oid)
	}
	return nil
}

func (r *BookingRepository) explainReviewMiss(ctx context.Context, oid primitive.ObjectID) error {
	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("set review: %w", err)
	}
	if doc.Review != nil {
		return domain.ErrAlreadyReviewed
	}
	return domain.ErrReviewNotAllowed
}

// EnsureIndexes creates the indexes backing the overlap check, the list
// endpoints, and the TTL backstop on advisory locks.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}, {Key: "check_in", Value: 1}}},
		{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return err
	}

	_, err := r.locks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(lockTTL.Seconds())),
	})
	return err
}

package domain

import (
	"errors"
	"time"
)

// PropertyType classifies the kind of property a listing offers.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCabin     PropertyType = "cabin"
	PropertyVilla     PropertyType = "villa"
	PropertyStudio    PropertyType = "studio"
)

// RoomType classifies how much of the property a guest gets.
type RoomType string

const (
	RoomEntirePlace RoomType = "entire_place"
	RoomPrivateRoom RoomType = "private_room"
	RoomSharedRoom  RoomType = "shared_room"
)

// Amenity is a tag from the fixed amenity enumeration.
type Amenity string

const (
	AmenityWifi            Amenity = "wifi"
	AmenityKitchen         Amenity = "kitchen"
	AmenityWasher          Amenity = "washer"
	AmenityAirConditioning Amenity = "air_conditioning"
	AmenityHeating         Amenity = "heating"
	AmenityParking         Amenity = "parking"
	AmenityPool            Amenity = "pool"
	AmenityTV              Amenity = "tv"
	AmenityWorkspace       Amenity = "workspace"
	AmenityPetFriendly     Amenity = "pet_friendly"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyApartment: {},
	PropertyHouse:     {},
	PropertyCabin:     {},
	PropertyVilla:     {},
	PropertyStudio:    {},
}

var roomTypes = map[RoomType]struct{}{
	RoomEntirePlace: {},
	RoomPrivateRoom: {},
	RoomSharedRoom:  {},
}

var amenities = map[Amenity]struct{}{
	AmenityWifi:            {},
	AmenityKitchen:         {},
	AmenityWasher:          {},
	AmenityAirConditioning: {},
	AmenityHeating:         {},
	AmenityParking:         {},
	AmenityPool:            {},
	AmenityTV:              {},
	AmenityWorkspace:       {},
	AmenityPetFriendly:     {},
}

// ValidPropertyType reports whether t belongs to the property type enumeration.
func ValidPropertyType(t PropertyType) bool {
	_, ok := propertyTypes[t]
	return ok
}

// ValidRoomType reports whether t belongs to the room type enumeration.
func ValidRoomType(t RoomType) bool {
	_, ok := roomTypes[t]
	return ok
}

// ValidAmenity reports whether a belongs to the amenity enumeration.
func ValidAmenity(a Amenity) bool {
	_, ok := amenities[a]
	return ok
}

var ErrListingNotFound = errors.New("listing not found")
var ErrListingNotAvailable = errors.New("listing not available")
var ErrInvalidID = errors.New("invalid identifier")
var ErrForbidden = errors.New("access forbidden")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Address represents the physical location of a listing.
type Address struct {
	Line        string      `json:"line" bson:"line"`
	City        string      `json:"city" bson:"city"`
	Country     string      `json:"country" bson:"country"`
	ZipCode     string      `json:"zip_code" bson:"zip_code"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// Availability is the window in which a listing accepts bookings, plus
// explicit blocked dates inside that window.
type Availability struct {
	StartDate    time.Time   `json:"start_date" bson:"start_date"`
	EndDate      time.Time   `json:"end_date" bson:"end_date"`
	BlockedDates []time.Time `json:"blocked_dates,omitempty" bson:"blocked_dates,omitempty"`
}

// Allows reports whether the stay [checkIn, checkOut) falls inside the
// window and avoids every blocked date. A zero StartDate or EndDate leaves
// that bound open.
func (a Availability) Allows(checkIn, checkOut time.Time) bool {
	if !a.StartDate.IsZero() && checkIn.Before(a.StartDate) {
		return false
	}
	if !a.EndDate.IsZero() && checkOut.After(a.EndDate) {
		return false
	}
	for _, d := range a.BlockedDates {
		if !d.Before(checkIn) && d.Before(checkOut) {
			return false
		}
	}
	return true
}

// Rating is the running aggregate over submitted reviews.
// Mutated only by the booking engine, as a single conditional update.
type Rating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

// Listing is a property published by a host.
type Listing struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	HostID       string       `json:"host_id" bson:"host_id"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	NightlyPrice float64      `json:"nightly_price" bson:"nightly_price"`
	Address      Address      `json:"address" bson:"address"`
	Images       []string     `json:"images" bson:"images"`
	Amenities    []Amenity    `json:"amenities" bson:"amenities"`
	PropertyType PropertyType `json:"property_type" bson:"property_type"`
	RoomType     RoomType     `json:"room_type" bson:"room_type"`
	MaxGuests    int          `json:"max_guests" bson:"max_guests"`
	Bedrooms     int          `json:"bedrooms" bson:"bedrooms"`
	Bathrooms    int          `json:"bathrooms" bson:"bathrooms"`
	Availability Availability `json:"availability" bson:"availability"`
	HouseRules   string       `json:"house_rules,omitempty" bson:"house_rules,omitempty"`
	Rating       Rating       `json:"rating" bson:"rating"`
	Active       bool         `json:"active" bson:"active"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopStatus is a shop's onboarding state. A shop is created pending;
// approved and rejected are reachable only from pending. A rejected shop
// re-enters pending when its owner resubmits it.
type ShopStatus string

const (
	ShopPending  ShopStatus = "pending"
	ShopApproved ShopStatus = "approved"
	ShopRejected ShopStatus = "rejected"
)

// Valid reports whether s is a known shop status.
func (s ShopStatus) Valid() bool {
	switch s {
	case ShopPending, ShopApproved, ShopRejected:
		return true
	}
	return false
}

// Decided reports whether s is an admin decision value.
func (s ShopStatus) Decided() bool {
	return s == ShopApproved || s == ShopRejected
}

// GeoPoint is a GeoJSON point, longitude first.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Shop represents a shop owned by exactly one account. ProductCount is a
// denormalized display value maintained on product create/delete; it carries
// no invariant.
type Shop struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID         primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Status          ShopStatus         `bson:"status" json:"status"`
	RejectionReason string             `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	ProductCount    int                `bson:"product_count" json:"product_count"`
	Location        *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

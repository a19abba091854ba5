package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is an account's capability level. It is advanced automatically only by
// shop approval (pending_shopkeeper -> shopkeeper); any other change is an
// explicit admin action.
type Role string

const (
	RoleCustomer          Role = "customer"
	RolePendingShopkeeper Role = "pending_shopkeeper"
	RoleShopkeeper        Role = "shopkeeper"
	RoleAdmin             Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RolePendingShopkeeper, RoleShopkeeper, RoleAdmin:
		return true
	}
	return false
}

// Address represents a user's address for delivery
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipcode" json:"zipcode"`
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}

// User represents an account in the system. A shop owner holds at most one
// shop reference.
type User struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string              `bson:"name" json:"name"`
	Email    string              `bson:"email" json:"email"`
	Password string              `bson:"password,omitempty" json:"-"`
	Address  Address             `bson:"address" json:"address"`
	Role     Role                `bson:"role" json:"role"`
	ShopID   *primitive.ObjectID `bson:"shop_id,omitempty" json:"shop_id,omitempty"`
}

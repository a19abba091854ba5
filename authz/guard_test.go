package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/models"
)

func TestCheckOrder(t *testing.T) {
	customerID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()
	shopID := primitive.NewObjectID()
	otherShopID := primitive.NewObjectID()

	order := &models.Order{
		CustomerID: customerID,
		Shops: []models.ShopSummary{
			{ShopID: shopID, ShopName: "Corner Bakery", Subtotal: 80},
		},
	}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		allowed bool
	}{
		{"admin any action", Actor{ID: strangerID, Role: models.RoleAdmin}, ActionUpdateStatus, true},
		{"owner reads own order", Actor{ID: customerID, Role: models.RoleCustomer}, ActionRead, true},
		{"owner cancels own order", Actor{ID: customerID, Role: models.RoleCustomer}, ActionCancel, true},
		{"owner cannot set status", Actor{ID: customerID, Role: models.RoleCustomer}, ActionUpdateStatus, false},
		{"stranger cannot read", Actor{ID: strangerID, Role: models.RoleCustomer}, ActionRead, false},
		{"stranger cannot cancel", Actor{ID: strangerID, Role: models.RoleCustomer}, ActionCancel, false},
		{"shopkeeper of involved shop reads", Actor{ID: strangerID, Role: models.RoleShopkeeper, ShopID: &shopID}, ActionRead, true},
		{"shopkeeper of involved shop sets status", Actor{ID: strangerID, Role: models.RoleShopkeeper, ShopID: &shopID}, ActionUpdateStatus, true},
		{"shopkeeper of involved shop cancels", Actor{ID: strangerID, Role: models.RoleShopkeeper, ShopID: &shopID}, ActionCancel, true},
		{"shopkeeper of unrelated shop denied", Actor{ID: strangerID, Role: models.RoleShopkeeper, ShopID: &otherShopID}, ActionUpdateStatus, false},
		{"shopkeeper without shop denied", Actor{ID: strangerID, Role: models.RoleShopkeeper}, ActionRead, false},
		{"pending shopkeeper treated as stranger", Actor{ID: strangerID, Role: models.RolePendingShopkeeper}, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CheckOrder(tt.actor, order, tt.action)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestCheckOrderShopkeeperNoShopReason(t *testing.T) {
	order := &models.Order{CustomerID: primitive.NewObjectID()}
	d := CheckOrder(Actor{ID: primitive.NewObjectID(), Role: models.RoleShopkeeper}, order, ActionUpdateStatus)
	assert.False(t, d.Allowed)
	assert.Equal(t, "no shop", d.Reason)
}

func TestCheckShopDecision(t *testing.T) {
	shopID := primitive.NewObjectID()

	assert.True(t, CheckShopDecision(Actor{Role: models.RoleAdmin}).Allowed)
	// Owning the shop does not help: decisions are admin-only.
	assert.False(t, CheckShopDecision(Actor{Role: models.RoleShopkeeper, ShopID: &shopID}).Allowed)
	assert.False(t, CheckShopDecision(Actor{Role: models.RolePendingShopkeeper, ShopID: &shopID}).Allowed)
	assert.False(t, CheckShopDecision(Actor{Role: models.RoleCustomer}).Allowed)
}

func TestCheckShopOrders(t *testing.T) {
	shopID := primitive.NewObjectID()
	otherShopID := primitive.NewObjectID()

	assert.True(t, CheckShopOrders(Actor{Role: models.RoleAdmin}, shopID).Allowed)
	assert.True(t, CheckShopOrders(Actor{Role: models.RoleShopkeeper, ShopID: &shopID}, shopID).Allowed)
	assert.False(t, CheckShopOrders(Actor{Role: models.RoleShopkeeper, ShopID: &otherShopID}, shopID).Allowed)
	assert.False(t, CheckShopOrders(Actor{Role: models.RoleShopkeeper}, shopID).Allowed)
	assert.False(t, CheckShopOrders(Actor{Role: models.RoleCustomer}, shopID).Allowed)
}

func TestCheckProduct(t *testing.T) {
	shopID := primitive.NewObjectID()
	otherShopID := primitive.NewObjectID()
	product := &models.Product{ShopID: shopID, Name: "Sourdough Loaf"}

	assert.True(t, CheckProduct(Actor{Role: models.RoleAdmin}, product).Allowed)
	assert.True(t, CheckProduct(Actor{Role: models.RoleShopkeeper, ShopID: &shopID}, product).Allowed)
	// Owner of a still-pending shop may manage its products.
	assert.True(t, CheckProduct(Actor{Role: models.RolePendingShopkeeper, ShopID: &shopID}, product).Allowed)
	assert.False(t, CheckProduct(Actor{Role: models.RoleShopkeeper, ShopID: &otherShopID}, product).Allowed)
	assert.False(t, CheckProduct(Actor{Role: models.RoleShopkeeper}, product).Allowed)
	assert.False(t, CheckProduct(Actor{Role: models.RoleCustomer}, product).Allowed)
}

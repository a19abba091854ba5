package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"localmart/authz"
	"localmart/cart"
	"localmart/models"
)

var testPricing = Pricing{TaxRate: 0.075, DeliveryPerShop: 5}

func cartWith(lines ...models.CartLine) models.Cart {
	return cart.Recompute(lines)
}

func cartLine(shopID primitive.ObjectID, shopName string, price float64, qty int) models.CartLine {
	return models.CartLine{
		ProductID: primitive.NewObjectID(),
		ShopID:    shopID,
		ShopName:  shopName,
		Name:      "product",
		UnitPrice: price,
		Quantity:  qty,
	}
}

func validInput(customerID primitive.ObjectID, c models.Cart) CreateOrderInput {
	return CreateOrderInput{
		CustomerID:      customerID,
		Cart:            c,
		DeliveryAddress: models.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"},
		PaymentMethod:   "card",
		OrderType:       models.OrderTypeRegular,
	}
}

func TestCreateEmptyCartFails(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)

	_, err := orders.Create(context.Background(), validInput(primitive.NewObjectID(), cartWith()))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateMissingAddressFails(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)
	in := validInput(primitive.NewObjectID(), cartWith(cartLine(primitive.NewObjectID(), "S1", 10, 1)))
	in.DeliveryAddress = models.Address{}

	_, err := orders.Create(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreatePreOrderWithoutDateFails(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)
	in := validInput(primitive.NewObjectID(), cartWith(cartLine(primitive.NewObjectID(), "S1", 10, 1)))
	in.OrderType = models.OrderTypePreOrder

	_, err := orders.Create(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "expected delivery date")
}

func TestCreatePreOrderWithDateSucceeds(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)
	in := validInput(primitive.NewObjectID(), cartWith(cartLine(primitive.NewObjectID(), "S1", 10, 1)))
	in.OrderType = models.OrderTypePreOrder
	date := time.Now().AddDate(0, 0, 14)
	in.ExpectedDeliveryDate = &date

	order, err := orders.Create(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, order.ExpectedDeliveryDate)
	assert.Equal(t, models.OrderTypePreOrder, order.OrderType)
}

func TestCreateMultiShopCheckout(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)
	customerID := primitive.NewObjectID()
	shop1 := primitive.NewObjectID()
	shop2 := primitive.NewObjectID()

	c := cartWith(
		cartLine(shop1, "S1", 40, 2),
		cartLine(shop2, "S2", 100, 1),
	)

	order, err := orders.Create(context.Background(), validInput(customerID, c))
	require.NoError(t, err)

	assert.False(t, order.ID.IsZero())
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.Equal(t, customerID, order.CustomerID)

	require.Len(t, order.Shops, 2)
	assert.Equal(t, shop1, order.Shops[0].ShopID)
	assert.Equal(t, 80.0, order.Shops[0].Subtotal)
	assert.Equal(t, shop2, order.Shops[1].ShopID)
	assert.Equal(t, 100.0, order.Shops[1].Subtotal)

	assert.Equal(t, 180.0, order.Subtotal)
	assert.Equal(t, 13.5, order.Tax)         // 7.5% of 180
	assert.Equal(t, 10.0, order.DeliveryFee) // two shop buckets
	assert.Equal(t, 203.5, order.Total)
}

func TestGetAuthorization(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	customerID := primitive.NewObjectID()
	id := orderStore.put(&models.Order{CustomerID: customerID, Status: models.OrderPending})

	_, err := orders.Get(context.Background(), id, authz.Actor{ID: customerID, Role: models.RoleCustomer})
	require.NoError(t, err)

	_, err = orders.Get(context.Background(), id, authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleCustomer})
	var uerr *UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestGetMissingOrder(t *testing.T) {
	orders := NewOrders(newMockOrderStore(), testPricing)

	_, err := orders.Get(context.Background(), primitive.NewObjectID(), authz.Actor{Role: models.RoleAdmin})

	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestSetStatusByInvolvedShopkeeper(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	shopID := primitive.NewObjectID()
	id := orderStore.put(&models.Order{
		CustomerID: primitive.NewObjectID(),
		Status:     models.OrderPending,
		Shops:      []models.ShopSummary{{ShopID: shopID}},
	})
	keeper := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleShopkeeper, ShopID: &shopID}

	order, err := orders.SetStatus(context.Background(), id, models.OrderShipped, keeper)

	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
}

func TestSetStatusByUnrelatedShopkeeperDenied(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	otherShop := primitive.NewObjectID()
	id := orderStore.put(&models.Order{
		CustomerID: primitive.NewObjectID(),
		Status:     models.OrderPending,
		Shops:      []models.ShopSummary{{ShopID: primitive.NewObjectID()}},
	})
	keeper := authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleShopkeeper, ShopID: &otherShop}

	_, err := orders.SetStatus(context.Background(), id, models.OrderShipped, keeper)

	var uerr *UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestSetStatusOnTerminalOrderFails(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)

	for _, status := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		id := orderStore.put(&models.Order{CustomerID: primitive.NewObjectID(), Status: status})

		_, err := orders.SetStatus(context.Background(), id, models.OrderProcessing, authz.Actor{Role: models.RoleAdmin})

		var terr *InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, string(status), terr.Current)
	}
}

func TestSetStatusToCancelledRejected(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	id := orderStore.put(&models.Order{CustomerID: primitive.NewObjectID(), Status: models.OrderPending})

	_, err := orders.SetStatus(context.Background(), id, models.OrderCancelled, authz.Actor{Role: models.RoleAdmin})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCancelFromPendingAndProcessing(t *testing.T) {
	for _, status := range []models.OrderStatus{models.OrderPending, models.OrderProcessing} {
		orderStore := newMockOrderStore()
		orders := NewOrders(orderStore, testPricing)
		customerID := primitive.NewObjectID()
		id := orderStore.put(&models.Order{CustomerID: customerID, Status: status})

		order, err := orders.Cancel(context.Background(), id, "changed my mind", authz.Actor{ID: customerID, Role: models.RoleCustomer})

		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, order.Status)
		assert.Equal(t, "Cancelled: changed my mind", order.Notes)
	}
}

func TestCancelFromTerminalStatesFails(t *testing.T) {
	for _, status := range []models.OrderStatus{models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		orderStore := newMockOrderStore()
		orders := NewOrders(orderStore, testPricing)
		customerID := primitive.NewObjectID()
		id := orderStore.put(&models.Order{CustomerID: customerID, Status: status})

		_, err := orders.Cancel(context.Background(), id, "too late", authz.Actor{ID: customerID, Role: models.RoleCustomer})

		var terr *InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, string(status), terr.Current)
	}
}

func TestCancelAppendsToExistingNotes(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	customerID := primitive.NewObjectID()
	id := orderStore.put(&models.Order{
		CustomerID: customerID,
		Status:     models.OrderProcessing,
		Notes:      "leave at the back door",
	})

	order, err := orders.Cancel(context.Background(), id, "shop closed", authz.Actor{ID: customerID, Role: models.RoleCustomer})

	require.NoError(t, err)
	assert.Equal(t, "leave at the back door\nCancelled: shop closed", order.Notes)
}

func TestCancelByOtherCustomerDenied(t *testing.T) {
	orderStore := newMockOrderStore()
	orders := NewOrders(orderStore, testPricing)
	id := orderStore.put(&models.Order{CustomerID: primitive.NewObjectID(), Status: models.OrderPending})

	_, err := orders.Cancel(context.Background(), id, "not mine", authz.Actor{ID: primitive.NewObjectID(), Role: models.RoleCustomer})

	var uerr *UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

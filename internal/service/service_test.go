package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/queue"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/store"
	"github.com/iliyamo/farm-market/internal/views"
)

var fixedNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, ev queue.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	kv         *store.MemoryKV
	users      *repository.UserRepo
	crops      *repository.CropRepo
	orders     *repository.OrderRepo
	messages   *repository.MessageRepo
	identity   *IdentityService
	listings   *ListingService
	orderSvc   *OrderService
	chat       *MessagingService
	moderation *ModerationService
	dashboards *DashboardService
	events     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemoryKV()
	f := &fixture{
		kv:       kv,
		users:    repository.NewUserRepo(kv),
		crops:    repository.NewCropRepo(kv),
		orders:   repository.NewOrderRepo(kv),
		messages: repository.NewMessageRepo(kv),
		events:   &recordingPublisher{},
	}
	session := store.NewDocument[model.User](kv, store.KeyCurrentUser)
	f.identity = NewIdentityService(f.users, session, StubCredentialCheck{}, AdminCredential{Email: "admin@agrimarket.local", Password: "letmein"}, bcrypt.MinCost)
	f.listings = NewListingService(f.crops)
	f.orderSvc = NewOrderService(f.orders, f.crops, f.events)
	f.chat = NewMessagingService(f.messages, f.users)
	f.moderation = NewModerationService(f.users, f.crops, f.orders)
	f.dashboards = NewDashboardService(f.users, f.crops, f.orders)

	var n int
	var mu sync.Mutex
	ids := func(prefix string) IDFunc {
		return func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("%s-%d", prefix, n)
		}
	}
	clock := func() time.Time { return fixedNow }
	f.identity.newID, f.identity.now = ids("u"), clock
	f.listings.newID, f.listings.now = ids("c"), clock
	f.orderSvc.newID, f.orderSvc.now = ids("o"), clock
	f.chat.newID, f.chat.now = ids("m"), clock
	return f
}

func (f *fixture) register(t *testing.T, name string, role model.Role) model.User {
	t.Helper()
	u, err := f.identity.Register(context.Background(), RegisterInput{
		Email: name + "@example.com", Name: name, Role: string(role), Password: "pw-" + name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (f *fixture) approvedListing(t *testing.T, owner model.User, qty, price float64) model.Crop {
	t.Helper()
	ctx := context.Background()
	c, err := f.listings.Create(ctx, ListingInput{Name: "Tomatoes", Category: "Vegetables", Quantity: qty, Price: price, Unit: "kg"}, owner.ID, owner.Name)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	c, found, err := f.moderation.SetListingApproval(ctx, c.ID, true)
	if err != nil || !found {
		t.Fatalf("approve: found=%v err=%v", found, err)
	}
	return c
}

func TestRegisterValidatesAndSetsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.identity.Register(ctx, RegisterInput{Email: "x@example.com", Role: "admin"})
	var ve *repository.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields[0] != "role" || ve.Fields[1] != "name" {
		t.Fatalf("unexpected fields %v", ve.Fields)
	}
	if users, _ := f.users.List(ctx); len(users) != 0 {
		t.Fatalf("rejected registration must not write, got %d users", len(users))
	}

	u, err := f.identity.Register(ctx, RegisterInput{Email: " Asha@Example.com ", Name: "Asha", Role: "Farmer", Password: "secret", Aadhaar: "1234-5678-9012"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID != "u-1" || u.Email != "asha@example.com" || u.Role != model.RoleFarmer || !u.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash == "" {
		t.Fatalf("password hash not stored")
	}

	cur, ok, err := f.identity.Current(ctx)
	if err != nil || !ok {
		t.Fatalf("session missing: ok=%v err=%v", ok, err)
	}
	if cur.ID != u.ID || cur.PasswordHash != "" || cur.Aadhaar != "" {
		t.Fatalf("session record %+v", cur)
	}
	if stored, _ := f.users.GetByID(ctx, u.ID); stored.Aadhaar != "1234-5678-9012" {
		t.Fatalf("aadhaar must stay on the account, got %q", stored.Aadhaar)
	}
}

// The default credential check does not look at the password. This pins
// the behavior so switching to bcrypt stays an explicit decision.
func TestLoginStubCheckIgnoresPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "ravi", model.RoleBuyer)

	got, err := f.identity.Login(ctx, "RAVI@example.com", "definitely-wrong", model.RoleBuyer)
	if err != nil || got.ID != u.ID {
		t.Fatalf("stub login: %+v %v", got, err)
	}
	if _, err := f.identity.Login(ctx, "ravi@example.com", "pw-ravi", model.RoleFarmer); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("role mismatch must fail, got %v", err)
	}
	if _, err := f.identity.Login(ctx, "nobody@example.com", "", model.RoleBuyer); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must fail, got %v", err)
	}
}

func TestLoginBcryptCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.identity.check = BcryptCredentialCheck{}
	f.register(t, "meena", model.RoleFarmer)

	if _, err := f.identity.Login(ctx, "meena@example.com", "wrong", model.RoleFarmer); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password accepted: %v", err)
	}
	if _, err := f.identity.Login(ctx, "meena@example.com", "pw-meena", model.RoleFarmer); err != nil {
		t.Fatalf("right password rejected: %v", err)
	}
}

func TestAdminLoginAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.identity.Login(ctx, "admin@agrimarket.local", "nope", model.RoleAdmin); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad admin password accepted: %v", err)
	}
	a, err := f.identity.Login(ctx, "Admin@AgriMarket.local", "letmein", model.RoleAdmin)
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if a.ID != AdminID || a.Name != AdminName || a.Role != model.RoleAdmin {
		t.Fatalf("unexpected admin %+v", a)
	}
	if users, _ := f.users.List(ctx); len(users) != 0 {
		t.Fatalf("admin must not be stored as a user")
	}

	if err := f.identity.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := f.identity.Current(ctx); ok {
		t.Fatalf("session survived logout")
	}
}

func TestAdminLoginNeedsConfiguredPassword(t *testing.T) {
	f := newFixture(t)
	f.identity.admin = AdminCredential{Email: "admin@agrimarket.local"}
	if _, err := f.identity.Login(context.Background(), "admin@agrimarket.local", "", model.RoleAdmin); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty admin password must never match: %v", err)
	}
}

func TestLogoutKeepsUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "asha", model.RoleFarmer)
	if err := f.identity.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if users, _ := f.users.List(ctx); len(users) != 1 {
		t.Fatalf("logout touched users: %d", len(users))
	}
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.listings.Create(ctx, ListingInput{Name: "Onion", Price: 10}, "f1", "Asha")
	var ve *repository.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields[0] != "category" || ve.Fields[1] != "quantity" {
		t.Fatalf("missing fields: %v", ve.Fields)
	}
	if crops, _ := f.crops.List(ctx); len(crops) != 0 {
		t.Fatalf("invalid listing was stored")
	}

	c, err := f.listings.Create(ctx, ListingInput{Name: "Onion", Category: "Vegetables", Quantity: 5, Price: 10}, "f1", "Asha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.IsApproved {
		t.Fatalf("new listing must start unapproved")
	}
	if c.Images == nil || c.DeliveryOptions == nil || c.FarmerName != "Asha" || !c.CreatedAt.Equal(fixedNow) {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestUpdateListingResetsApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	c := f.approvedListing(t, farmer, 100, 20)
	if !c.IsApproved {
		t.Fatalf("precondition: listing approved")
	}

	price := 25.0
	got, found, err := f.listings.Update(ctx, c.ID, ListingPatch{Price: &price})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	if got.IsApproved || got.Price != 25 || got.Name != "Tomatoes" || got.FarmerID != farmer.ID {
		t.Fatalf("unexpected listing after edit %+v", got)
	}

	if _, found, err := f.listings.Update(ctx, "missing", ListingPatch{Price: &price}); err != nil || found {
		t.Fatalf("unknown id must be a silent no-op: found=%v err=%v", found, err)
	}

	blank := ""
	if _, _, err := f.listings.Update(ctx, c.ID, ListingPatch{Name: &blank}); !repository.IsValidation(err) {
		t.Fatalf("blanking a required field must fail validation, got %v", err)
	}
	stored, _ := f.crops.GetByID(ctx, c.ID)
	if stored.Name != "Tomatoes" {
		t.Fatalf("failed edit was written: %+v", stored)
	}
}

func TestOwnedListingMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "asha", model.RoleFarmer)
	other := f.register(t, "ravi", model.RoleFarmer)
	c := f.approvedListing(t, owner, 10, 5)

	qty := 1.0
	if _, _, err := f.listings.UpdateOwned(ctx, other.ID, c.ID, ListingPatch{Quantity: &qty}); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.listings.DeleteOwned(ctx, other.ID, c.ID); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if removed, err := f.listings.DeleteOwned(ctx, owner.ID, c.ID); err != nil || !removed {
		t.Fatalf("owner delete: %v %v", removed, err)
	}
	if removed, err := f.listings.DeleteOwned(ctx, owner.ID, c.ID); err != nil || removed {
		t.Fatalf("second delete must be a no-op: %v %v", removed, err)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	buyer := f.register(t, "ravi", model.RoleBuyer)
	c := f.approvedListing(t, farmer, 100, 20)

	for _, qty := range []float64{0, -1, 100.5, 1000} {
		if _, err := f.orderSvc.Place(ctx, c.ID, buyer.ID, qty); !repository.IsValidation(err) {
			t.Fatalf("quantity %v: expected validation error, got %v", qty, err)
		}
	}
	if orders, _ := f.orders.List(ctx); len(orders) != 0 {
		t.Fatalf("rejected orders were written: %d", len(orders))
	}

	if _, err := f.orderSvc.Place(ctx, "nope", buyer.ID, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown crop: %v", err)
	}

	pending, _ := f.listings.Create(ctx, ListingInput{Name: "Rice", Category: "Grains", Quantity: 10, Price: 5}, farmer.ID, farmer.Name)
	if _, err := f.orderSvc.Place(ctx, pending.ID, buyer.ID, 1); !repository.IsValidation(err) {
		t.Fatalf("unapproved listing must not take orders, got %v", err)
	}
	if len(f.events.events) != 0 {
		t.Fatalf("no event expected, got %d", len(f.events.events))
	}
}

func TestPlaceOrderTotalIsExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)

	cases := []struct{ qty, price, want float64 }{
		{3, 250, 750},
		{3, 0.1, 0.3},
		{100, 20, 2000},
		{1.5, 19.99, 29.985},
	}
	for _, tc := range cases {
		c := f.approvedListing(t, farmer, 100, tc.price)
		o, err := f.orderSvc.Place(ctx, c.ID, "b1", tc.qty)
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if o.TotalPrice != tc.want {
			t.Fatalf("%v x %v: got %v want %v", tc.qty, tc.price, o.TotalPrice, tc.want)
		}
		if o.Status != model.OrderPending || o.PaymentStatus != model.PaymentPending || o.FarmerID != farmer.ID {
			t.Fatalf("unexpected order %+v", o)
		}
	}
	stock, _ := f.crops.List(ctx)
	for _, c := range stock {
		if c.Quantity != 100 {
			t.Fatalf("stock must not be decremented: %+v", c)
		}
	}
}

func TestDecideNeverLeavesTerminalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	c := f.approvedListing(t, farmer, 100, 20)
	o, _ := f.orderSvc.Place(ctx, c.ID, "b1", 1)

	got, changed, err := f.orderSvc.Decide(ctx, o.ID, model.ActionReject)
	if err != nil || !changed || got.Status != model.OrderRejected {
		t.Fatalf("reject: %+v changed=%v err=%v", got, changed, err)
	}
	got, changed, err = f.orderSvc.Decide(ctx, o.ID, model.ActionAccept)
	if err != nil || changed || got.Status != model.OrderRejected {
		t.Fatalf("rejected order moved: %+v changed=%v err=%v", got, changed, err)
	}
	got, changed, _ = f.orderSvc.Decide(ctx, o.ID, model.ActionReject)
	if changed || got.Status != model.OrderRejected {
		t.Fatalf("re-reject must be a no-op: %+v", got)
	}

	if _, changed, err := f.orderSvc.Decide(ctx, "missing", model.ActionAccept); err != nil || changed {
		t.Fatalf("unknown order: changed=%v err=%v", changed, err)
	}
	if _, _, err := f.orderSvc.Decide(ctx, o.ID, model.OrderAction("complete")); !repository.IsValidation(err) {
		t.Fatalf("unknown action: %v", err)
	}

	types := []string{}
	for _, ev := range f.events.events {
		types = append(types, ev.Type)
	}
	if len(types) != 2 || types[0] != queue.OrderPlaced || types[1] != queue.OrderStatusChanged {
		t.Fatalf("unexpected events %v", types)
	}
	if f.events.events[1].Status != string(model.OrderRejected) {
		t.Fatalf("status event carries %q", f.events.events[1].Status)
	}
}

func TestDecideOwnedForbidsOtherFarmers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	c := f.approvedListing(t, farmer, 100, 20)
	o, _ := f.orderSvc.Place(ctx, c.ID, "b1", 1)

	if _, _, err := f.orderSvc.DecideOwned(ctx, "someone-else", o.ID, model.ActionAccept); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	stored, _ := f.orders.GetByID(ctx, o.ID)
	if stored.Status != model.OrderPending {
		t.Fatalf("forbidden decision was written: %+v", stored)
	}
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.events.err = errors.New("broker down")
	farmer := f.register(t, "asha", model.RoleFarmer)
	c := f.approvedListing(t, farmer, 100, 20)
	if _, err := f.orderSvc.Place(ctx, c.ID, "b1", 2); err != nil {
		t.Fatalf("place must succeed without the broker: %v", err)
	}
	if orders, _ := f.orders.List(ctx); len(orders) != 1 {
		t.Fatalf("order not stored")
	}
}

func TestMessaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	buyer := f.register(t, "ravi", model.RoleBuyer)

	if _, sent, err := f.chat.Send(ctx, buyer, farmer.ID, "   "); err != nil || sent {
		t.Fatalf("blank message: sent=%v err=%v", sent, err)
	}
	m1, sent, err := f.chat.Send(ctx, buyer, farmer.ID, "Are the tomatoes fresh?")
	if err != nil || !sent {
		t.Fatalf("send: %v", err)
	}
	m2, _, _ := f.chat.Send(ctx, farmer, buyer.ID, "  Picked this morning\n")
	if m1.ChatID != m2.ChatID {
		t.Fatalf("participants disagree on chat id: %q vs %q", m1.ChatID, m2.ChatID)
	}
	if m1.IsRead || m1.SenderName != "ravi" {
		t.Fatalf("unexpected message %+v", m1)
	}

	conv, err := f.chat.Conversation(ctx, model.ChatID(farmer.ID, buyer.ID))
	if err != nil || len(conv) != 2 || conv[0].ID != m1.ID || conv[1].ID != m2.ID {
		t.Fatalf("conversation: %+v %v", conv, err)
	}
	if conv[1].Content != "Picked this morning" {
		t.Fatalf("stored content not trimmed: %q", conv[1].Content)
	}

	inbox, err := f.chat.Conversations(ctx, farmer.ID)
	if err != nil || len(inbox) != 1 || inbox[0].OtherName != "ravi" || inbox[0].MessageCount != 2 {
		t.Fatalf("inbox: %+v %v", inbox, err)
	}
}

func TestMarketplaceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	farmer := f.register(t, "asha", model.RoleFarmer)
	c, err := f.listings.Create(ctx, ListingInput{Name: "Tomatoes", Category: "Vegetables", Quantity: 100, Price: 20, Unit: "kg"}, farmer.ID, farmer.Name)
	if err != nil || c.IsApproved {
		t.Fatalf("create: %+v %v", c, err)
	}

	catalog, _ := f.dashboards.Catalog(ctx, views.ListingFilter{})
	if len(catalog) != 0 {
		t.Fatalf("unapproved listing visible to buyers")
	}

	c, _, err = f.moderation.SetListingApproval(ctx, c.ID, true)
	if err != nil || !c.IsApproved {
		t.Fatalf("approve: %+v %v", c, err)
	}
	catalog, _ = f.dashboards.Catalog(ctx, views.ListingFilter{Search: "tomato"})
	if len(catalog) != 1 {
		t.Fatalf("approved listing missing from catalog")
	}

	buyer := f.register(t, "ravi", model.RoleBuyer)
	o, err := f.orderSvc.Place(ctx, c.ID, buyer.ID, 10)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.TotalPrice != 200 || o.Status != model.OrderPending {
		t.Fatalf("unexpected order %+v", o)
	}

	o, changed, err := f.orderSvc.DecideOwned(ctx, farmer.ID, o.ID, model.ActionAccept)
	if err != nil || !changed || o.Status != model.OrderAccepted {
		t.Fatalf("accept: %+v %v %v", o, changed, err)
	}

	stats, err := f.moderation.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.ApprovedCrops != 1 || stats.AcceptedOrders != 1 || stats.TotalRevenue != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	fd, err := f.dashboards.Farmer(ctx, farmer.ID)
	if err != nil || fd.Stats.InventoryValue != 2000 || len(fd.Orders) != 1 || fd.Orders[0].BuyerName != "ravi" {
		t.Fatalf("farmer dashboard: %+v %v", fd, err)
	}
	bd, err := f.dashboards.Buyer(ctx, buyer.ID)
	if err != nil || bd.Stats.TotalOrders != 1 || bd.Recent[0].CropName != "Tomatoes" {
		t.Fatalf("buyer dashboard: %+v %v", bd, err)
	}
}

func TestRemoveUserKeepsTheirRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	buyer := f.register(t, "ravi", model.RoleBuyer)
	c := f.approvedListing(t, farmer, 100, 20)
	if _, err := f.orderSvc.Place(ctx, c.ID, buyer.ID, 1); err != nil {
		t.Fatalf("place: %v", err)
	}

	removed, err := f.moderation.RemoveUser(ctx, farmer.ID)
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	if removed, _ := f.moderation.RemoveUser(ctx, farmer.ID); removed {
		t.Fatalf("second remove must be a no-op")
	}

	crops, _ := f.crops.List(ctx)
	orders, _ := f.orders.List(ctx)
	if len(crops) != 1 || len(orders) != 1 {
		t.Fatalf("records cascaded: crops=%d orders=%d", len(crops), len(orders))
	}
	details, err := f.moderation.Orders(ctx)
	if err != nil || len(details) != 1 {
		t.Fatalf("orders: %+v %v", details, err)
	}
	if details[0].FarmerName != views.UnknownUser || details[0].BuyerName != "ravi" {
		t.Fatalf("orphan not shown as placeholder: %+v", details[0])
	}
}

func TestModerationSearches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	farmer := f.register(t, "asha", model.RoleFarmer)
	f.register(t, "ravi", model.RoleBuyer)
	f.approvedListing(t, farmer, 1, 1)

	users, err := f.moderation.Users(ctx, "RAVI@")
	if err != nil || len(users) != 1 {
		t.Fatalf("user search: %+v %v", users, err)
	}
	listings, err := f.moderation.Listings(ctx, "asha")
	if err != nil || len(listings) != 1 {
		t.Fatalf("listing search: %+v %v", listings, err)
	}
	if _, found, err := f.moderation.SetListingApproval(ctx, "missing", true); found || err != nil {
		t.Fatalf("unknown listing approval: %v %v", found, err)
	}
}

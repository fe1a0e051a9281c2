package cart

import (
	"context"
	"testing"
	"time"

	"github.com/fastcm/shophub-be/internal/models"
)

func TestMemoryStoreLoadUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	c, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c.Items) != 0 {
		t.Errorf("expected an empty cart, got %d items", len(c.Items))
	}
}

func TestMemoryStoreSaveLoadDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := models.Cart{}
	c.AddItem(models.CartItem{ProductID: "p1", Name: "이어폰", Price: 89000, Quantity: 1})
	c.AddItem(models.CartItem{ProductID: "p2", Name: "의자", Price: 120000, Quantity: 2})

	if err := store.Save(ctx, "s1", c); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Total() != 89000+2*120000 {
		t.Errorf("unexpected total: %d", got.Total())
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Save did not stamp UpdatedAt")
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ = store.Load(ctx, "s1")
	if len(got.Items) != 0 {
		t.Errorf("cart survived Delete: %d items", len(got.Items))
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stale := models.Cart{}
	stale.AddItem(models.CartItem{ProductID: "p1", Quantity: 1})
	if err := store.Save(ctx, "stale", stale); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Backdate the stale cart, then add a fresh one.
	store.mu.Lock()
	c := store.carts["stale"]
	c.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
	store.carts["stale"] = c
	store.mu.Unlock()

	if err := store.Save(ctx, "fresh", models.Cart{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed := store.Sweep(time.Now().UTC().Add(-24 * time.Hour))
	if removed != 1 {
		t.Errorf("expected 1 swept cart, got %d", removed)
	}
	if _, ok := store.carts["fresh"]; !ok {
		t.Error("fresh cart was swept")
	}
}

func TestCartMergesQuantities(t *testing.T) {
	c := models.Cart{}
	c.AddItem(models.CartItem{ProductID: "p1", Price: 1000, Quantity: 1})
	c.AddItem(models.CartItem{ProductID: "p1", Price: 1000, Quantity: 2})

	if len(c.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", c.Items[0].Quantity)
	}

	// Zero and negative quantities fall back to one.
	c.AddItem(models.CartItem{ProductID: "p2", Price: 500, Quantity: 0})
	if c.Items[1].Quantity != 1 {
		t.Errorf("expected defaulted quantity 1, got %d", c.Items[1].Quantity)
	}

	c.RemoveItem("p1")
	if len(c.Items) != 1 || c.Items[0].ProductID != "p2" {
		t.Errorf("unexpected items after removal: %+v", c.Items)
	}

	// Removing an absent product is a no-op.
	c.RemoveItem("missing")
	if len(c.Items) != 1 {
		t.Errorf("no-op removal changed the cart: %+v", c.Items)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/schappie/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		ttl   time.Duration
	}{
		{
			name:  "store and retrieve string",
			key:   "test-key-1",
			value: "test-value",
			ttl:   1 * time.Minute,
		},
		{
			name: "store and retrieve product slice",
			key:  "test-key-2",
			value: []domain.Product{
				{Store: domain.StoreAH, ID: "1", Name: "Melk"},
			},
			ttl: 1 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			// Values keep their concrete type
			if products, ok := tt.value.([]domain.Product); ok {
				gotProducts, ok := got.([]domain.Product)
				if !ok {
					t.Fatalf("Get() returned %T, want []domain.Product", got)
				}
				if len(gotProducts) != len(products) || gotProducts[0].Name != products[0].Name {
					t.Errorf("Get() = %v, want %v", gotProducts, products)
				}
				return
			}
			if got != tt.value {
				t.Errorf("Get() = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "expiring", "value", 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := cache.Get(ctx, "expiring"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}

	exists, err := cache.Exists(ctx, "expiring")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true after expiry")
	}
}

func TestMemoryCache_GetMissing(t *testing.T) {
	cache := NewMemoryCache()

	if _, err := cache.Get(context.Background(), "never-set"); err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "to-delete", "value", 1*time.Minute)

	if err := cache.Delete(ctx, "to-delete"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "to-delete"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	cache.Set(ctx, "a", 1, time.Minute)
	cache.Set(ctx, "b", 2, time.Minute)

	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", cache.Size())
	}
}

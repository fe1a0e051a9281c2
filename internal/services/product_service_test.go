package services

import (
	"testing"

	"github.com/fastcm/shophub-be/internal/apperrors"
)

func TestProductCatalog(t *testing.T) {
	svc := NewProductService(newTestDB(t))

	created, err := svc.CreateProduct("무선 이어폰", 89000, "https://img.example/earbuds.jpg", "전자제품")
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created product has no id")
	}

	got, err := svc.GetProductByID(created.ID)
	if err != nil {
		t.Fatalf("GetProductByID failed: %v", err)
	}
	if got.Name != "무선 이어폰" || got.Price != 89000 {
		t.Errorf("unexpected product: %+v", got)
	}

	products, err := svc.GetProducts()
	if err != nil {
		t.Fatalf("GetProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("expected 1 product, got %d", len(products))
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc := NewProductService(newTestDB(t))

	_, err := svc.GetProductByID("no-such-product")
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.CodeOf(err))
	}
}

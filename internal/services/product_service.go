package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/models"
)

// ProductServiceProvider defines the interface for catalog services.
type ProductServiceProvider interface {
	GetProducts() ([]models.Product, error)
	GetProductByID(id string) (models.Product, error)
	CreateProduct(name string, price int64, image, category string) (models.Product, error)
}

// ProductService provides business logic for the storefront catalog.
type ProductService struct {
	db *sql.DB
}

// NewProductService creates a new ProductService.
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

// GetProducts retrieves the full catalog, newest first.
func (s *ProductService) GetProducts() ([]models.Product, error) {
	rows, err := s.db.Query("SELECT id, name, price, image, category, created_at FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// GetProductByID retrieves a single catalog entry.
func (s *ProductService) GetProductByID(id string) (models.Product, error) {
	row := s.db.QueryRow("SELECT id, name, price, image, category, created_at FROM products WHERE id = ?", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return models.Product{}, err
	}
	return product, nil
}

// CreateProduct adds a catalog entry.
func (s *ProductService) CreateProduct(name string, price int64, image, category string) (models.Product, error) {
	product := models.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Image:     image,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec("INSERT INTO products(id, name, price, image, category, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		product.ID, product.Name, product.Price, product.Image, product.Category, product.CreatedAt)
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func scanProduct(row interface{ Scan(...interface{}) error }) (models.Product, error) {
	var product models.Product
	var image, category sql.NullString
	if err := row.Scan(&product.ID, &product.Name, &product.Price, &image, &category, &product.CreatedAt); err != nil {
		return models.Product{}, err
	}
	product.Image = image.String
	product.Category = category.String
	return product, nil
}

package service

import (
	"context"

	"backoffice-service/internal/entity"
)

type ProductService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo ProductRepository, categoryRepo CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProduct stores a product under an existing category.
func (p *ProductService) CreateProduct(ctx context.Context, input entity.ProductInput) (*entity.Product, error) {
	product, err := validateProduct(input)
	if err != nil {
		return nil, err
	}

	category, err := p.categoryRepo.GetCategoryByID(ctx, input.CategoryID)
	if err != nil {
		logger.Warn().Err(err).Msgf("Category %d not resolved for new product", input.CategoryID)
		return nil, err
	}

	created, err := p.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	created.Category = category

	return created, nil
}

func (p *ProductService) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := p.productRepo.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return nil, err
	}
	return products, nil
}

func (p *ProductService) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	return p.productRepo.GetProductByID(ctx, id)
}

// FindByCategory lists the products of one category. An unknown category
// simply has no products.
func (p *ProductService) FindByCategory(ctx context.Context, categoryID int) ([]*entity.Product, error) {
	products, err := p.productRepo.GetProductsByCategory(ctx, categoryID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting products for category %d", categoryID)
		return nil, err
	}
	return products, nil
}

// UpdateProduct overwrites every field of the product, including its
// category, and returns the stored row.
func (p *ProductService) UpdateProduct(ctx context.Context, id int, input entity.ProductInput) (*entity.Product, error) {
	product, err := validateProduct(input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	if _, err := p.categoryRepo.GetCategoryByID(ctx, input.CategoryID); err != nil {
		logger.Warn().Err(err).Msgf("Category %d not resolved for product %d", input.CategoryID, id)
		return nil, err
	}

	if err := p.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, err
	}

	return p.productRepo.GetProductByID(ctx, id)
}

func (p *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := p.productRepo.DeleteProduct(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting product %d", id)
		return err
	}
	return nil
}

func validateProduct(input entity.ProductInput) (*entity.Product, error) {
	name, err := normalizeName("product", input.Name)
	if err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, entity.InvalidRequest("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, entity.InvalidRequest("stock must not be negative")
	}

	return &entity.Product{
		Name:       name,
		Price:      input.Price.Round(2),
		Stock:      input.Stock,
		CategoryID: input.CategoryID,
	}, nil
}

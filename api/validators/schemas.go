package validators

import product "github.com/angelmondragon/inventory-service/internal/products"

// CreateProductBody is the payload accepted by POST /api/products.
type CreateProductBody struct {
	Name              *string `json:"name" validate:"required,notblank"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity" validate:"omitempty,min=0,max=2147483647"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0,max=2147483647"`
}

func (b CreateProductBody) Input() product.CreateProductInput {
	in := product.CreateProductInput{
		Description:       b.Description,
		StockQuantity:     b.StockQuantity,
		LowStockThreshold: b.LowStockThreshold,
	}
	if b.Name != nil {
		in.Name = *b.Name
	}
	return in
}

// UpdateProductBody is the partial payload accepted by PUT /api/products/{id}.
type UpdateProductBody struct {
	Name              *string `json:"name" validate:"omitempty,notblank"`
	Description       *string `json:"description"`
	StockQuantity     *int    `json:"stock_quantity" validate:"omitempty,min=0,max=2147483647"`
	LowStockThreshold *int    `json:"low_stock_threshold" validate:"omitempty,min=0,max=2147483647"`
}

func (b UpdateProductBody) Update() product.ProductUpdate {
	return product.ProductUpdate{
		Name:              b.Name,
		Description:       b.Description,
		StockQuantity:     b.StockQuantity,
		LowStockThreshold: b.LowStockThreshold,
	}
}

// StockOperationBody is the payload of the increase and decrease endpoints.
type StockOperationBody struct {
	Quantity *int `json:"quantity" validate:"required,min=1,max=2147483647"`
}

func (b StockOperationBody) Amount() int {
	if b.Quantity == nil {
		return 0
	}
	return *b.Quantity
}

// ProductIDParams holds the {id} path parameter.
type ProductIDParams struct {
	ID string `json:"id" validate:"required,len=24"`
}

package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	mqcontracts "skincare-tracker/contracts/mq"
	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

type ProductService struct {
	products repository.Store[model.Product]
	events   Emitter
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductService(products repository.Store[model.Product], events Emitter, v *validator.Validate, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, events: events, validate: v, logger: logger}
}

// ProductPatch carries the fields of a partial update; nil means unchanged.
type ProductPatch struct {
	Name               *string    `json:"name"`
	Brand              *string    `json:"brand"`
	Category           *string    `json:"category"`
	PurchaseDate       *model.Day `json:"purchaseDate"`
	ExpiryDate         *model.Day `json:"expiryDate"`
	OpenedDate         *model.Day `json:"openedDate"`
	PeriodAfterOpening *int       `json:"periodAfterOpening"`
	Price              *float64   `json:"price"`
	Size               *string    `json:"size"`
	Ingredients        *string    `json:"ingredients"`
	Notes              *string    `json:"notes"`
	Rating             *int       `json:"rating"`
	ImageURL           *string    `json:"imageUrl"`
}

func (p ProductPatch) apply(dst *model.Product) {
	setIf(&dst.Name, p.Name)
	setIf(&dst.Brand, p.Brand)
	setIf(&dst.Category, p.Category)
	if p.PurchaseDate != nil {
		dst.PurchaseDate = p.PurchaseDate
	}
	if p.ExpiryDate != nil {
		dst.ExpiryDate = p.ExpiryDate
	}
	if p.OpenedDate != nil {
		dst.OpenedDate = p.OpenedDate
	}
	setIf(&dst.PeriodAfterOpening, p.PeriodAfterOpening)
	setIf(&dst.Price, p.Price)
	setIf(&dst.Size, p.Size)
	setIf(&dst.Ingredients, p.Ingredients)
	setIf(&dst.Notes, p.Notes)
	setIf(&dst.Rating, p.Rating)
	setIf(&dst.ImageURL, p.ImageURL)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// List returns userID's products, newest first.
func (s *ProductService) List(ctx context.Context, callerID, userID string) ([]*model.Product, error) {
	if err := Authorize(callerID, userID); err != nil {
		return nil, err
	}
	products, err := s.products.Find(ctx, repository.Filter{UserID: userID, SortBy: "createdAt", Desc: true})
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, callerID, id string) (*model.Product, error) {
	return loadOwned(ctx, s.products, "Product", id, callerID)
}

func (s *ProductService) Create(ctx context.Context, callerID string, p *model.Product) (*model.Product, error) {
	owner, err := claimOwner(callerID, p.UserID)
	if err != nil {
		return nil, err
	}
	p.Document = model.Document{UserID: owner}
	if err := validate(s.validate, p); err != nil {
		return nil, err
	}

	created, err := s.products.Insert(ctx, p)
	if err != nil {
		s.logger.Error("failed to insert product", zap.String("user_id", owner), zap.Error(err))
		return nil, storeErr(err, "Product")
	}

	s.events.Emit(ctx, mqcontracts.EventProductAdded, mqcontracts.ProductAddedPayload{
		UserID:    owner,
		ProductID: created.ID,
		Name:      created.Name,
		AddedAt:   created.CreatedAt,
	})
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, callerID, id string, patch ProductPatch) (*model.Product, error) {
	p, err := loadOwned(ctx, s.products, "Product", id, callerID)
	if err != nil {
		return nil, err
	}
	patch.apply(p)
	if err := validate(s.validate, p); err != nil {
		return nil, err
	}
	updated, err := s.products.Save(ctx, p)
	if err != nil {
		return nil, storeErr(err, "Product")
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, callerID, id string) error {
	p, err := loadOwned(ctx, s.products, "Product", id, callerID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, p); err != nil {
		return storeErr(err, "Product")
	}
	return nil
}

// byID indexes products for step expansion.
func byID(products []*model.Product) map[string]*model.Product {
	out := make(map[string]*model.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}


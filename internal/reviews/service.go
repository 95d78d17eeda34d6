package reviews

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/db"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db/models"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

// CreateInput carries a new review submission.
type CreateInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Title     string
	Body      string
}

// ProductReviews bundles a product's reviews with its rating aggregate.
type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	ReviewCount   int64           `json:"reviewCount"`
	AverageRating float64         `json:"averageRating"`
}

// Service manages product reviews and helpful votes.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*models.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID, limit int) (*ProductReviews, error)
	// ToggleHelpful flips the caller's helpful vote and reports whether
	// the vote is now present.
	ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, reviewID, userID uuid.UUID) error
}

type productStore interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	products productStore
	tx       txRunner
}

// NewService builds the reviews service.
func NewService(repo *Repository, products productStore, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*models.Review, error) {
	if in.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if in.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review body required")
	}

	product, err := s.products.FindProductByID(ctx, in.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	verified, err := s.repo.HasDeliveredOrderWithProduct(ctx, in.UserID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	body := strings.TrimSpace(in.Body)
	review := &models.Review{
		ID:                 uuid.New(),
		ProductID:          product.ID,
		UserID:             in.UserID,
		Rating:             in.Rating,
		Body:               &body,
		IsVerifiedPurchase: verified,
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		review.Title = &title
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID, limit int) (*ProductReviews, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	reviews, err := s.repo.ListForProduct(ctx, productID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	count, average, err := s.repo.RatingSummary(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ratings")
	}

	return &ProductReviews{
		Reviews:       reviews,
		ReviewCount:   count,
		AverageRating: average,
	}, nil
}

func (s *service) ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	if _, err := s.repo.FindByID(ctx, reviewID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}

	var voted bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		inserted, err := s.repo.InsertVote(ctx, tx, reviewID, userID)
		if err != nil {
			return err
		}
		if inserted {
			voted = true
			return s.repo.AdjustHelpfulCount(ctx, tx, reviewID, 1)
		}

		removed, err := s.repo.DeleteVote(ctx, tx, reviewID, userID)
		if err != nil {
			return err
		}
		if removed {
			return s.repo.AdjustHelpfulCount(ctx, tx, reviewID, -1)
		}
		return nil
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle helpful vote")
	}
	return voted, nil
}

func (s *service) Delete(ctx context.Context, reviewID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	removed, err := s.repo.DeleteOwned(ctx, reviewID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return nil
}

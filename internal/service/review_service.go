package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	mqcontracts "skincare-tracker/contracts/mq"
	"skincare-tracker/internal/model"
	"skincare-tracker/internal/repository"
)

// ReviewService manages product reviews. Reviews are readable by anyone;
// only their author may delete them.
type ReviewService struct {
	reviews  repository.Store[model.Review]
	events   Emitter
	validate *validator.Validate
	logger   *zap.Logger
}

func NewReviewService(reviews repository.Store[model.Review], events Emitter, v *validator.Validate, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, events: events, validate: v, logger: logger}
}

type ReviewInput struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
}

// List returns reviews newest first, optionally limited to one product and
// to those whose title or comment contains query (case-insensitive).
func (s *ReviewService) List(ctx context.Context, productID, query string) ([]*model.Review, error) {
	f := repository.Filter{SortBy: "createdAt", Desc: true}
	if productID != "" {
		f.Match = map[string]any{"productId": productID}
	}
	reviews, err := s.reviews.Find(ctx, f)
	if err != nil {
		return nil, storeErr(err, "Review")
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return reviews, nil
	}
	out := reviews[:0]
	for _, r := range reviews {
		if strings.Contains(strings.ToLower(r.Title), query) || strings.Contains(strings.ToLower(r.Comment), query) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *ReviewService) Create(ctx context.Context, callerID string, in ReviewInput) (*model.Review, error) {
	owner, err := claimOwner(callerID, in.UserID)
	if err != nil {
		return nil, err
	}
	r := &model.Review{
		Document:  model.Document{UserID: owner},
		ProductID: in.ProductID,
		Username:  in.Username,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	}
	if r.Username == "" {
		r.Username = owner
	}
	if err := validate(s.validate, r); err != nil {
		return nil, err
	}

	created, err := s.reviews.Insert(ctx, r)
	if err != nil {
		s.logger.Error("failed to insert review", zap.String("user_id", owner), zap.Error(err))
		return nil, storeErr(err, "Review")
	}

	s.events.Emit(ctx, mqcontracts.EventReviewPosted, mqcontracts.ReviewPostedPayload{
		UserID:    owner,
		ReviewID:  created.ID,
		ProductID: created.ProductID,
		Rating:    created.Rating,
		Title:     created.Title,
		PostedAt:  created.CreatedAt,
	})
	return created, nil
}

// MarkHelpful adds one to a review's helpful count. Any caller may do so,
// any number of times.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) (*model.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Review")
	}
	r.HelpfulCount++
	updated, err := s.reviews.Save(ctx, r)
	if err != nil {
		return nil, storeErr(err, "Review")
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, callerID, id string) error {
	r, err := loadOwned(ctx, s.reviews, "Review", id, callerID)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, r); err != nil {
		return storeErr(err, "Review")
	}
	return nil
}

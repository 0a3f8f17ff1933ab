package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cocktailgram/backend/internal/models"
	"github.com/cocktailgram/backend/internal/types"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollowing = errors.New("already subscribed to this author")
	ErrNotFollowing     = errors.New("not subscribed to this author")
)

// UserService handles user lookups and the subscription graph.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns a page of users ordered by username, with the total count.
func (s *UserService) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Order("username").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

// IsSubscribed reports whether userID follows authorID. Anonymous callers
// pass nil and always get false.
func (s *UserService) IsSubscribed(ctx context.Context, userID *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if userID == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", *userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Subscribe makes userID follow authorID. The unique pair constraint backs
// the duplicate check.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	author, err := s.Get(ctx, authorID)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	return author, nil
}

// Unsubscribe removes the follow edge; removing an absent edge is a client
// error, not a no-op.
func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if _, err := s.Get(ctx, authorID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Subscriptions returns a page of authors the user follows, each rendered
// with recipe count and an optionally truncated recipe list. recipesLimit 0
// means no truncation.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page, limit, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := base.
		Order("subscriptions.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	results := make([]types.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		entry, err := s.SubscriptionEntry(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, *entry)
	}
	return results, count, nil
}

// SubscriptionEntry renders one author in the subscription read shape. The
// caller is by definition subscribed to every author listed here.
func (s *UserService) SubscriptionEntry(ctx context.Context, author *models.User, recipesLimit int) (*types.SubscriptionResponse, error) {
	var recipesCount int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&recipesCount).Error
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		q = q.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}

	short := make([]types.ShortRecipeResponse, len(recipes))
	for i := range recipes {
		short[i] = types.NewShortRecipeResponse(&recipes[i])
	}

	return &types.SubscriptionResponse{
		UserResponse: types.NewUserResponse(author, true),
		RecipesCount: recipesCount,
		Recipes:      short,
	}, nil
}

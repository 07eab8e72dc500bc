package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type FollowRepo struct {
	db *gorm.DB
}

func NewFollowRepo(db *gorm.DB) *FollowRepo {
	return &FollowRepo{db}
}

// Exists reports whether user already follows author
func (r *FollowRepo) Exists(userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new follow row
func (r *FollowRepo) Add(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

// Delete removes the follow row and reports how many rows matched
func (r *FollowRepo) Delete(userID, authorID uuid.UUID) (int64, error) {
	res := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}

// FindAuthors returns a page of the authors the user follows, ordered by username
func (r *FollowRepo) FindAuthors(userID uuid.UUID, limit, offset int) ([]*models.User, error) {
	var authors []*models.User
	q := r.db.Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&authors).Error
	return authors, err
}

// CountAuthors returns how many authors the user follows
func (r *FollowRepo) CountAuthors(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// AuthorIDsFor returns which of the given author ids the user follows.
// Used to annotate profile listings without one query per row.
func (r *FollowRepo) AuthorIDsFor(userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return followed, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

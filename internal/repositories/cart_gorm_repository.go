package repositories

import (
	"fmt"
	"time"

	"fleuria/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves all cart rows for a user.
func (r *GORMCartRepository) GetByUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return items, nil
}

// Upsert inserts the cart row or increments the stored quantity atomically.
// The increment runs in the database so concurrent tabs cannot lose updates
// to a read-then-write race.
func (r *GORMCartRepository) Upsert(item *models.CartItem) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to upsert cart item (%s, %s): %w", item.UserID, item.ProductID, err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart row.
func (r *GORMCartRepository) UpdateQuantity(userID, productID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart quantity (%s, %s): %w", userID, productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item (%s, %s) not found for quantity update", userID, productID)
	}
	return nil
}

// Delete removes one cart row. Deleting an absent row is not an error.
func (r *GORMCartRepository) Delete(userID, productID string) error {
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart item (%s, %s): %w", userID, productID, err)
	}
	return nil
}

// DeleteAll removes every cart row for a user.
func (r *GORMCartRepository) DeleteAll(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

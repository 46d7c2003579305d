package services

import (
	"errors"
	"fmt"

	"deen-quest-system/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ShopService sells cosmetic items. A purchase is debit + inventory grant +
// purchase record in one transaction: either all three happen or none.
type ShopService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewShopService(db *gorm.DB, ledger *LedgerService) *ShopService {
	return &ShopService{DB: db, Ledger: ledger}
}

func (s *ShopService) GetAllItems() ([]models.Item, error) {
	var items []models.Item
	err := s.DB.Order("rarity DESC, price_coins ASC").Find(&items).Error
	return items, translateDBErr(err)
}

func (s *ShopService) GetItemByID(itemID string) (*models.Item, error) {
	var item models.Item
	if err := s.DB.Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return &item, nil
}

func (s *ShopService) CreateItem(item *models.Item) (*models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Name == "" || item.PriceCoins < 0 {
		return nil, fmt.Errorf("%w: item needs a name and a non-negative price", ErrInvalidState)
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return item, nil
}

// BuyItem grants one item to one user. Ownership uniqueness comes from the
// (user, item) index; affordability from the ledger's guarded debit. On any
// failure nothing is granted, debited or recorded.
func (s *ShopService) BuyItem(userID, itemID string) (*models.UserItem, error) {
	item, err := s.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, translateDBErr(err)
	}
	if item.PriceXp > 0 && user.Xp < item.PriceXp {
		return nil, ErrInsufficientXP
	}

	userItem := &models.UserItem{
		ID:     uuid.NewString(),
		UserID: userID,
		ItemID: itemID,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userItem).Error; err != nil {
			if errors.Is(translateDBErr(err), ErrConflict) {
				return fmt.Errorf("%w: item already owned", ErrConflict)
			}
			return translateDBErr(err)
		}
		if err := s.Ledger.DebitTx(tx, userID, item.PriceCoins, nil); err != nil {
			return err
		}
		purchase := &models.Purchase{
			ID:         uuid.NewString(),
			UserID:     userID,
			ItemID:     itemID,
			PriceCoins: item.PriceCoins,
			Status:     models.PurchaseSuccess,
		}
		return translateDBErr(tx.Create(purchase).Error)
	})
	if err != nil {
		return nil, err
	}

	userItem.Item = item
	log.Infof("🛍️ Item purchased: user=%s item=%s (-%dc)", userID, item.Name, item.PriceCoins)
	return userItem, nil
}

// EquipItem equips one inventory entry and unequips everything else of the
// same item type.
func (s *ShopService) EquipItem(userID, userItemID string) (*models.UserItem, error) {
	var userItem models.UserItem
	if err := s.DB.Preload("Item").Where("id = ?", userItemID).First(&userItem).Error; err != nil {
		return nil, translateDBErr(err)
	}
	if userItem.UserID != userID {
		return nil, fmt.Errorf("%w: item does not belong to you", ErrForbidden)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserItem{}).
			Where("user_id = ? AND item_id IN (?)", userID,
				tx.Model(&models.Item{}).Select("id").Where("type = ?", userItem.Item.Type)).
			Update("equipped", false).Error; err != nil {
			return translateDBErr(err)
		}
		return translateDBErr(tx.Model(&models.UserItem{}).
			Where("id = ?", userItemID).
			Update("equipped", true).Error)
	})
	if err != nil {
		return nil, err
	}
	userItem.Equipped = true
	return &userItem, nil
}

func (s *ShopService) UnequipItem(userID, userItemID string) (*models.UserItem, error) {
	var userItem models.UserItem
	if err := s.DB.Preload("Item").Where("id = ?", userItemID).First(&userItem).Error; err != nil {
		return nil, translateDBErr(err)
	}
	if userItem.UserID != userID {
		return nil, fmt.Errorf("%w: item does not belong to you", ErrForbidden)
	}
	if err := s.DB.Model(&models.UserItem{}).
		Where("id = ?", userItemID).
		Update("equipped", false).Error; err != nil {
		return nil, translateDBErr(err)
	}
	userItem.Equipped = false
	return &userItem, nil
}

func (s *ShopService) GetInventory(userID string) ([]models.UserItem, error) {
	var inventory []models.UserItem
	err := s.DB.Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&inventory).Error
	return inventory, translateDBErr(err)
}

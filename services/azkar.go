package services

import (
	"fmt"

	"deen-quest-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// AzkarService manages the azkar catalog (admin-curated templates).
type AzkarService struct {
	DB *gorm.DB
}

func NewAzkarService(db *gorm.DB) *AzkarService {
	return &AzkarService{DB: db}
}

func (s *AzkarService) CreateGroup(group *models.AzkarGroup) (*models.AzkarGroup, error) {
	if group.Name == "" || group.NameAr == "" {
		return nil, fmt.Errorf("%w: group needs name and name_ar", ErrInvalidState)
	}
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	group.NameAr = norm.NFC.String(group.NameAr)
	if err := s.DB.Create(group).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return group, nil
}

// CreateAzkar normalizes the Arabic fields to NFC so dedup and search behave
// regardless of how the client composed the text.
func (s *AzkarService) CreateAzkar(azkar *models.Azkar) (*models.Azkar, error) {
	var group models.AzkarGroup
	if err := s.DB.Where("id = ?", azkar.GroupID).First(&group).Error; err != nil {
		return nil, translateDBErr(err)
	}
	if azkar.Title == "" || azkar.ArabicText == "" {
		return nil, fmt.Errorf("%w: azkar needs title and arabic_text", ErrInvalidState)
	}
	if azkar.ID == "" {
		azkar.ID = uuid.NewString()
	}
	if azkar.TargetCount < 1 {
		azkar.TargetCount = 1
	}
	azkar.TitleAr = norm.NFC.String(azkar.TitleAr)
	azkar.ArabicText = norm.NFC.String(azkar.ArabicText)
	if err := s.DB.Create(azkar).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return azkar, nil
}

func (s *AzkarService) GetGroups() ([]models.AzkarGroup, error) {
	var groups []models.AzkarGroup
	err := s.DB.Preload("Azkar", func(db *gorm.DB) *gorm.DB {
		return db.Order("azkars.\"order\" ASC")
	}).Order("\"order\" ASC").Find(&groups).Error
	return groups, translateDBErr(err)
}

func (s *AzkarService) GetAzkarByID(azkarID string) (*models.Azkar, error) {
	var azkar models.Azkar
	if err := s.DB.Where("id = ?", azkarID).First(&azkar).Error; err != nil {
		return nil, translateDBErr(err)
	}
	return &azkar, nil
}

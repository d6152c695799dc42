package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/badrinagarjun/marketpulse/internal/logger"
	"github.com/badrinagarjun/marketpulse/internal/models"
	"github.com/badrinagarjun/marketpulse/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var testUsers = []struct {
	Name        string
	Email       string
	AccountType string
}{
	{"Test Trader 1", "trader1@test.com", "100K"},
	{"Test Trader 2", "trader2@test.com", "50K"},
	{"Test Trader 3", "trader3@test.com", "10K"},
}

func Run() {
	db := store.DB

	var count int64
	if err := db.Model(&models.User{}).
		Where("email IN ?", []string{"trader1@test.com", "trader2@test.com", "trader3@test.com"}).
		Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= 3 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, u := range testUsers {
			user := models.User{Name: u.Name, Email: u.Email, Password: hashed}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			starting := models.AccountTypes[u.AccountType]
			account := models.ChallengeAccount{
				UserID:          uint64(user.ID),
				AccountName:     "My Challenge Account",
				AccountType:     u.AccountType,
				StartingBalance: starting,
				CurrentBalance:  starting,
				Status:          models.AccountActive,
			}
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded 3 test traders", zap.String("password", seedPassword))
}

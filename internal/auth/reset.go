package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// IssueResetToken creates a single-use password reset token for the user.
// The token string is opaque to callers; it only has meaning to
// ConsumeResetToken.
func IssueResetToken(db *gorm.DB, user models.User) (string, error) {
	reset := models.PasswordReset{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	if err := db.Create(&reset).Error; err != nil {
		return "", err
	}

	return reset.Token, nil
}

// ConsumeResetToken validates a reset token and marks it used. Unknown,
// expired and already-used tokens all fail the same way.
func ConsumeResetToken(db *gorm.DB, token string) (models.User, error) {
	var reset models.PasswordReset

	if err := db.Where("token = ?", token).First(&reset).Error; err != nil {
		return models.User{}, types.ErrInvalidOrExpiredToken
	}

	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return models.User{}, types.ErrInvalidOrExpiredToken
	}

	var user models.User

	if err := db.First(&user, reset.UserID).Error; err != nil {
		return models.User{}, types.ErrInvalidOrExpiredToken
	}

	now := time.Now()

	if err := db.Model(&reset).Update("used_at", &now).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

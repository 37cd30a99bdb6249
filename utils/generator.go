package utils

import (
	"math/rand"
	"strings"
	"time"

	"github.com/akramjonkamolov673/cyberarena/models"
	"gorm.io/gorm"
)

const suffixLength = 4
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateUniqueUsername derives a free username from an OAuth login or
// email local part, appending a random suffix on collision.
func GenerateUniqueUsername(tx *gorm.DB, base string) (string, error) {
	base = strings.ToLower(strings.TrimSpace(base))
	if at := strings.Index(base, "@"); at > 0 {
		base = base[:at]
	}
	if base == "" {
		base = "user"
	}

	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	candidate := base
	for {
		var user models.User
		err := tx.Where("username = ?", candidate).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return candidate, nil
			}
			return "", err
		}

		b := make([]byte, suffixLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		candidate = base + "_" + string(b)
	}
}

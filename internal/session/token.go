package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenParser — парсер JWT без валидации подписи.
// Подпись проверяет бэкенд; панели claims нужны только для
// диагностики срока жизни токена.
var tokenParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// TokenExpiry возвращает время истечения access-токена из claim exp.
// Подпись не проверяется.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("разбор access-токена: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access-токен без claim exp")
	}
	return exp.Time, nil
}

// TokenExpired сообщает, истёк ли access-токен (с буфером 30 секунд).
// Токен без читаемого claim exp не считается истёкшим:
// его валидность решает бэкенд.
func TokenExpired(token string) bool {
	expiry, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return time.Now().After(expiry.Add(-30 * time.Second))
}

// TokenSubject возвращает claim sub access-токена (для логов и аудита).
func TokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return ""
	}
	subject, _ := claims.GetSubject()
	return subject
}

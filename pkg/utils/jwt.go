package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func CreateJWTToken(userID string, userName string, externalID string, role string, jwtSecretKey string) (string, error) {
	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["userID"] = userID
	claims["name"] = userName
	claims["externalID"] = externalID
	claims["role"] = role
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecretKey))
}

func ExtractTokenUser(c echo.Context) (userID string, name string, externalID string, role string) {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || !user.Valid {
		return "", "", "", ""
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", ""
	}

	userID, _ = claims["userID"].(string)
	name, _ = claims["name"].(string)
	externalID, _ = claims["externalID"].(string)
	role, _ = claims["role"].(string)
	return userID, name, externalID, role
}

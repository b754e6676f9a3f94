package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DeviceClaim authenticates a registered POS terminal on the WebSocket
// endpoint without a dashboard session.
type DeviceClaim struct {
	BusinessId string `json:"business_id"`
	BranchId   int    `json:"branch_id"`
	DeviceName string `json:"device_name"`
	// UserId is the operator account the device acts as; sales recorded
	// through the device are attributed to it.
	UserId int `json:"user_id"`
	jwt.StandardClaims
}

var jwtSecret = []byte(getJwtSecret())

func getJwtSecret() string {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return "BMS-Secret"
	}
	return secret
}

func JwtGenerateDevice(businessId string, branchId int, deviceName string, userId int) (string, error) {
	tokenLifespan, err := strconv.Atoi(os.Getenv("DEVICE_TOKEN_HOUR_LIFESPAN"))
	if err != nil {
		tokenLifespan = 24 * 30
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &DeviceClaim{
		BusinessId: businessId,
		BranchId:   branchId,
		DeviceName: deviceName,
		UserId:     userId,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(tokenLifespan)).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	token, err := t.SignedString(jwtSecret)
	if err != nil {
		return "", err
	}

	return token, nil
}

func JwtValidateDevice(token string) (*DeviceClaim, error) {
	parsed, err := jwt.ParseWithClaims(token, &DeviceClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid device token")
	}
	claim, ok := parsed.Claims.(*DeviceClaim)
	if !ok {
		return nil, fmt.Errorf("invalid device claim")
	}
	return claim, nil
}

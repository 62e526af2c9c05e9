package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const jwtIssuer = "ebnfc"

// HashPassword bcrypt-hashes an operator password for storage in a Config.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// checkPassword reports whether password matches the stored bcrypt hash.
func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// signKey derives the JWT signing key from the server secret and the current
// password hash, so every password change invalidates outstanding tokens.
func signKey(secret, passwordHash []byte) []byte {
	key := make([]byte, 0, len(secret)+len(passwordHash))
	key = append(key, secret...)
	key = append(key, passwordHash...)
	return key
}

func generateToken(secret, passwordHash []byte) (string, error) {
	claims := jwt.MapClaims{
		"iss": jwtIssuer,
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(signKey(secret, passwordHash))
}

func validateToken(tokStr string, secret, passwordHash []byte) error {
	_, err := jwt.Parse(tokStr, func(t *jwt.Token) (interface{}, error) {
		return signKey(secret, passwordHash), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(jwtIssuer), jwt.WithLeeway(time.Minute))
	return err
}

func bearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(strings.TrimSpace(parts[0])) != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return strings.TrimSpace(parts[1]), nil
}

package receipt

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

var (
	nowFunc = time.Now // mockable

	ErrInvalidToken = errors.New("invalid receipt link")
	ErrTokenExpired = errors.New("receipt link expired")
)

// linkClaims carry a receipt snapshot so it can be reopened without storing it.
type linkClaims struct {
	jwt.StandardClaims
	Receipt Receipt `json:"rcp"`
}

// Sign turns r into a link token valid for ttl. The school identity is not included.
func Sign(r Receipt, key []byte, ttl time.Duration) (string, error) {
	now := nowFunc()
	claims := linkClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   r.Number,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Receipt: r,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing receipt link")
	}
	return ss, nil
}

// Verify returns the receipt carried by token, issued by school.
func Verify(token string, key []byte, school School) (Receipt, error) {
	claims := new(linkClaims)
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return key, nil })
	if err != nil {
		return Receipt{}, ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(nowFunc().Unix(), true) {
		return Receipt{}, ErrTokenExpired
	}
	r := claims.Receipt
	r.School = school
	return r, nil
}

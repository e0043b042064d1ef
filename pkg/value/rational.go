package value

import (
	"errors"
	"math/big"
)

// ErrDivisionByZero is returned by Quo and Mod for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Rational is an exact arbitrary-precision fraction. It is always kept in
// lowest terms with a positive denominator and is never mutated after
// construction; arithmetic returns new values.
type Rational struct {
	r *big.Rat
}

// NewInt returns the rational n/1.
func NewInt(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// NewRat returns the rational a/b in lowest terms. It panics if b is zero.
func NewRat(a, b int64) Rational {
	return Rational{r: big.NewRat(a, b)}
}

// FromBig copies r into a Rational.
func FromBig(r *big.Rat) Rational {
	return Rational{r: new(big.Rat).Set(r)}
}

// ParseInteger parses an unsigned run of ASCII digits. Anything else,
// including signs, is rejected.
func ParseInteger(s string) (Rational, bool) {
	if !IsDigits(s) {
		return Rational{}, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Rational{}, false
	}
	return Rational{r: new(big.Rat).SetInt(n)}, true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Big returns a copy of the underlying big.Rat.
func (x Rational) Big() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

// Num returns a copy of the numerator.
func (x Rational) Num() *big.Int {
	return new(big.Int).Set(x.rat().Num())
}

// Denom returns a copy of the (always positive) denominator.
func (x Rational) Denom() *big.Int {
	return new(big.Int).Set(x.rat().Denom())
}

// IsInt reports whether the denominator is 1.
func (x Rational) IsInt() bool {
	return x.rat().IsInt()
}

// Sign returns -1, 0 or +1.
func (x Rational) Sign() int {
	return x.rat().Sign()
}

// Cmp compares x and y.
func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

// Add returns x+y.
func (x Rational) Add(y Rational) Rational {
	return Rational{r: new(big.Rat).Add(x.rat(), y.rat())}
}

// Sub returns x-y.
func (x Rational) Sub(y Rational) Rational {
	return Rational{r: new(big.Rat).Sub(x.rat(), y.rat())}
}

// Mul returns x*y.
func (x Rational) Mul(y Rational) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), y.rat())}
}

// Quo returns x/y.
func (x Rational) Quo(y Rational) (Rational, error) {
	if y.Sign() == 0 {
		return Rational{}, ErrDivisionByZero
	}
	return Rational{r: new(big.Rat).Quo(x.rat(), y.rat())}, nil
}

// Mod returns the floored remainder x - y*floor(x/y). The result has the
// sign of y.
func (x Rational) Mod(y Rational) (Rational, error) {
	q, err := x.Quo(y)
	if err != nil {
		return Rational{}, err
	}
	// Euclidean division by a positive denominator is floor division.
	floor := new(big.Int).Div(q.rat().Num(), q.rat().Denom())
	return x.Sub(y.Mul(Rational{r: new(big.Rat).SetInt(floor)})), nil
}

// String renders integers as "6" and fractions as "1/3".
func (x Rational) String() string {
	return x.rat().RatString()
}

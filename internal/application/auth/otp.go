package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
	"time"

	"github.com/samber/oops"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

var otpRange = big.NewInt(900000)

// generateOTP returns a uniformly random six digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func otpEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// OTPIssuer stores a fresh code for an email, replacing any earlier one, and mails it.
type OTPIssuer struct {
	cache      ports.Cache
	dispatcher *Dispatcher
	ttl        time.Duration
}

func NewOTPIssuer(cache ports.Cache, dispatcher *Dispatcher, ttl time.Duration) *OTPIssuer {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPIssuer{cache: cache, dispatcher: dispatcher, ttl: ttl}
}

func (o *OTPIssuer) Issue(ctx context.Context, email string) error {
	code, err := generateOTP()
	if err != nil {
		return oops.Code("OTP_GENERATE_FAILED").With("operation", "generate otp").Wrap(err)
	}
	if err := o.cache.Set(ctx, otpKey(email), code, o.ttl); err != nil {
		return oops.Code("OTP_STORE_FAILED").With("operation", "store otp").Wrap(err)
	}
	o.dispatcher.OTP(ctx, email, code)
	return nil
}

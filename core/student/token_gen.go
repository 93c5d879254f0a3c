package student

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	salt    = []byte("sdc.backend.core.student.token_gen")
	nowFunc = time.Now // mockable

	// package defaults, overridden by ConfigureTokenGen
	secretKey        = []byte("secret")
	passTokenTimeout = 15 * time.Minute

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// ConfigureTokenGen sets the signing key and lifetime used for pass-tokens.
func ConfigureTokenGen(key []byte, timeout time.Duration) {
	secretKey = key
	passTokenTimeout = timeout
}

// generateToken returns a random hex token for confirmation / reset emails.
func generateToken() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	return hex.EncodeToString(b)
}

// encodeUID base64 encodes the given Student ID.
func encodeUID(s Student) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s.ID))
}

// decodeUID base64 decodes the given UID.
func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// makePassToken generates a short-lived pass-token for a given Student.
// The signature covers the password hash and the stored reset token, so
// consuming either invalidates all outstanding pass-tokens.
func makePassToken(s Student) string {
	return makePassTokenWithTimestamp(s, numMinutesSince2001(nowFunc()))
}

// verifyPassToken checks that a pass-token for a given Student is valid.
func verifyPassToken(s Student, token string) error {
	if token == "" {
		return errInvalidToken
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}
	tsB32 := parts[0]

	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(tsB32)
	if err != nil {
		return errInvalidToken
	}
	ts, err := strconv.Atoi(string(data))
	if err != nil {
		return errInvalidToken
	}

	// check that token has not been tampered with
	newToken := makePassTokenWithTimestamp(s, ts)
	if subtle.ConstantTimeCompare([]byte(newToken), []byte(token)) == 0 {
		return errInvalidToken
	}

	// check that the timestamp is within limit
	if (numMinutesSince2001(time.Now()) - ts) > int(passTokenTimeout/time.Minute) {
		return errTokenExpired
	}
	return nil
}

func makePassTokenWithTimestamp(s Student, ts int) string {
	tsB32 := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(strconv.Itoa(ts)))
	return fmt.Sprintf("%s-%s", tsB32, sign(hashValue(s, ts)))
}

func numMinutesSince2001(t time.Time) int {
	ref := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(t.Sub(ref).Minutes()))
}

func sign(val []byte) string {
	key := sha256.Sum256(append(salt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	h.Write(val)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func hashValue(s Student, ts int) []byte {
	var val bytes.Buffer
	val.WriteString(s.ID)
	val.Write(s.PasswordHash)
	val.WriteString(s.ResetPasswordToken)
	val.WriteString(strconv.Itoa(ts))
	return val.Bytes()
}

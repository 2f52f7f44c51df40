package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "admin", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tok, err := GenerateToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other"), tok)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	tok, err := GenerateToken(testSecret, "admin", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken(nil, "admin", time.Hour)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"Bearer a b", "", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := BearerToken(r)
		if tc.ok {
			require.NoError(t, err, tc.header)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Error(t, err, tc.header)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, ComparePasswords(hash, []byte("s3cret")))
	assert.False(t, ComparePasswords(hash, []byte("S3cret")))
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.Error(t, DecodeStrict(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeStrict(r, &v))
	assert.Equal(t, "x", v.Name)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	logger.WithField("k", "v").Debug("hello")
	assert.Contains(t, buf.String(), `"k":"v"`)

	logger = newLogger(&buf, "nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

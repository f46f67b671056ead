package media

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engmarket/internal/models"
)

func TestPublicResolver(t *testing.T) {
	r := PublicResolver{BaseURL: "https://cdn.example.com/"}
	cases := map[string]string{
		"/services/solar-1.jpg":            "https://cdn.example.com/services/solar-1.jpg",
		"avatars/a.jpg":                    "https://cdn.example.com/avatars/a.jpg",
		"https://images.example.org/x.png": "https://images.example.org/x.png",
		"":                                 "",
	}
	for in, want := range cases {
		got, err := r.Resolve(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	got, err := PublicResolver{}.Resolve("/services/solar-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/services/solar-1.jpg", got)
}

func TestS3ResolverPresigns(t *testing.T) {
	r, err := NewS3Resolver(S3Config{
		Bucket:    "catalog",
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
		Expiry:    time.Minute,
	})
	require.NoError(t, err)

	signed, err := r.Resolve("/services/solar-1.jpg")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/catalog/services/solar-1.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))

	abs, err := r.Resolve("https://images.example.org/x.png")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.org/x.png", abs)
}

func TestNewS3ResolverNeedsBucket(t *testing.T) {
	_, err := NewS3Resolver(S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestResolveService(t *testing.T) {
	s := models.Service{
		Images:   []string{"/services/a.jpg"},
		Provider: models.Provider{Avatar: "/avatars/p.jpg"},
	}
	require.NoError(t, ResolveService(PublicResolver{BaseURL: "https://cdn.example.com"}, &s))
	assert.Equal(t, []string{"https://cdn.example.com/services/a.jpg"}, s.Images)
	assert.Equal(t, "https://cdn.example.com/avatars/p.jpg", s.Provider.Avatar)

	require.NoError(t, ResolveService(nil, &s))
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiraja/internal/config"
)

func TestDataURLStore(t *testing.T) {
	url, err := DataURLStore{}.Save(context.Background(), ImageUpload{ContentType: "image/jpeg", Data: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,YWJj", url)

	url, err = DataURLStore{}.Save(context.Background(), ImageUpload{Data: []byte("abc")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:application/octet-stream;base64,"))
}

func TestNewCloudinaryStore_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryStore(config.CloudinaryConfig{CloudName: "demo"})
	assert.Error(t, err)
}

func TestCloudinaryStore_Save(t *testing.T) {
	var gotPath, gotFolder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseMultipartForm(1 << 20)
		gotFolder = r.FormValue("folder")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"feiraja/products/x","secure_url":"https://res.cloudinary.com/demo/image/upload/x.png"}`))
	}))
	defer srv.Close()

	store, err := NewCloudinaryStore(config.CloudinaryConfig{
		CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "feiraja/products",
	})
	require.NoError(t, err)
	store.cld.Config.API.UploadPrefix = srv.URL

	url, err := store.Save(context.Background(), ImageUpload{Filename: "x.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/x.png", url)
	assert.Contains(t, gotPath, "/demo/image/upload")
	assert.Equal(t, "feiraja/products", gotFolder)
}

func TestCloudinaryStore_SaveReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))
	defer srv.Close()

	store, err := NewCloudinaryStore(config.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	store.cld.Config.API.UploadPrefix = srv.URL

	_, err = store.Save(context.Background(), ImageUpload{Data: []byte("not an image")})
	assert.Error(t, err)
}

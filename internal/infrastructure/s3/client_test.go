package s3infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		UsePathStyle: true,
	})
	return NewStore(client, "intake-files", "https://s3.us-east-1.amazonaws.com/")
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "https://s3.eu-west-1.amazonaws.com", BaseURL(&config.Config{AWSRegion: "eu-west-1"}))
	assert.Equal(t, "http://localhost:4566", BaseURL(&config.Config{AWSRegion: "us-east-1", AWSEndpointURL: "http://localhost:4566"}))
}

func TestSignReadURL_Presigns(t *testing.T) {
	s := newTestStore()
	raw := "https://s3.us-east-1.amazonaws.com/intake-files/resumes/abc_cv.pdf"

	got := s.SignReadURL(context.Background(), raw, 0)

	require.True(t, got.Signed)
	assert.NotEqual(t, raw, got.URL)
	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Path, "resumes/abc_cv.pdf")
}

func TestSignReadURL_FallsBackOnBadReference(t *testing.T) {
	s := newTestStore()

	got := s.SignReadURL(context.Background(), "https://s3.us-east-1.amazonaws.com/", time.Hour)

	assert.False(t, got.Signed)
	assert.Equal(t, "https://s3.us-east-1.amazonaws.com/", got.URL)
	assert.Error(t, got.Err)
}

// fakeS3 answers path-style PutObject requests.
type fakeS3 struct {
	status int
	method string
	path   string
	body   string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.method, f.path = r.Method, r.URL.Path
	b, _ := io.ReadAll(r.Body)
	f.body = string(b)
	if f.status != 0 {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		return
	}
	w.Header().Set("ETag", `"etag-1"`)
	w.WriteHeader(http.StatusOK)
}

func newFakeS3Store(t *testing.T, f *fakeS3) (*Store, string) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		UsePathStyle: true,
		Retryer:      aws.NopRetryer{},
	})
	return NewStore(client, "intake-files", srv.URL), srv.URL
}

func TestUpload_ReturnsPathStyleReference(t *testing.T) {
	f := &fakeS3{}
	s, base := newFakeS3Store(t, f)

	ref, err := s.Upload(context.Background(), "resumes/tok_cv.pdf", "application/pdf", strings.NewReader("cv-content"))

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, f.method)
	assert.Equal(t, "/intake-files/resumes/tok_cv.pdf", f.path)
	assert.Contains(t, f.body, "cv-content")
	assert.Equal(t, base+"/intake-files/resumes/tok_cv.pdf", ref.URL)
	assert.Equal(t, "resumes/tok_cv.pdf", ref.Object)

	signed := s.SignReadURL(context.Background(), ref.URL, 0)
	require.True(t, signed.Signed)
	assert.NotEqual(t, ref.URL, signed.URL)
	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestUpload_Rejected_IsStorageError(t *testing.T) {
	s, _ := newFakeS3Store(t, &fakeS3{status: http.StatusForbidden})

	_, err := s.Upload(context.Background(), "idDocuments/tok_id.png", "image/png", strings.NewReader("png"))

	assert.ErrorIs(t, err, domain.ErrStorage)
}

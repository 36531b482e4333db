package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	apperrors "talentbase-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers the handful of S3 calls the store makes, without network access.
type fakeS3 struct{ objects map[string]fakeObject }

type fakeObject struct {
	body        []byte
	contentType string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	empty := io.NopCloser(bytes.NewReader(nil))
	switch req.Method {
	case http.MethodHead:
		if obj, ok := f.objects[key]; ok {
			return &http.Response{StatusCode: 200, Body: empty, Header: http.Header{
				"Content-Length": {fmt.Sprintf("%d", len(obj.body))},
				"Content-Type":   {obj.contentType},
			}}, nil
		}
		return &http.Response{StatusCode: 404, Body: empty, Header: http.Header{}}, nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return &http.Response{StatusCode: 200, Body: empty, Header: http.Header{"ETag": {"\"etag123\""}}}, nil
	case http.MethodGet:
		if obj, ok := f.objects[key]; ok {
			return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(obj.body)), Header: http.Header{
				"Content-Length": {fmt.Sprintf("%d", len(obj.body))},
				"Content-Type":   {obj.contentType},
				"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
			}}, nil
		}
		body := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`
		return &http.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader(body)), Header: http.Header{"Content-Type": {"application/xml"}}}, nil
	case http.MethodDelete:
		delete(f.objects, key)
		return &http.Response{StatusCode: 204, Body: empty, Header: http.Header{}}, nil
	}
	return &http.Response{StatusCode: 501, Body: empty, Header: http.Header{}}, nil
}

// decodeChunked strips aws-chunked framing from a single-chunk upload body.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeS3Store(t *testing.T) *S3Store {
	t.Helper()
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: &fakeS3{objects: map[string]fakeObject{}}}
		o.UsePathStyle = true
	})
	return newS3Store(client, "talent", "https://mock.s3.local/talent")
}

func TestS3StorePutGetDelete(t *testing.T) {
	store := newFakeS3Store(t)
	ctx := context.Background()

	info, err := store.Put(ctx, "player-photos/1_ada.png", bytes.NewReader([]byte("hello")), PutOptions{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "etag123", info.ETag)
	assert.Equal(t, "https://mock.s3.local/talent/player-photos/1_ada.png", info.URL)

	_, err = store.Put(ctx, "player-photos/1_ada.png", bytes.NewReader([]byte("again")), PutOptions{})
	assert.ErrorIs(t, err, apperrors.ErrBlobExists)

	got, rc, err := store.Get(ctx, "player-photos/1_ada.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "image/png", got.ContentType)

	ok, err := store.Delete(ctx, "player-photos/1_ada.png")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestS3StoreGetMissing(t *testing.T) {
	_, _, err := newFakeS3Store(t).Get(context.Background(), "missing.png")
	assert.ErrorIs(t, err, apperrors.ErrBlobNotFound)
}

func TestS3BaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", s3BaseURL(S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com"}, "eu-west-1"))
	assert.Equal(t, "http://localhost:9000/b", s3BaseURL(S3Config{Bucket: "b", Endpoint: "http://localhost:9000/"}, "eu-west-1"))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", s3BaseURL(S3Config{Bucket: "b"}, "eu-west-1"))
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}

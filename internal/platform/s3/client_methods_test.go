package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, region string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})
	return newClient(client, region)
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func errorXML(code, message string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, message)
}

func listXML(truncated bool, token string, keys ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>test-bucket</Name>`)
	fmt.Fprintf(&b, "<KeyCount>%d</KeyCount><IsTruncated>%t</IsTruncated>", len(keys), truncated)
	if token != "" {
		fmt.Fprintf(&b, "<NextContinuationToken>%s</NextContinuationToken>", token)
	}
	for _, k := range keys {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>1</Size></Contents>", k)
	}
	b.WriteString("</ListBucketResult>")
	return b.String()
}

func TestNewClient_PathStyleForCustomEndpoint(t *testing.T) {
	t.Parallel()
	c := NewClient(aws.Config{Region: "us-east-1", BaseEndpoint: aws.String("http://localhost:4566")})
	assert.True(t, c.s3.Options().UsePathStyle)
	assert.Equal(t, "us-east-1", c.region)

	c = NewClient(aws.Config{Region: "eu-west-1"})
	assert.False(t, c.s3.Options().UsePathStyle)
}

func TestListBuckets(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Buckets>
    <Bucket><Name>gestion-practicas-bucket</Name></Bucket>
    <Bucket><Name>other</Name></Bucket>
  </Buckets>
</ListAllMyBucketsResult>`)
	}))

	names, err := client.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gestion-practicas-bucket", "other"}, names)
}

func TestCreateBucket_LocationConstraint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		region     string
		constraint bool
	}{
		{"us-east-1", false},
		{"eu-west-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			t.Parallel()
			var body string
			var mu sync.Mutex
			client := testClient(t, tt.region, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				mu.Lock()
				body = string(data)
				mu.Unlock()
				xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
			}))

			require.NoError(t, client.CreateBucket(context.Background(), "test-bucket"))
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, tt.constraint, strings.Contains(body, "<LocationConstraint>"+tt.region+"</LocationConstraint>"))
		})
	}
}

func TestCreateBucket_AlreadyOwnedByYou(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 409, errorXML("BucketAlreadyOwnedByYou", "you already own it"))
	}))
	assert.NoError(t, client.CreateBucket(context.Background(), "test-bucket"))
}

func TestCreateBucket_OwnedBySomeoneElse(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 409, errorXML("BucketAlreadyExists", "name taken"))
	}))
	err := client.CreateBucket(context.Background(), "test-bucket")
	assert.ErrorContains(t, err, "failed to create bucket test-bucket")
}

func TestEnsureBucket(t *testing.T) {
	t.Parallel()

	t.Run("exists", func(t *testing.T) {
		t.Parallel()
		var puts int
		var mu sync.Mutex
		client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "PUT" {
				mu.Lock()
				puts++
				mu.Unlock()
			}
			w.WriteHeader(200)
		}))
		created, err := client.EnsureBucket(context.Background(), "test-bucket")
		require.NoError(t, err)
		assert.False(t, created)
		mu.Lock()
		defer mu.Unlock()
		assert.Zero(t, puts)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "HEAD" {
				w.WriteHeader(404)
				return
			}
			xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
		}))
		created, err := client.EnsureBucket(context.Background(), "test-bucket")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(403)
		}))
		_, err := client.EnsureBucket(context.Background(), "test-bucket")
		assert.ErrorContains(t, err, "failed to check bucket test-bucket")
	})
}

func TestEnsureFolder(t *testing.T) {
	t.Parallel()

	t.Run("already populated", func(t *testing.T) {
		t.Parallel()
		client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GET", r.Method)
			assert.Equal(t, "gestion/", r.URL.Query().Get("prefix"))
			assert.Equal(t, "1", r.URL.Query().Get("max-keys"))
			xmlResponse(w, 200, listXML(false, "", "gestion/csv/datos_practicas.csv"))
		}))
		created, err := client.EnsureFolder(context.Background(), "test-bucket", "gestion/")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("writes marker", func(t *testing.T) {
		t.Parallel()
		var putPath string
		var mu sync.Mutex
		client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == "PUT" {
				mu.Lock()
				putPath = r.URL.Path
				mu.Unlock()
				w.WriteHeader(200)
				return
			}
			xmlResponse(w, 200, listXML(false, ""))
		}))
		created, err := client.EnsureFolder(context.Background(), "test-bucket", "gestion/")
		require.NoError(t, err)
		assert.True(t, created)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "/test-bucket/gestion/", putPath)
	})
}

func TestUpload(t *testing.T) {
	t.Parallel()
	var body, contentType, path string
	var mu sync.Mutex
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body, contentType, path = string(data), r.Header.Get("Content-Type"), r.URL.Path
		mu.Unlock()
		w.WriteHeader(200)
	}))

	payload := "id_estudiante,dni\n1,12345678\n"
	err := client.Upload(context.Background(), "test-bucket", "gestion/csv/datos_practicas.csv", strings.NewReader(payload), "text/csv")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, body, payload)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "/test-bucket/gestion/csv/datos_practicas.csv", path)
}

func TestUpload_Error(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 403, errorXML("AccessDenied", "Access Denied"))
	}))
	err := client.Upload(context.Background(), "test-bucket", "k", strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "failed to upload k to bucket test-bucket")
}

func TestPutAndGetObject(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	stored := map[string][]byte{}
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case "PUT":
			data, _ := io.ReadAll(r.Body)
			stored[r.URL.Path] = data
			w.WriteHeader(200)
		case "GET":
			data, ok := stored[r.URL.Path]
			if !ok {
				xmlResponse(w, 404, errorXML("NoSuchKey", "missing"))
				return
			}
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
			w.WriteHeader(200)
			_, _ = w.Write(data)
		}
	}))
	ctx := context.Background()

	require.NoError(t, client.PutObject(ctx, "test-bucket", "prueba.txt", []byte("hello world")))
	data, err := client.GetObject(ctx, "test-bucket", "prueba.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, err = client.GetObject(ctx, "test-bucket", "missing")
	assert.ErrorContains(t, err, "failed to get object missing from bucket test-bucket")
}

func TestListObjects_Paginates(t *testing.T) {
	t.Parallel()
	var tokens []string
	var mu sync.Mutex
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("continuation-token")
		mu.Lock()
		tokens = append(tokens, token)
		mu.Unlock()
		if token == "" {
			xmlResponse(w, 200, listXML(true, "page-2", "gestion/", "gestion/csv/datos_practicas.csv"))
			return
		}
		xmlResponse(w, 200, listXML(false, "", "gestion/json/datos_practicas.json"))
	}))

	keys, err := client.ListObjects(context.Background(), "test-bucket", "gestion/")
	require.NoError(t, err)
	assert.Equal(t, []string{"gestion/", "gestion/csv/datos_practicas.csv", "gestion/json/datos_practicas.json"}, keys)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "page-2"}, tokens)
}

func TestListObjects_Error(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, 404, errorXML("NoSuchBucket", "The specified bucket does not exist"))
	}))
	_, err := client.ListObjects(context.Background(), "nonexistent-bucket", "")
	assert.ErrorContains(t, err, "failed to list objects in bucket nonexistent-bucket")
}

func TestDeleteObjectAndBucket(t *testing.T) {
	t.Parallel()
	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/test-bucket" {
			xmlResponse(w, 409, errorXML("BucketNotEmpty", "The bucket you tried to delete is not empty"))
			return
		}
		w.WriteHeader(204)
	}))
	ctx := context.Background()

	assert.NoError(t, client.DeleteObject(ctx, "test-bucket", "gestion/"))
	assert.ErrorContains(t, client.DeleteBucket(ctx, "test-bucket"), "failed to delete bucket test-bucket")
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		alreadyOwned bool
		notFound     bool
	}{
		{"nil", nil, false, false},
		{"owned by you", fmt.Errorf("outer: %w", &s3types.BucketAlreadyOwnedByYou{}), true, false},
		{"exists elsewhere", fmt.Errorf("outer: %w", &s3types.BucketAlreadyExists{}), false, false},
		{"no such bucket", fmt.Errorf("outer: %w", &s3types.NoSuchBucket{}), false, true},
		{"not found", &s3types.NotFound{}, false, true},
		{"generic", fmt.Errorf("outer: %w", fmt.Errorf("inner error")), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.alreadyOwned, isBucketAlreadyOwnedByYou(tt.err))
			assert.Equal(t, tt.notFound, isNotFoundError(tt.err))
		})
	}
}

package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/kjannette/tokenboard-backend/internal/httputil"
)

const (
	uploadFolder = "tokens"

	// c_limit: fit within the bounding box, shrink only, never enlarge.
	transformation = "c_limit,h_500,w_500"
)

// Uploader stores an image buffer on the media host and returns its durable URL.
type Uploader interface {
	Upload(ctx context.Context, buf []byte, filename string) (*UploadResult, error)
}

type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

type CloudinaryClient struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewCloudinaryClient(cloudName, apiKey, apiSecret string) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    "https://api.cloudinary.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// uploads are not idempotent: a single attempt, no retry
		retry: httputil.RetryConfig{MaxAttempts: 1},
	}
}

// WithBaseURL points the client at a different API host. Used in tests.
func (c *CloudinaryClient) WithBaseURL(u string) *CloudinaryClient {
	c.baseURL = u
	return c
}

// Upload posts the buffer to Cloudinary's signed image upload endpoint,
// placing it in the token-image folder with the fixed resize transform.
// The caller blocks until the host resolves with a URL or rejects.
func (c *CloudinaryClient) Upload(ctx context.Context, buf []byte, filename string) (*UploadResult, error) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fw, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := fw.Write(buf); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}

	fields := map[string]string{
		"api_key":        c.apiKey,
		"timestamp":      ts,
		"folder":         uploadFolder,
		"transformation": transformation,
		"signature":      c.sign(ts),
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body.Bytes()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", form.FormDataContentType())
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("cloudinary returned status %d: %s", resp.StatusCode, msg)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary response missing secure_url")
	}
	return &result, nil
}

// sign produces the request signature: the SHA-1 hex digest of the
// alphabetically ordered upload parameters concatenated with the API secret.
func (c *CloudinaryClient) sign(timestamp string) string {
	params := fmt.Sprintf("folder=%s&timestamp=%s&transformation=%s",
		uploadFolder, timestamp, transformation)
	sum := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

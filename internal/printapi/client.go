// Package printapi implements the Walgreens QuickPrints client: upload
// credential exchange, image upload to the signed storage container, and
// order submission, plus the catalog, store search, order status, and
// coupon endpoints.
//
// Order submission is single-attempt: a request that dies mid-flight may
// still have created an order on the service side, and a retry could
// charge the customer twice. Callers surface the failure instead of
// retrying.
package printapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	productionBaseURL = "https://services.walgreens.com/api"
	sandboxBaseURL    = "https://services-qa.walgreens.com/api"

	defaultTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second

	apiPlatform    = "android"
	apiTransaction = "photocheckoutv2"
	apiAppVersion  = "1.0"
	apiDeviceInfo  = "Go,1.x"

	// DefaultProductGroup selects the standard print products catalog.
	DefaultProductGroup = "STDPR"

	searchRadiusMiles = "20"

	// EnvAPIEnvironment switches the client to the sandbox endpoints when
	// set to "sandbox".
	EnvAPIEnvironment = "PHOTOPRINT_API_ENV"
)

// Client is a Walgreens photo service API client.
type Client struct {
	httpClient   *http.Client
	uploadClient *http.Client
	creds        Credentials
	baseURL      string
}

// NewClient creates a photo service client. The production endpoints are
// used unless PHOTOPRINT_API_ENV=sandbox.
func NewClient(creds Credentials) *Client {
	baseURL := productionBaseURL
	if strings.EqualFold(os.Getenv(EnvAPIEnvironment), "sandbox") {
		baseURL = sandboxBaseURL
		log.Debug().Msg("Using sandbox API environment")
	}

	return &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		uploadClient: &http.Client{Timeout: uploadTimeout},
		creds:        creds,
		baseURL:      baseURL,
	}
}

// BaseURL returns the API base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) base() baseRequest {
	return baseRequest{
		APIKey:      c.creds.APIKey,
		AffiliateID: c.creds.AffiliateID,
		AppVersion:  apiAppVersion,
		DeviceInfo:  apiDeviceInfo,
	}
}

// postJSON sends a JSON payload and decodes the response into out. The
// service signals most failures through an error envelope inside a 200
// response, so the body is probed for errCode before decoding.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("method", http.MethodPost).Str("path", endpoint).Msg("Photo service request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Debug().Dur("duration", duration).Err(err).Msg("Photo service request failed")
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug().Int("statusCode", resp.StatusCode).Dur("duration", duration).Str("path", endpoint).Msg("Photo service response")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(data, &env) // the envelope is absent on success

	if resp.StatusCode != http.StatusOK || env.ErrCode != "" {
		return classifyServiceError(resp.StatusCode, env)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(data), 200))
	}
	return nil
}

// FetchUploadCredentials requests a signed storage token for image uploads.
func (c *Client) FetchUploadCredentials(ctx context.Context) (*UploadCredentials, error) {
	log.Debug().Msg("Fetching upload credentials")

	payload := credsRequest{
		baseRequest: c.base(),
		Platform:    apiPlatform,
		Transaction: apiTransaction,
	}

	var resp credsResponse
	if err := c.postJSON(ctx, "/photo/creds/v3", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Cloud) == 0 || resp.Cloud[0].SASKeyToken == "" {
		return nil, &APIError{Kind: KindRejected, Message: "Credential response contained no upload token"}
	}

	return &UploadCredentials{SASKeyToken: resp.Cloud[0].SASKeyToken}, nil
}

// uploadURL splits the signed token into container URL and signature and
// addresses the named object inside the container.
func (u *UploadCredentials) uploadURL(name string) (string, error) {
	container, sig, ok := strings.Cut(u.SASKeyToken, "?")
	if !ok {
		return "", &APIError{Kind: KindRejected, Message: "Upload token is missing its signature"}
	}
	return container + "/" + name + "?" + sig, nil
}

// uploadAsset PUTs one staged image into the signed container and returns
// the object URL for the order payload.
func (c *Client) uploadAsset(ctx context.Context, creds *UploadCredentials, asset Asset) (string, error) {
	target, err := creds.uploadURL(asset.Name)
	if err != nil {
		return "", err
	}

	f, err := os.Open(asset.LocalPath)
	if err != nil {
		return "", fmt.Errorf("open staged image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat staged image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, f)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", asset.ContentType)
	req.Header.Set("x-ms-blob-type", "BlockBlob")
	req.Header.Set("x-ms-client-request-id", uuid.NewString())

	log.Debug().Str("name", asset.Name).Int64("bytes", info.Size()).Msg("Uploading image")

	start := time.Now()
	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	log.Debug().Int("statusCode", resp.StatusCode).Dur("duration", time.Since(start)).Str("name", asset.Name).Msg("Upload response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		msg := fmt.Sprintf("Upload failed with status %d", resp.StatusCode)
		if s := strings.TrimSpace(string(detail)); s != "" {
			msg += ": " + truncate(s, 200)
		}
		return "", &APIError{Kind: kindForStatus(resp.StatusCode), Message: msg}
	}

	log.Info().Str("file", filepath.Base(asset.DisplayPath)).Msg("Successfully uploaded image")
	return target, nil
}

// SubmitOrder uploads the order's staged images and submits the order in
// one attempt. Images that fail to upload are dropped from the order and
// reported in the outcome; the order goes through if at least one image
// made it. The submit call itself is never retried.
func (c *Client) SubmitOrder(ctx context.Context, order *Order) (*Outcome, error) {
	if len(order.Assets) == 0 {
		return nil, &APIError{Kind: KindRejected, Message: "Order contains no images"}
	}

	creds, err := c.FetchUploadCredentials(ctx)
	if err != nil {
		return nil, err
	}

	var (
		accepted []string
		urls     []string
	)
	rejected := make(map[string]string)
	for _, asset := range order.Assets {
		url, err := c.uploadAsset(ctx, creds, asset)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Error().Err(err).Str("file", asset.DisplayPath).Msg("Failed to upload image")
			rejected[asset.DisplayPath] = reasonString(err)
			continue
		}
		accepted = append(accepted, asset.DisplayPath)
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		return nil, &APIError{Kind: KindRejected, Message: "Failed to upload any images. Please try again"}
	}

	resp, err := c.submit(ctx, order, urls)
	if err != nil {
		return nil, err
	}

	pickup := resp.PromiseTime
	if pickup == "" {
		pickup = order.PromiseTime
	}

	return &Outcome{
		OrderNumber:   resp.VendorOrderID,
		StoreNum:      order.StoreNum,
		PickupDetails: pickup,
		Accepted:      accepted,
		Rejected:      rejected,
	}, nil
}

func (c *Client) submit(ctx context.Context, order *Order, urls []string) (*submitResponse, error) {
	qty := order.Quantity
	if qty < 1 {
		qty = 1
	}

	detail := productDetail{
		ProductID: order.ProductID,
		Quantity:  strconv.Itoa(len(urls) * qty),
	}
	for _, u := range urls {
		detail.ImageDetails = append(detail.ImageDetails, imageDetail{URL: u, Qty: strconv.Itoa(qty)})
	}

	payload := submitRequest{
		baseRequest:    c.base(),
		FirstName:      order.Customer.FirstName,
		LastName:       order.Customer.LastName,
		Phone:          order.Customer.Phone,
		Email:          order.Customer.Email,
		StoreNum:       order.StoreNum,
		PromiseTime:    order.PromiseTime,
		Action:         "submitphotoorder",
		ProductDetails: []productDetail{detail},
		CouponCode:     order.CouponCode,
	}

	log.Debug().Str("storeNum", order.StoreNum).Int("images", len(urls)).Msg("Submitting print order")

	var resp submitResponse
	if err := c.postJSON(ctx, "/photo/order/submit/v3", payload, &resp); err != nil {
		return nil, err
	}
	if resp.VendorOrderID == "" {
		return nil, &APIError{Kind: KindRejected, Message: "Order submission returned no order number"}
	}

	log.Info().Str("orderNumber", resp.VendorOrderID).Msg("Print order submitted")
	return &resp, nil
}

// truncate shortens a string for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package whatsapp is the Meta Graph API client: outbound text messages and
// media retrieval for voice notes.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/pkg/config"
)

const graphBaseURL = "https://graph.facebook.com"

type Client struct {
	apiToken       string
	phoneNumberID  string
	apiVersion     string
	sendClient     *http.Client
	mediaClient    *http.Client
	downloadClient *http.Client
	log            *zap.Logger
}

func NewClient(cfg config.WhatsAppConfig, log *zap.Logger) *Client {
	return &Client{
		apiToken:       cfg.APIToken,
		phoneNumberID:  cfg.PhoneNumberID,
		apiVersion:     cfg.APIVersion,
		sendClient:     &http.Client{Timeout: cfg.SendTimeout},
		mediaClient:    &http.Client{Timeout: cfg.MediaTimeout},
		downloadClient: &http.Client{Timeout: cfg.DownloadTimeout},
		log:            log,
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText delivers one text message through the Cloud API.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	url := fmt.Sprintf("%s/%s/%s/messages", graphBaseURL, c.apiVersion, c.phoneNumberID)

	payload, err := json.Marshal(sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               recipientID,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.sendClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp: send failed with status %d: %s", resp.StatusCode, body)
	}

	c.log.Debug("WhatsApp message sent", zap.String("recipient", recipientID))
	return nil
}

type mediaURLResponse struct {
	URL string `json:"url"`
}

// DownloadMedia resolves a media ID to its download URL and fetches the
// content. Both calls carry the API token; the URL Meta hands back is only
// valid for a short window.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	mediaURL, err := c.mediaURL(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: media download failed with status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: read media body: %w", err)
	}
	return content, nil
}

func (c *Client) mediaURL(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/", graphBaseURL, c.apiVersion, mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: create media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.mediaClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: fetch media url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whatsapp: media url lookup failed with status %d", resp.StatusCode)
	}

	var parsed mediaURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("whatsapp: decode media url: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("whatsapp: media %s has no download url", mediaID)
	}
	return parsed.URL, nil
}

package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
)

// UploadImage pushes an image to the hosting provider and returns the remote
// URL that goes onto the post. The provider contract is a multipart POST with
// the file and an upload preset, answering with a secure_url field.
func (v *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("unable to build upload form: %v", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("unable to read image: %v", err)
	}
	if err := form.WriteField("upload_preset", viper.GetString("uploads.preset")); err != nil {
		return "", fmt.Errorf("unable to build upload form: %v", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("unable to build upload form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, viper.GetString("uploads.endpoint"), &buf)
	if err != nil {
		return "", fmt.Errorf("unable to build upload request: %v", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := v.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %v", err)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %v", err)
	}
	if len(result.SecureURL) == 0 {
		return "", fmt.Errorf("image host rejected upload: %d, response: %s", resp.StatusCode, raw)
	}

	return result.SecureURL, nil
}

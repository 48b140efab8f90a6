package confluence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// FindAttachment looks up an attachment of pageID with the same base name as
// filename. It returns nil when none exists.
func (c *Client) FindAttachment(ctx context.Context, pageID, filename string) (*Attachment, error) {
	query := url.Values{"filename": {filepath.Base(filename)}}
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(query, "content", pageID, "child", "attachment"), nil, "")
	if err != nil {
		return nil, err
	}

	var list attachmentList
	if err := c.do(req, "find attachment", &list); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	if len(list.Results) == 0 {
		return nil, nil
	}
	return &list.Results[0], nil
}

// UploadAttachment uploads a local file to pageID. An existing attachment
// with the same base name receives a new version; otherwise one is created.
func (c *Client) UploadAttachment(ctx context.Context, pageID, filename, comment string) error {
	body, contentType, err := buildAttachmentForm(filename, comment)
	if err != nil {
		return err
	}

	existing, err := c.FindAttachment(ctx, pageID, filename)
	if err != nil {
		return err
	}

	segments := []string{"content", pageID, "child", "attachment"}
	if existing != nil {
		segments = append(segments, existing.ID, "data")
		c.logger.Info("updating attachment", "file", filename, "attachment_id", existing.ID)
	} else {
		c.logger.Info("creating attachment", "file", filename)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(nil, segments...), body, contentType)
	if err != nil {
		return err
	}
	req.Header.Set("X-Atlassian-Token", "no-check")

	return c.do(req, "upload attachment", nil)
}

// UploadAttachments uploads every file, continuing past failures. The
// returned error joins all failures.
func (c *Client) UploadAttachments(ctx context.Context, pageID string, filenames []string, comment string) error {
	var errs []error
	for _, filename := range filenames {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.UploadAttachment(ctx, pageID, filename, comment); err != nil {
			c.logger.Error("attachment upload failed", "file", filename, "error", err)
			errs = append(errs, fmt.Errorf("upload %s: %w", filename, err))
		}
	}
	return errors.Join(errs...)
}

func buildAttachmentForm(filename, comment string) (*bytes.Buffer, string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, "", fmt.Errorf("open attachment: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("comment", comment); err != nil {
		return nil, "", fmt.Errorf("write attachment comment: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filepath.Base(filename))))
	header.Set("Content-Type", contentTypeFor(filename))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create attachment part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read attachment: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close attachment form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func contentTypeFor(filename string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

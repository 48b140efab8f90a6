package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetPage fetches a page with its version, ancestors and storage body.
func (c *Client) GetPage(ctx context.Context, id string) (Page, error) {
	query := url.Values{"expand": {"version,ancestors,body.storage"}}
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(query, "content", id), nil, "")
	if err != nil {
		return Page{}, err
	}

	var page Page
	if err := c.do(req, "read page", &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// UpdatePage submits a new version of a page body in storage format.
func (c *Client) UpdatePage(ctx context.Context, update PageUpdate) (Page, error) {
	payload := pageUpdatePayload{
		ID:    update.ID,
		Type:  "page",
		Title: update.Title,
		Space: Space{Key: update.SpaceKey},
		Body: Body{
			Storage: Storage{
				Value:          update.Markup,
				Representation: "storage",
			},
		},
		Version: Version{Number: update.Version},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Page{}, fmt.Errorf("update page: encode payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, c.endpoint(nil, "content", update.ID), bytes.NewReader(data), "application/json")
	if err != nil {
		return Page{}, err
	}

	var page Page
	if err := c.do(req, "update page", &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// PublishPage replaces the body of an existing page with markup. It reads the
// current version and submits the next one; the update is not retried.
func (c *Client) PublishPage(ctx context.Context, target PageTarget, markup string) (PublishResult, error) {
	current, err := c.GetPage(ctx, target.ID)
	if err != nil {
		return PublishResult{}, err
	}

	next := current.Version.Number + 1
	c.logger.Info("updating page", "id", target.ID, "title", target.Title, "version", next)

	updated, err := c.UpdatePage(ctx, PageUpdate{
		ID:       target.ID,
		Title:    target.Title,
		SpaceKey: target.Space,
		Markup:   markup,
		Version:  next,
	})
	if err != nil {
		return PublishResult{}, err
	}

	pageID := updated.ID
	if pageID == "" {
		pageID = target.ID
	}

	return PublishResult{
		PageID:  pageID,
		Version: updated.Version.Number,
		Link:    updated.Links.Base + updated.Links.WebUI,
	}, nil
}

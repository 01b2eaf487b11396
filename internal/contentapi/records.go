package contentapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"thibou/internal/catalog"
	"thibou/internal/services"
)

// List returns every stored record of kind.
func (c *Client) List(ctx context.Context, kind catalog.Kind) ([]catalog.StoredRecord, error) {
	resp, err := c.send(ctx, http.MethodGet, "list", nil, true, []int{http.StatusOK}, kind.Resource())
	if err != nil {
		return nil, err
	}
	var envelope map[string]json.RawMessage
	if err := decodeBody(resp, "list", &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[kind.ListKey()]
	if !ok {
		return []catalog.StoredRecord{}, nil
	}
	var records []catalog.StoredRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, services.Wrap(services.ErrExternal, component, "list", "decode "+kind.ListKey(), err)
	}
	return records, nil
}

// Create submits a canonical record and returns the server-assigned id.
func (c *Client) Create(ctx context.Context, kind catalog.Kind, record any) (string, error) {
	resp, err := c.send(ctx, http.MethodPost, "create", record, true, []int{http.StatusOK, http.StatusCreated}, kind.Resource())
	if err != nil {
		return "", err
	}
	var envelope map[string]json.RawMessage
	if err := decodeBody(resp, "create", &envelope); err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"_id"`
	}
	if raw, ok := envelope[kind.CreateKey()]; ok {
		if err := json.Unmarshal(raw, &created); err != nil {
			return "", services.Wrap(services.ErrExternal, component, "create", "decode "+kind.CreateKey(), err)
		}
	}
	id := strings.TrimSpace(created.ID)
	if id == "" {
		return "", services.Wrap(services.ErrExternal, component, "create", "response carried no "+kind.CreateKey()+"._id", nil)
	}
	return id, nil
}

// UpdateNames replaces the localized name mapping of a record.
func (c *Client) UpdateNames(ctx context.Context, kind catalog.Kind, id string, names catalog.Names) error {
	return c.update(ctx, kind, id, "update names", map[string]any{"name": names})
}

// UpdateHouse writes the house summary of a villager.
func (c *Client) UpdateHouse(ctx context.Context, id string, house catalog.House) error {
	return c.update(ctx, catalog.KindVillager, id, "update house", map[string]any{"house": house})
}

// UpdatePopularityRank writes the popularity rank of a villager.
func (c *Client) UpdatePopularityRank(ctx context.Context, id, rank string) error {
	return c.update(ctx, catalog.KindVillager, id, "update rank", map[string]any{"popularity_rank": rank})
}

// UploadImage attaches a data URI image to a record under slot.
func (c *Client) UploadImage(ctx context.Context, kind catalog.Kind, id, slot, dataURI string) error {
	resp, err := c.send(
		ctx,
		http.MethodPost,
		"upload image",
		map[string]string{"image_data": dataURI},
		true,
		[]int{http.StatusOK, http.StatusCreated},
		kind.Resource(), id, "img", slot,
	)
	if err != nil {
		return err
	}
	discardBody(resp)
	return nil
}

func (c *Client) update(ctx context.Context, kind catalog.Kind, id, operation string, payload any) error {
	if strings.TrimSpace(id) == "" {
		return services.Wrap(services.ErrValidation, component, operation, "record id is empty", nil)
	}
	resp, err := c.send(ctx, http.MethodPut, operation, payload, true, []int{http.StatusOK, http.StatusNoContent}, kind.Resource(), id)
	if err != nil {
		return err
	}
	discardBody(resp)
	return nil
}

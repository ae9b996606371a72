package marketapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"

	"makazi/internal/domain"
)

func queryValues(q domain.PropertyQuery) (url.Values, error) {
	vals, err := query.Values(q)
	if err != nil {
		return nil, transportError(err)
	}
	return vals, nil
}

func (c *Client) ListProperties(ctx context.Context, token string, q domain.PropertyQuery) (domain.PropertyPage, error) {
	vals, err := queryValues(q)
	if err != nil {
		return domain.PropertyPage{}, err
	}
	var out domain.PropertyPage
	err = c.do(ctx, call{method: http.MethodGet, path: "/properties", query: vals, token: token}, &out)
	return out, err
}

func (c *Client) GetProperty(ctx context.Context, token string, id int64) (domain.Property, error) {
	var out domain.Property
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/properties/%d", id), token: token}, &out)
	return out, err
}

func (c *Client) CreateProperty(ctx context.Context, token string, d domain.PropertyDraft) (domain.Property, error) {
	var out domain.Property
	err := c.do(ctx, call{method: http.MethodPost, path: "/properties", body: d, token: token}, &out)
	return out, err
}

func (c *Client) UpdateProperty(ctx context.Context, token string, id int64, d domain.PropertyDraft) (domain.Property, error) {
	var out domain.Property
	err := c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/properties/%d", id), body: d, token: token}, &out)
	return out, err
}

func (c *Client) DeleteProperty(ctx context.Context, token string, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/properties/%d", id), token: token}, nil)
}

// UploadPropertyMedia streams one image as a multipart form (field "media")
// and returns the stored image URLs.
func (c *Client) UploadPropertyMedia(ctx context.Context, token string, id int64, filename string, r io.Reader) ([]string, error) {
	var out struct {
		Images []string `json:"images"`
	}
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/properties/%d/media", id),
		token:  token,
		form: func(mw *multipart.Writer) error {
			fw, err := mw.CreateFormFile("media", filename)
			if err != nil {
				return err
			}
			_, err = io.Copy(fw, r)
			return err
		},
	}, &out)
	return out.Images, err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/categories", public: true}, &out)
	return out, err
}

func (c *Client) ListReviews(ctx context.Context, propertyID int64) ([]domain.Review, error) {
	var out []domain.Review
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/properties/%d/reviews", propertyID)}, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, token string, d domain.ReviewDraft) (domain.Review, error) {
	var out domain.Review
	err := c.do(ctx, call{method: http.MethodPost, path: "/reviews", body: d, token: token}, &out)
	return out, err
}

func (c *Client) ListFavorites(ctx context.Context, token string) ([]domain.Favorite, error) {
	var out []domain.Favorite
	err := c.do(ctx, call{method: http.MethodGet, path: "/favorites", token: token}, &out)
	return out, err
}

func (c *Client) AddFavorite(ctx context.Context, token string, propertyID int64) (domain.Favorite, error) {
	var out domain.Favorite
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/favorites",
		body:   map[string]int64{"property_id": propertyID},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) RemoveFavorite(ctx context.Context, token string, favoriteID int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/favorites/%d", favoriteID), token: token}, nil)
}

func (c *Client) CreateInquiry(ctx context.Context, token string, d domain.InquiryDraft) (domain.Inquiry, error) {
	var out domain.Inquiry
	err := c.do(ctx, call{method: http.MethodPost, path: "/inquiries", body: d, token: token}, &out)
	return out, err
}

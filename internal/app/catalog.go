package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"makazi/internal/domain"
)

// CatalogService serves the browse side: properties, categories, reviews,
// favorites, inquiries. Public reads go through a short-TTL cache; anything
// tied to a token bypasses it.
type CatalogService struct {
	api      domain.CatalogAPI
	cache    domain.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewCatalogService(api domain.CatalogAPI, cache domain.Cache, ttl time.Duration, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, cache: cache, cacheTTL: ttl, log: log}
}

func (c *CatalogService) SearchProperties(ctx context.Context, token string, q domain.PropertyQuery) (domain.PropertyPage, error) {
	if token != "" {
		// authenticated views may include the caller's own unapproved
		// listings; never serve those from the shared cache
		return c.api.ListProperties(ctx, token, q)
	}
	key := fmt.Sprintf("properties:%s:%s:%d:%d:%d:%s", q.Q, q.City, q.CategoryID, q.Page, q.Limit, q.Sort)
	var page domain.PropertyPage
	if q.MinPrice == nil && q.MaxPrice == nil && q.Bedrooms == nil {
		if ok, _ := c.cache.Get(ctx, key, &page); ok {
			return page, nil
		}
	}
	page, err := c.api.ListProperties(ctx, "", q)
	if err != nil {
		return domain.PropertyPage{}, err
	}
	if q.MinPrice == nil && q.MaxPrice == nil && q.Bedrooms == nil {
		_ = c.cache.Set(ctx, key, page, int(c.cacheTTL.Seconds()))
	}
	return page, nil
}

func (c *CatalogService) Property(ctx context.Context, token string, id int64) (domain.Property, error) {
	if token != "" {
		return c.api.GetProperty(ctx, token, id)
	}
	key := fmt.Sprintf("property:%d", id)
	var p domain.Property
	if ok, _ := c.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := c.api.GetProperty(ctx, "", id)
	if err != nil {
		return domain.Property{}, err
	}
	_ = c.cache.Set(ctx, key, p, int(c.cacheTTL.Seconds()))
	return p, nil
}

func (c *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if ok, _ := c.cache.Get(ctx, "categories", &cats); ok {
		return cats, nil
	}
	cats, err := c.api.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, "categories", cats, int(c.cacheTTL.Seconds()))
	return cats, nil
}

func (c *CatalogService) Reviews(ctx context.Context, propertyID int64) ([]domain.Review, error) {
	return c.api.ListReviews(ctx, propertyID)
}

func (c *CatalogService) CreateReview(ctx context.Context, token string, d domain.ReviewDraft) (domain.Review, error) {
	if token == "" {
		return domain.Review{}, ErrAuthRequired
	}
	return c.api.CreateReview(ctx, token, d)
}

func (c *CatalogService) Favorites(ctx context.Context, token string) ([]domain.Favorite, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	return c.api.ListFavorites(ctx, token)
}

func (c *CatalogService) AddFavorite(ctx context.Context, token string, propertyID int64) (domain.Favorite, error) {
	if token == "" {
		return domain.Favorite{}, ErrAuthRequired
	}
	return c.api.AddFavorite(ctx, token, propertyID)
}

func (c *CatalogService) RemoveFavorite(ctx context.Context, token string, favoriteID int64) error {
	if token == "" {
		return ErrAuthRequired
	}
	return c.api.RemoveFavorite(ctx, token, favoriteID)
}

func (c *CatalogService) CreateInquiry(ctx context.Context, token string, d domain.InquiryDraft) (domain.Inquiry, error) {
	// inquiries are allowed for anonymous visitors; token is attached when present
	return c.api.CreateInquiry(ctx, token, d)
}

func (c *CatalogService) CreateProperty(ctx context.Context, token string, d domain.PropertyDraft) (domain.Property, error) {
	if token == "" {
		return domain.Property{}, ErrAuthRequired
	}
	return c.api.CreateProperty(ctx, token, d)
}

func (c *CatalogService) UpdateProperty(ctx context.Context, token string, id int64, d domain.PropertyDraft) (domain.Property, error) {
	if token == "" {
		return domain.Property{}, ErrAuthRequired
	}
	p, err := c.api.UpdateProperty(ctx, token, id, d)
	if err == nil {
		_ = c.cache.Del(ctx, fmt.Sprintf("property:%d", id))
	}
	return p, err
}

func (c *CatalogService) UploadMedia(ctx context.Context, token string, id int64, filename string, r io.Reader) ([]string, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	images, err := c.api.UploadPropertyMedia(ctx, token, id, filename, r)
	if err == nil {
		_ = c.cache.Del(ctx, fmt.Sprintf("property:%d", id))
	}
	return images, err
}

func (c *CatalogService) DeleteProperty(ctx context.Context, token string, id int64) error {
	if token == "" {
		return ErrAuthRequired
	}
	if err := c.api.DeleteProperty(ctx, token, id); err != nil {
		return err
	}
	_ = c.cache.Del(ctx, fmt.Sprintf("property:%d", id))
	return nil
}

// Dashboard is the aggregate the landing view renders after login.
type Dashboard struct {
	Bookings  []domain.Booking  `json:"bookings"`
	Favorites []domain.Favorite `json:"favorites"`
	Recent    []domain.Property `json:"recent"`
}

// LoadDashboard fans the three reads out in parallel. Each leg degrades to
// an empty slice on failure so one slow or broken endpoint never blanks the
// whole view; failures are logged, not returned.
func (c *CatalogService) LoadDashboard(ctx context.Context, token string, bookings domain.BookingAPI) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bs, err := bookings.ListBookings(gctx, token)
		if err != nil {
			c.log.Warn().Err(err).Msg("dashboard: bookings load failed")
			return nil
		}
		d.Bookings = bs
		return nil
	})
	g.Go(func() error {
		fs, err := c.api.ListFavorites(gctx, token)
		if err != nil {
			c.log.Warn().Err(err).Msg("dashboard: favorites load failed")
			return nil
		}
		d.Favorites = fs
		return nil
	})
	g.Go(func() error {
		page, err := c.SearchProperties(gctx, "", domain.PropertyQuery{Sort: "-created_at", Limit: 6})
		if err != nil {
			c.log.Warn().Err(err).Msg("dashboard: recent properties load failed")
			return nil
		}
		d.Recent = page.Items
		return nil
	})

	_ = g.Wait() // legs never return errors; Wait orders the writes above
	if d.Bookings == nil {
		d.Bookings = []domain.Booking{}
	}
	if d.Favorites == nil {
		d.Favorites = []domain.Favorite{}
	}
	if d.Recent == nil {
		d.Recent = []domain.Property{}
	}
	return d, nil
}

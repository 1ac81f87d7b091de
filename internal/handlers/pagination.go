package handlers

import (
	"net/url"
	"strconv"

	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Paging holds the page size settings shared by every listing endpoint.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// PageResponse is the envelope of paginated listings.
type PageResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func (p Paging) page(c *fiber.Ctx) services.Page {
	return services.NewPage(c.QueryInt("page", 1), c.QueryInt("limit", 0), p.DefaultLimit, p.MaxLimit)
}

func paginated(c *fiber.Ctx, page services.Page, total int64, results interface{}) PageResponse {
	resp := PageResponse{Count: total, Results: results}
	if page.HasNext(total) {
		next := pageURL(c, page.Number+1)
		resp.Next = &next
	}
	if page.Number > 1 {
		previous := pageURL(c, page.Number-1)
		resp.Previous = &previous
	}
	return resp
}

// pageURL rebuilds the request URL with another page number, keeping every
// other query parameter as sent.
func pageURL(c *fiber.Ctx, number int) string {
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})
	if number <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(number))
	}

	u := url.URL{
		Scheme:   c.Protocol(),
		Host:     c.Hostname(),
		Path:     c.Path(),
		RawQuery: query.Encode(),
	}
	return u.String()
}

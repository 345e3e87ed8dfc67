// Package rooms lists the game rooms a server is hosting, with the
// paging the lobby screen uses: everything is fetched and sorted once,
// then detail is loaded per page.
package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Info is one entry from the room index.
type Info struct {
	ID        string `json:"id"`
	IsStarted bool   `json:"is_started"`
}

// Detail is the per-room info record.
type Detail struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Participants int    `json:"participants"`
	IsStarted    bool   `json:"is_started"`
	Game         struct {
		BoardSize int `json:"boardSize"`
		TeamSize  int `json:"teamSize"`
	} `json:"game"`
}

// Seats returns the room's total capacity (two teams).
func (d Detail) Seats() int {
	return d.Game.TeamSize * 2
}

// Client fetches room listings from one server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	url := strings.TrimSuffix(c.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("rooms: HTTP %d from %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// All returns every room, waiting rooms first, then by id.
func (c *Client) All(ctx context.Context) ([]Info, error) {
	var rooms []Info
	if err := c.get(ctx, "/rooms/all", &rooms); err != nil {
		return nil, err
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].IsStarted != rooms[j].IsStarted {
			return !rooms[i].IsStarted
		}
		return rooms[i].ID < rooms[j].ID
	})

	return rooms, nil
}

// Detail fetches one room's info record.
func (c *Client) Detail(ctx context.Context, id string) (Detail, error) {
	var d Detail
	if err := c.get(ctx, "/rooms/"+id+"/info", &d); err != nil {
		return Detail{}, err
	}
	return d, nil
}

// DefaultPageSize matches the lobby's five-rooms-per-page view.
const DefaultPageSize = 5

// Pager slices a sorted room index into fixed-size pages, 1-based.
type Pager struct {
	rooms   []Info
	perPage int
}

// NewPager wraps an index. perPage values below one fall back to
// DefaultPageSize.
func NewPager(rooms []Info, perPage int) *Pager {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return &Pager{rooms: rooms, perPage: perPage}
}

// Pages returns the number of pages, zero when the index is empty.
func (p *Pager) Pages() int {
	return (len(p.rooms) + p.perPage - 1) / p.perPage
}

// Page returns the entries of page n (1-based); out-of-range pages are
// empty.
func (p *Pager) Page(n int) []Info {
	if n < 1 {
		return nil
	}
	start := (n - 1) * p.perPage
	if start >= len(p.rooms) {
		return nil
	}
	end := start + p.perPage
	if end > len(p.rooms) {
		end = len(p.rooms)
	}
	return p.rooms[start:end]
}

// DetailPage fetches the info records for one page of the index. A room
// that fails to resolve fails the page; the lobby treats that as a
// reload.
func (c *Client) DetailPage(ctx context.Context, p *Pager, n int) ([]Detail, error) {
	page := p.Page(n)
	details := make([]Detail, 0, len(page))

	for _, room := range page {
		d, err := c.Detail(ctx, room.ID)
		if err != nil {
			return nil, fmt.Errorf("rooms: info for %s: %w", room.ID, err)
		}
		details = append(details, d)
	}

	return details, nil
}

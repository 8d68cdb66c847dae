package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// NewClient creates a Graph client whose refreshed tokens are saved back to
// the token file.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, log *zap.Logger) *Client {
	ts := &savingTokenSource{ts: cfg.TokenSource(ctx, tok), log: log}
	return NewClientWithHTTP(oauth2.NewClient(ctx, ts), graphBaseURL, log)
}

// NewClientWithHTTP creates a Graph client on an already authorised
// http.Client, talking to baseURL.
func NewClientWithHTTP(hc *http.Client, baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{httpClient: hc, baseURL: baseURL, log: log}
}

// savingTokenSource persists every token it hands out.
type savingTokenSource struct {
	ts  oauth2.TokenSource
	log *zap.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	path, err := tokenFilePath()
	if err == nil {
		err = saveToken(path, tok)
	}
	if err != nil && s.log != nil {
		s.log.Debug("could not persist token", zap.Error(err))
	}
	return tok, nil
}

// CalendarEvent represents a Microsoft Graph calendar event.
type CalendarEvent struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	BodyPreview string `json:"bodyPreview"`
	IsAllDay    bool   `json:"isAllDay"`
	IsCancelled bool   `json:"isCancelled"`
	Sensitivity string `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// GetCalendarView fetches the events in [from, to), following paging links.
// timezone is an IANA name; "" leaves Graph's UTC default.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	endpoint := fmt.Sprintf("%s/me/calendarView?startDateTime=%s&endDateTime=%s&$top=100",
		c.baseURL,
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)

	var all []CalendarEvent
	for page := 1; endpoint != ""; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if timezone != "" {
			req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("graph API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("graph API error %d: %s", resp.StatusCode, string(body))
		}

		var cv calendarViewResponse
		if err := json.Unmarshal(body, &cv); err != nil {
			return nil, fmt.Errorf("decoding graph response: %w", err)
		}
		c.log.Debug("fetched calendar page", zap.Int("page", page), zap.Int("events", len(cv.Value)))
		all = append(all, cv.Value...)
		endpoint = cv.NextLink
	}
	return all, nil
}

package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// fieldMask limits the response to what the sync engine reads.
var fieldMask = strings.Join([]string{
	"sheets/properties/title",
	"sheets/data/rowData/values/formattedValue",
	"sheets/data/rowData/values/hyperlink",
}, ",")

// Fetcher loads a set of ranges from a spreadsheet.
type Fetcher interface {
	Fetch(ctx context.Context, spreadsheetID string, ranges []string) (*Spreadsheet, error)
}

// FetchError is returned for non-2xx responses and undecodable bodies.
// StatusCode is 0 when the response was 2xx but malformed.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("sheets: malformed response: %v", e.Err)
	}
	return fmt.Sprintf("sheets: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client fetches spreadsheets from the Sheets v4 API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a Sheets client from the configuration.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Fetch issues one batched request for every range.
func (c *Client) Fetch(ctx context.Context, spreadsheetID string, ranges []string) (*Spreadsheet, error) {
	params := url.Values{}
	for _, r := range ranges {
		params.Add("ranges", r)
	}
	params.Set("fields", fieldMask)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.endpoint, url.PathEscape(spreadsheetID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet %s: %w", spreadsheetID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", spreadsheetID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	sheet, err := Parse(spreadsheetID, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched spreadsheet",
		zap.String("spreadsheet", spreadsheetID),
		zap.Int("ranges", len(ranges)),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return sheet, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type rawSpreadsheet struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
		Data []struct {
			RowData []struct {
				Values []rawCell `json:"values"`
			} `json:"rowData"`
		} `json:"data"`
	} `json:"sheets"`
}

type rawCell struct {
	FormattedValue *string `json:"formattedValue"`
	Hyperlink      string  `json:"hyperlink"`
}

// Parse decodes a spreadsheet response body. It is also used to replay
// archived snapshots.
func Parse(spreadsheetID string, body []byte) (*Spreadsheet, error) {
	var raw rawSpreadsheet
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Err: err}
	}
	if raw.Sheets == nil {
		return nil, &FetchError{Err: fmt.Errorf("missing sheets")}
	}

	out := &Spreadsheet{
		ID:     spreadsheetID,
		Sheets: make(map[string]*Sheet, len(raw.Sheets)),
		Raw:    body,
	}

	for _, rs := range raw.Sheets {
		sheet := &Sheet{Name: rs.Properties.Title}
		for _, data := range rs.Data {
			block := Block{Rows: make([]Row, 0, len(data.RowData))}
			for _, rr := range data.RowData {
				row := Row{Cells: make([]Cell, len(rr.Values))}
				for i, rc := range rr.Values {
					if rc.FormattedValue == nil && rc.Hyperlink == "" {
						continue
					}
					value := ""
					if rc.FormattedValue != nil {
						value = *rc.FormattedValue
					}
					row.Cells[i] = Cell{Value: &value, Hyperlink: rc.Hyperlink}
				}
				block.Rows = append(block.Rows, row)
			}
			sheet.Blocks = append(sheet.Blocks, block)
		}
		out.Sheets[sheet.Name] = sheet
	}

	return out, nil
}

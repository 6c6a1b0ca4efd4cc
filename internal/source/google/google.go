package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fundboard/internal/core"
	"fundboard/internal/source"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// Ensure interface conformance
var _ source.RecordSource = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and A1 range.
func New(ctx context.Context, spreadsheetID, readRange string) (*Client, error) {
	if readRange == "" {
		readRange = "Funding!A:I"
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// newSheetsService initializes a read-only Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// LoadRecords reads the configured range. The first row must be the header.
func (c *Client) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	src := "sheets:" + c.spreadsheetID + "/" + c.readRange
	if c.svc == nil {
		return nil, &core.LoadError{Source: src, Err: errors.New("sheets service not initialized")}
	}

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(cctx).
		Do()
	if err != nil {
		return nil, &core.LoadError{Source: src, Err: fmt.Errorf("read range: %w", err)}
	}

	records, err := parseValues(resp.Values)
	if err != nil {
		return nil, &core.LoadError{Source: src, Err: err}
	}
	slog.InfoContext(ctx, "Dataset read from Google Sheets",
		"spreadsheet_id", c.spreadsheetID,
		"range", c.readRange,
		"rows", len(records))
	return records, nil
}

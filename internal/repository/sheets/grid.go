package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Grid - операции над электронной таблицей, которые нужны хранилищу
type Grid interface {
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheet(ctx context.Context, title string, rows, cols int64) error
	Values(ctx context.Context, title string) ([][]string, error)
	AppendRow(ctx context.Context, title string, row []any) error
	UpdateCell(ctx context.Context, title, cell string, value any) error
}

// GoogleGrid реализует Grid поверх Google Sheets API
type GoogleGrid struct {
	srv           *gsheets.Service
	spreadsheetID string
}

// NewGoogleGrid авторизуется сервисным аккаунтом и открывает таблицу по ID
func NewGoogleGrid(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*GoogleGrid, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleGrid{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleGrid) SheetTitles(ctx context.Context) ([]string, error) {
	resp, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (g *GoogleGrid) AddSheet(ctx context.Context, title string, rows, cols int64) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{
			{
				AddSheet: &gsheets.AddSheetRequest{
					Properties: &gsheets.SheetProperties{
						Title: title,
						GridProperties: &gsheets.GridProperties{
							RowCount:    rows,
							ColumnCount: cols,
						},
					},
				},
			},
		},
	}

	if _, err := g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}

func (g *GoogleGrid) Values(ctx context.Context, title string) ([][]string, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", title, err)
	}

	values := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		values = append(values, cells)
	}
	return values, nil
}

func (g *GoogleGrid) AppendRow(ctx context.Context, title string, row []any) error {
	vr := &gsheets.ValueRange{Values: [][]any{row}}

	_, err := g.srv.Spreadsheets.Values.Append(g.spreadsheetID, title+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row %s: %w", title, err)
	}
	return nil
}

func (g *GoogleGrid) UpdateCell(ctx context.Context, title, cell string, value any) error {
	vr := &gsheets.ValueRange{Values: [][]any{{value}}}

	_, err := g.srv.Spreadsheets.Values.Update(g.spreadsheetID, title+"!"+cell, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s!%s: %w", title, cell, err)
	}
	return nil
}
